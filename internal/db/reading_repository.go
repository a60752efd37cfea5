package db

import (
	"context"
	"time"

	"github.com/terraincognita07/healthlog/internal/models"
	"gorm.io/gorm"
)

// Reading is the set of record kinds stored by ReadingRepository.
type Reading interface {
	models.BloodPressureRecord | models.BloodSugarRecord
}

// ReadingRepository stores one reading kind. Every read and delete is
// scoped by user_id so callers cannot reach another user's rows.
type ReadingRepository[T Reading] struct {
	database *gorm.DB
}

func NewBloodPressureRepository(database *gorm.DB) *ReadingRepository[models.BloodPressureRecord] {
	return &ReadingRepository[models.BloodPressureRecord]{database: database}
}

func NewBloodSugarRepository(database *gorm.DB) *ReadingRepository[models.BloodSugarRecord] {
	return &ReadingRepository[models.BloodSugarRecord]{database: database}
}

func (repo *ReadingRepository[T]) Create(ctx context.Context, record *T) error {
	return repo.database.WithContext(ctx).Create(record).Error
}

func (repo *ReadingRepository[T]) Save(ctx context.Context, record *T) error {
	return repo.database.WithContext(ctx).Save(record).Error
}

// FindByIDForUser returns gorm.ErrRecordNotFound both for missing ids and for
// ids owned by another user.
func (repo *ReadingRepository[T]) FindByIDForUser(ctx context.Context, id uint, userID uint) (T, error) {
	var record T
	if err := repo.database.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&record).Error; err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

func (repo *ReadingRepository[T]) DeleteByIDForUser(ctx context.Context, id uint, userID uint) (bool, error) {
	result := repo.database.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(new(T))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListPageByUser returns newest first.
func (repo *ReadingRepository[T]) ListPageByUser(ctx context.Context, userID uint, limit int, offset int) ([]T, error) {
	records := make([]T, 0, limit)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *ReadingRepository[T]) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByUserRange returns records with from <= recorded_at < to, oldest first.
func (repo *ReadingRepository[T]) ListByUserRange(ctx context.Context, userID uint, from time.Time, to time.Time) ([]T, error) {
	records := make([]T, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from.UTC(), to.UTC()).
		Order("recorded_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *ReadingRepository[T]) ListByUser(ctx context.Context, userID uint) ([]T, error) {
	records := make([]T, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListRecentByUser returns at most limit records, newest first.
func (repo *ReadingRepository[T]) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]T, error) {
	records := make([]T, 0, limit)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *ReadingRepository[T]) ListStaleByUser(ctx context.Context, userID uint, cutoff time.Time) ([]T, error) {
	records := make([]T, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND recorded_at < ?", userID, cutoff.UTC()).
		Order("recorded_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *ReadingRepository[T]) DeleteStaleByUser(ctx context.Context, userID uint, cutoff time.Time) (int64, error) {
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND recorded_at < ?", userID, cutoff.UTC()).
		Delete(new(T))
	return result.RowsAffected, result.Error
}
