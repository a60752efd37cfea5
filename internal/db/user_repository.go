package db

import (
	"context"
	"time"

	"github.com/terraincognita07/healthlog/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).
		Model(&models.User{}).
		Where("phone = ?", phone).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	return repo.database.WithContext(ctx).Create(user).Error
}

func (repo *UserRepository) UpdateConsent(ctx context.Context, userID uint, consent bool) error {
	return repo.database.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("consent", consent).Error
}

func (repo *UserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return repo.database.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

// ListWithStaleRecords returns every user owning at least one reading recorded
// before cutoff. Only the stale readings are preloaded.
func (repo *UserRepository) ListWithStaleRecords(ctx context.Context, cutoff time.Time) ([]models.User, error) {
	cutoff = cutoff.UTC()
	stalePressure := repo.database.Model(&models.BloodPressureRecord{}).
		Select("user_id").
		Where("recorded_at < ?", cutoff)
	staleSugar := repo.database.Model(&models.BloodSugarRecord{}).
		Select("user_id").
		Where("recorded_at < ?", cutoff)

	users := make([]models.User, 0)
	if err := repo.database.WithContext(ctx).
		Where("id IN (?) OR id IN (?)", stalePressure, staleSugar).
		Preload("BloodPressureRecords", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("recorded_at < ?", cutoff).Order("recorded_at ASC, id ASC")
		}).
		Preload("BloodSugarRecords", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("recorded_at < ?", cutoff).Order("recorded_at ASC, id ASC")
		}).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
