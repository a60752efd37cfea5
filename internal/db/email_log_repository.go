package db

import (
	"context"

	"github.com/terraincognita07/healthlog/internal/models"
	"gorm.io/gorm"
)

// EmailLogRepository only appends and reads; audit rows are never changed.
type EmailLogRepository struct {
	database *gorm.DB
}

func NewEmailLogRepository(database *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{database: database}
}

func (repo *EmailLogRepository) Create(ctx context.Context, entry *models.EmailLog) error {
	return repo.database.WithContext(ctx).Create(entry).Error
}

func (repo *EmailLogRepository) ListByUser(ctx context.Context, userID uint) ([]models.EmailLog, error) {
	entries := make([]models.EmailLog, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
