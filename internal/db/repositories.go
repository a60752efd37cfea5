package db

import (
	"github.com/terraincognita07/healthlog/internal/models"
	"gorm.io/gorm"
)

type Repositories struct {
	Users         *UserRepository
	BloodPressure *ReadingRepository[models.BloodPressureRecord]
	BloodSugar    *ReadingRepository[models.BloodSugarRecord]
	EmailLogs     *EmailLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		BloodPressure: NewBloodPressureRepository(database),
		BloodSugar:    NewBloodSugarRepository(database),
		EmailLogs:     NewEmailLogRepository(database),
	}
}
