package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/healthlog/internal/logger"
	"github.com/terraincognita07/healthlog/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(filepath.Join(t.TempDir(), "healthlog-test.db"), logger.Discard())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func createTestUser(t *testing.T, database *gorm.DB, phone string, consent bool) models.User {
	t.Helper()

	user := models.User{
		Phone:        phone,
		PasswordHash: "hash",
		FirstName:    "Somchai",
		Consent:      consent,
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", phone, err)
	}
	return user
}

func createPressure(t *testing.T, database *gorm.DB, userID uint, recordedAt time.Time, timeOfDay string) models.BloodPressureRecord {
	t.Helper()

	record := models.BloodPressureRecord{
		UserID:     userID,
		Systolic:   120,
		Diastolic:  80,
		TimeOfDay:  timeOfDay,
		RecordedAt: recordedAt,
	}
	if err := database.Create(&record).Error; err != nil {
		t.Fatalf("create blood pressure record: %v", err)
	}
	return record
}

func createSugar(t *testing.T, database *gorm.DB, userID uint, recordedAt time.Time, value models.SugarValue) models.BloodSugarRecord {
	t.Helper()

	record := models.BloodSugarRecord{
		UserID:     userID,
		Value:      value,
		Unit:       models.UnitMgDL,
		TimeOfDay:  models.TimeOfDayBeforeBreakfast,
		RecordedAt: recordedAt,
	}
	if err := database.Create(&record).Error; err != nil {
		t.Fatalf("create blood sugar record: %v", err)
	}
	return record
}
