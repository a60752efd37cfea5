package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayBeforeBed = "before_bed"
)

// PressureTimesOfDay lists the measurement slots in display order.
var PressureTimesOfDay = []string{
	TimeOfDayMorning,
	TimeOfDayAfternoon,
	TimeOfDayEvening,
	TimeOfDayBeforeBed,
}

type BloodPressureRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_bp_user_recorded" json:"user_id"`
	Systolic   int       `gorm:"not null" json:"systolic"`
	Diastolic  int       `gorm:"not null" json:"diastolic"`
	Pulse      *int      `json:"pulse,omitempty"`
	TimeOfDay  string    `gorm:"not null" json:"time_of_day"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `gorm:"not null;index:idx_bp_user_recorded" json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (BloodPressureRecord) TableName() string {
	return "blood_pressure_records"
}

// BeforeSave keeps stored timestamps in UTC so range predicates compare consistently.
func (record *BloodPressureRecord) BeforeSave(_ *gorm.DB) error {
	record.RecordedAt = record.RecordedAt.UTC()
	return nil
}

func (record BloodPressureRecord) RecordID() uint          { return record.ID }
func (record BloodPressureRecord) OwnerID() uint           { return record.UserID }
func (record BloodPressureRecord) RecordedTime() time.Time { return record.RecordedAt }
func (record BloodPressureRecord) CreatedTime() time.Time  { return record.CreatedAt }
func (record BloodPressureRecord) TimeOfDaySlot() string   { return record.TimeOfDay }

// AssignIdentity sets the fields owned by the store rather than the payload.
func (record *BloodPressureRecord) AssignIdentity(id uint, userID uint, createdAt time.Time) {
	record.ID = id
	record.UserID = userID
	record.CreatedAt = createdAt
}

func (record *BloodPressureRecord) SetRecordedAt(recordedAt time.Time) {
	record.RecordedAt = recordedAt
}
