package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const (
	TimeOfDayBeforeBreakfast = "before_breakfast"
	TimeOfDayBeforeLunch     = "before_lunch"
	TimeOfDayBeforeDinner    = "before_dinner"
	TimeOfDayAfterMeal2h     = "after_meal_2h"
)

// SugarTimesOfDay lists the measurement slots in display order.
var SugarTimesOfDay = []string{
	TimeOfDayBeforeBreakfast,
	TimeOfDayBeforeLunch,
	TimeOfDayBeforeDinner,
	TimeOfDayAfterMeal2h,
	TimeOfDayBeforeBed,
}

const (
	UnitMgDL  = "mg/dL"
	UnitMmolL = "mmol/L"
	SugarHigh = "high"
	SugarLow  = "low"
	MinSugar  = 1
	MaxSugar  = 999
)

type SugarKind int

const (
	SugarNumeric SugarKind = iota
	SugarCategoricalHigh
	SugarCategoricalLow
)

// SugarValue is either a bounded integer reading or one of the meter's
// out-of-range markers ("high", "low").
type SugarValue struct {
	Kind   SugarKind
	Amount int
}

func NumericSugar(amount int) SugarValue {
	return SugarValue{Kind: SugarNumeric, Amount: amount}
}

func HighSugar() SugarValue { return SugarValue{Kind: SugarCategoricalHigh} }
func LowSugar() SugarValue  { return SugarValue{Kind: SugarCategoricalLow} }

func (value SugarValue) IsNumeric() bool {
	return value.Kind == SugarNumeric
}

func (value SugarValue) String() string {
	switch value.Kind {
	case SugarCategoricalHigh:
		return SugarHigh
	case SugarCategoricalLow:
		return SugarLow
	default:
		return strconv.Itoa(value.Amount)
	}
}

// ParseStoredSugarValue decodes the column representation written by Value.
func ParseStoredSugarValue(raw string) (SugarValue, error) {
	switch raw {
	case SugarHigh:
		return HighSugar(), nil
	case SugarLow:
		return LowSugar(), nil
	}
	amount, err := strconv.Atoi(raw)
	if err != nil {
		return SugarValue{}, fmt.Errorf("parse sugar value %q: %w", raw, err)
	}
	return NumericSugar(amount), nil
}

func (value SugarValue) Value() (driver.Value, error) {
	return value.String(), nil
}

func (value *SugarValue) Scan(src any) error {
	var raw string
	switch typed := src.(type) {
	case string:
		raw = typed
	case []byte:
		raw = string(typed)
	case int64:
		*value = NumericSugar(int(typed))
		return nil
	case nil:
		*value = SugarValue{}
		return nil
	default:
		return fmt.Errorf("unsupported sugar value type %T", src)
	}
	parsed, err := ParseStoredSugarValue(raw)
	if err != nil {
		return err
	}
	*value = parsed
	return nil
}

func (value SugarValue) MarshalJSON() ([]byte, error) {
	if value.IsNumeric() {
		return json.Marshal(value.Amount)
	}
	return json.Marshal(value.String())
}

func (value *SugarValue) UnmarshalJSON(data []byte) error {
	var amount int
	if err := json.Unmarshal(data, &amount); err == nil {
		*value = NumericSugar(amount)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStoredSugarValue(raw)
	if err != nil {
		return err
	}
	*value = parsed
	return nil
}

type BloodSugarRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index:idx_bs_user_recorded" json:"user_id"`
	Value      SugarValue `gorm:"type:text;not null" json:"value"`
	Unit       string     `gorm:"not null;default:'mg/dL'" json:"unit"`
	TimeOfDay  string     `gorm:"not null" json:"time_of_day"`
	Notes      string     `json:"notes,omitempty"`
	RecordedAt time.Time  `gorm:"not null;index:idx_bs_user_recorded" json:"recorded_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (BloodSugarRecord) TableName() string {
	return "blood_sugar_records"
}

// BeforeSave keeps stored timestamps in UTC so range predicates compare consistently.
func (record *BloodSugarRecord) BeforeSave(_ *gorm.DB) error {
	record.RecordedAt = record.RecordedAt.UTC()
	return nil
}

func (record BloodSugarRecord) RecordID() uint          { return record.ID }
func (record BloodSugarRecord) OwnerID() uint           { return record.UserID }
func (record BloodSugarRecord) RecordedTime() time.Time { return record.RecordedAt }
func (record BloodSugarRecord) CreatedTime() time.Time  { return record.CreatedAt }
func (record BloodSugarRecord) TimeOfDaySlot() string   { return record.TimeOfDay }

// AssignIdentity sets the fields owned by the store rather than the payload.
func (record *BloodSugarRecord) AssignIdentity(id uint, userID uint, createdAt time.Time) {
	record.ID = id
	record.UserID = userID
	record.CreatedAt = createdAt
}

func (record *BloodSugarRecord) SetRecordedAt(recordedAt time.Time) {
	record.RecordedAt = recordedAt
}
