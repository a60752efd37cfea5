package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/healthlog/internal/models"
)

const (
	BuddhistEraOffset = 543
	MinBuddhistYear   = 2500
	MaxBuddhistYear   = 2600

	MinSystolic  = 1
	MaxSystolic  = 300
	MinDiastolic = 1
	MaxDiastolic = 150
	MinPulse     = 1
	MaxPulse     = 300

	MaxNotesLength = 500
)

var (
	displayDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	clockTimePattern   = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	sugarAmountPattern = regexp.MustCompile(`^[1-9]\d{0,2}$`)
)

// February is always 28 days; leap years are not recognised.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// CalendarDate is a local calendar day with a Gregorian year.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (date CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", date.Year, int(date.Month), date.Day)
}

// CalendarDateOf returns the local calendar day containing moment.
func CalendarDateOf(moment time.Time, location *time.Location) CalendarDate {
	local := moment.In(location)
	return CalendarDate{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// ClockTime is an optional time of day supplied with a reading.
type ClockTime struct {
	Hour   int
	Minute int
}

// ValidateDate parses a dd/mm/yyyy string whose year is in the Buddhist era.
// Checks run year, month, then day, so the first violated part is reported.
// Surrounding whitespace is not accepted; callers trim transport input.
func ValidateDate(input string) (CalendarDate, error) {
	if input == "" {
		return CalendarDate{}, ErrDateMissing
	}

	matches := displayDatePattern.FindStringSubmatch(input)
	if matches == nil {
		return CalendarDate{}, ErrDateMalformed
	}
	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	buddhistYear, _ := strconv.Atoi(matches[3])

	if buddhistYear < MinBuddhistYear || buddhistYear > MaxBuddhistYear {
		return CalendarDate{}, ErrDateYearOutOfRange
	}
	if month < 1 || month > 12 {
		return CalendarDate{}, ErrDateMonthOutOfRange
	}
	if day < 1 {
		return CalendarDate{}, ErrDateDayOutOfRange
	}
	if day > daysInMonth[month-1] {
		return CalendarDate{}, ErrDateDayExceedsMonth
	}

	return CalendarDate{
		Year:  buddhistYear - BuddhistEraOffset,
		Month: time.Month(month),
		Day:   day,
	}, nil
}

// ParseClockTime accepts HH:MM in 24-hour form.
func ParseClockTime(input string) (ClockTime, error) {
	matches := clockTimePattern.FindStringSubmatch(input)
	if matches == nil {
		return ClockTime{}, ErrTimeMalformed
	}
	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	if hour > 23 || minute > 59 {
		return ClockTime{}, ErrTimeMalformed
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

func ValidateBloodPressure(systolic int, diastolic int, pulse *int) error {
	if systolic < MinSystolic || systolic > MaxSystolic {
		return ErrSystolicOutOfRange
	}
	if diastolic < MinDiastolic || diastolic > MaxDiastolic {
		return ErrDiastolicOutOfRange
	}
	if pulse != nil && (*pulse < MinPulse || *pulse > MaxPulse) {
		return ErrPulseOutOfRange
	}
	return nil
}

// ParseBloodSugar accepts "high", "low" or plain digits for an integer in
// [1,999]. Signs, leading zeros and whitespace are rejected.
func ParseBloodSugar(raw string) (models.SugarValue, error) {
	switch {
	case strings.EqualFold(raw, models.SugarHigh):
		return models.HighSugar(), nil
	case strings.EqualFold(raw, models.SugarLow):
		return models.LowSugar(), nil
	}

	if !sugarAmountPattern.MatchString(raw) {
		return models.SugarValue{}, ErrSugarValueInvalid
	}
	amount, err := strconv.Atoi(raw)
	if err != nil || amount < models.MinSugar || amount > models.MaxSugar {
		return models.SugarValue{}, ErrSugarValueInvalid
	}
	return models.NumericSugar(amount), nil
}

func ValidateBloodSugar(raw string) error {
	_, err := ParseBloodSugar(raw)
	return err
}

func ValidatePressureTimeOfDay(value string) error {
	return validateTimeOfDay(value, models.PressureTimesOfDay)
}

func ValidateSugarTimeOfDay(value string) error {
	return validateTimeOfDay(value, models.SugarTimesOfDay)
}

func validateTimeOfDay(value string, allowed []string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return ErrTimeOfDayInvalid
}

// NormalizeUnit defaults an empty unit to mg/dL.
func NormalizeUnit(raw string) (string, error) {
	switch strings.TrimSpace(raw) {
	case "", models.UnitMgDL:
		return models.UnitMgDL, nil
	case models.UnitMmolL:
		return models.UnitMmolL, nil
	default:
		return "", ErrUnitInvalid
	}
}

func NormalizeNotes(raw string) (string, error) {
	notes := strings.TrimSpace(raw)
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return "", ErrNotesTooLong
	}
	return notes, nil
}

// TimedRecord is the view of a stored reading needed for duplicate checks.
type TimedRecord interface {
	RecordID() uint
	RecordedTime() time.Time
	TimeOfDaySlot() string
}

// IsDuplicate reports whether another record shares the local calendar date
// and time-of-day slot. excludeID skips the record being edited; pass 0 when
// creating.
func IsDuplicate[R TimedRecord](existing []R, date CalendarDate, timeOfDay string, excludeID uint, location *time.Location) bool {
	for _, record := range existing {
		if excludeID != 0 && record.RecordID() == excludeID {
			continue
		}
		if record.TimeOfDaySlot() != timeOfDay {
			continue
		}
		if CalendarDateOf(record.RecordedTime(), location) == date {
			return true
		}
	}
	return false
}

// ToStorageTimestamp places the date at local midnight, or at clock when given.
func ToStorageTimestamp(date CalendarDate, clock *ClockTime, location *time.Location) time.Time {
	hour, minute := 0, 0
	if clock != nil {
		hour, minute = clock.Hour, clock.Minute
	}
	return time.Date(date.Year, date.Month, date.Day, hour, minute, 0, 0, location)
}

// ToDisplayDate renders moment as dd/mm/yyyy in the Buddhist era.
func ToDisplayDate(moment time.Time, location *time.Location) string {
	local := moment.In(location)
	return fmt.Sprintf("%02d/%02d/%04d", local.Day(), int(local.Month()), local.Year()+BuddhistEraOffset)
}

// DayBounds returns [start, end) of the local calendar day.
func DayBounds(date CalendarDate, location *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, location)
	return start, start.AddDate(0, 0, 1)
}
