package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 30
	MaxPageLimit     = 100
)

// Reading is a stored reading kind.
type Reading interface {
	models.BloodPressureRecord | models.BloodSugarRecord
	TimedRecord
	OwnerID() uint
	CreatedTime() time.Time
}

// readingPtr exposes the store-owned fields of a reading for assignment.
type readingPtr[T Reading] interface {
	*T
	AssignIdentity(id uint, userID uint, createdAt time.Time)
	SetRecordedAt(recordedAt time.Time)
}

type ReadingStore[T Reading] interface {
	Create(ctx context.Context, record *T) error
	Save(ctx context.Context, record *T) error
	FindByIDForUser(ctx context.Context, id uint, userID uint) (T, error)
	DeleteByIDForUser(ctx context.Context, id uint, userID uint) (bool, error)
	ListPageByUser(ctx context.Context, userID uint, limit int, offset int) ([]T, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	ListByUserRange(ctx context.Context, userID uint, from time.Time, to time.Time) ([]T, error)
}

// Page is one offset/limit window of a user's readings, newest first.
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// ReadingTiming is the optional date and clock supplied with a payload.
type ReadingTiming struct {
	Date  *CalendarDate
	Clock *ClockTime
}

// ParseReadingTiming validates the date and time strings of a payload. A
// time without a date is rejected as a missing date.
func ParseReadingTiming(dateRaw string, timeRaw string) (ReadingTiming, error) {
	timing := ReadingTiming{}
	if dateRaw != "" {
		date, err := ValidateDate(dateRaw)
		if err != nil {
			return ReadingTiming{}, err
		}
		timing.Date = &date
	}
	if timeRaw != "" {
		if timing.Date == nil {
			return ReadingTiming{}, ErrDateMissing
		}
		clock, err := ParseClockTime(timeRaw)
		if err != nil {
			return ReadingTiming{}, err
		}
		timing.Clock = &clock
	}
	return timing, nil
}

// RecordService runs create, update, delete and list for one reading kind.
// parse validates a payload into a record carrying only payload fields.
type RecordService[T Reading, P readingPtr[T], In any] struct {
	store    ReadingStore[T]
	parse    func(In) (T, ReadingTiming, error)
	location *time.Location
	now      func() time.Time
	log      *slog.Logger
}

func newRecordService[T Reading, P readingPtr[T], In any](
	store ReadingStore[T],
	parse func(In) (T, ReadingTiming, error),
	location *time.Location,
	log *slog.Logger,
) *RecordService[T, P, In] {
	if location == nil {
		location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &RecordService[T, P, In]{store: store, parse: parse, location: location, now: time.Now, log: log}
}

func (s *RecordService[T, P, In]) Location() *time.Location {
	return s.location
}

func (s *RecordService[T, P, In]) Create(ctx context.Context, userID uint, input In) (T, error) {
	var zero T
	if userID == 0 {
		return zero, apperrors.ErrUnauthorized
	}

	record, timing, err := s.parse(input)
	if err != nil {
		return zero, err
	}
	recordedAt := s.recordedAt(timing, s.now())

	if err := s.ensureUnique(ctx, userID, recordedAt, record.TimeOfDaySlot(), 0); err != nil {
		return zero, err
	}

	P(&record).AssignIdentity(0, userID, time.Time{})
	P(&record).SetRecordedAt(recordedAt)
	if err := s.store.Create(ctx, &record); err != nil {
		return zero, s.storageError("create reading", userID, err)
	}
	return record, nil
}

// Update validates first, then resolves the record through an owner-scoped
// lookup so another user's id is indistinguishable from a missing one.
func (s *RecordService[T, P, In]) Update(ctx context.Context, userID uint, id uint, input In) (T, error) {
	var zero T
	if userID == 0 {
		return zero, apperrors.ErrUnauthorized
	}

	record, timing, err := s.parse(input)
	if err != nil {
		return zero, err
	}

	existing, err := s.store.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, ErrRecordNotFound
		}
		return zero, s.storageError("load reading", userID, err)
	}
	recordedAt := s.recordedAt(timing, existing.RecordedTime())

	if err := s.ensureUnique(ctx, userID, recordedAt, record.TimeOfDaySlot(), id); err != nil {
		return zero, err
	}

	P(&record).AssignIdentity(id, userID, existing.CreatedTime())
	P(&record).SetRecordedAt(recordedAt)
	if err := s.store.Save(ctx, &record); err != nil {
		return zero, s.storageError("update reading", userID, err)
	}
	return record, nil
}

func (s *RecordService[T, P, In]) Delete(ctx context.Context, userID uint, id uint) error {
	if userID == 0 {
		return apperrors.ErrUnauthorized
	}
	deleted, err := s.store.DeleteByIDForUser(ctx, id, userID)
	if err != nil {
		return s.storageError("delete reading", userID, err)
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

func (s *RecordService[T, P, In]) List(ctx context.Context, userID uint, limit int, offset int) (Page[T], error) {
	if userID == 0 {
		return Page[T]{}, apperrors.ErrUnauthorized
	}
	limit, offset = NormalizePage(limit, offset)

	total, err := s.store.CountByUser(ctx, userID)
	if err != nil {
		return Page[T]{}, s.storageError("count readings", userID, err)
	}
	records, err := s.store.ListPageByUser(ctx, userID, limit, offset)
	if err != nil {
		return Page[T]{}, s.storageError("list readings", userID, err)
	}

	return Page[T]{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

// NormalizePage applies the default and maximum page size.
func NormalizePage(limit int, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *RecordService[T, P, In]) recordedAt(timing ReadingTiming, fallback time.Time) time.Time {
	if timing.Date == nil {
		return fallback
	}
	return ToStorageTimestamp(*timing.Date, timing.Clock, s.location)
}

func (s *RecordService[T, P, In]) ensureUnique(ctx context.Context, userID uint, recordedAt time.Time, timeOfDay string, excludeID uint) error {
	date := CalendarDateOf(recordedAt, s.location)
	dayStart, dayEnd := DayBounds(date, s.location)

	sameDay, err := s.store.ListByUserRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return s.storageError("load readings for duplicate check", userID, err)
	}
	if IsDuplicate(sameDay, date, timeOfDay, excludeID, s.location) {
		return ErrDuplicateReading
	}
	return nil
}

func (s *RecordService[T, P, In]) storageError(operation string, userID uint, err error) error {
	appErr := apperrors.NewDependencyError(err, "database")
	s.log.Error(operation+" failed", append([]any{"user_id", userID}, appErr.LogFields()...)...)
	return appErr
}

type PressureInput struct {
	Date      string
	Time      string
	Systolic  int
	Diastolic int
	Pulse     *int
	TimeOfDay string
	Notes     string
}

type SugarInput struct {
	Date      string
	Time      string
	Value     string
	Unit      string
	TimeOfDay string
	Notes     string
}

type BloodPressureService = RecordService[models.BloodPressureRecord, *models.BloodPressureRecord, PressureInput]
type BloodSugarService = RecordService[models.BloodSugarRecord, *models.BloodSugarRecord, SugarInput]

func NewBloodPressureService(store ReadingStore[models.BloodPressureRecord], location *time.Location, log *slog.Logger) *BloodPressureService {
	return newRecordService[models.BloodPressureRecord, *models.BloodPressureRecord](store, ParsePressureInput, location, log)
}

func NewBloodSugarService(store ReadingStore[models.BloodSugarRecord], location *time.Location, log *slog.Logger) *BloodSugarService {
	return newRecordService[models.BloodSugarRecord, *models.BloodSugarRecord](store, ParseSugarInput, location, log)
}

func ParsePressureInput(input PressureInput) (models.BloodPressureRecord, ReadingTiming, error) {
	if err := ValidateBloodPressure(input.Systolic, input.Diastolic, input.Pulse); err != nil {
		return models.BloodPressureRecord{}, ReadingTiming{}, err
	}
	if err := ValidatePressureTimeOfDay(input.TimeOfDay); err != nil {
		return models.BloodPressureRecord{}, ReadingTiming{}, err
	}
	timing, err := ParseReadingTiming(input.Date, input.Time)
	if err != nil {
		return models.BloodPressureRecord{}, ReadingTiming{}, err
	}
	notes, err := NormalizeNotes(input.Notes)
	if err != nil {
		return models.BloodPressureRecord{}, ReadingTiming{}, err
	}

	return models.BloodPressureRecord{
		Systolic:  input.Systolic,
		Diastolic: input.Diastolic,
		Pulse:     input.Pulse,
		TimeOfDay: input.TimeOfDay,
		Notes:     notes,
	}, timing, nil
}

func ParseSugarInput(input SugarInput) (models.BloodSugarRecord, ReadingTiming, error) {
	value, err := ParseBloodSugar(input.Value)
	if err != nil {
		return models.BloodSugarRecord{}, ReadingTiming{}, err
	}
	unit, err := NormalizeUnit(input.Unit)
	if err != nil {
		return models.BloodSugarRecord{}, ReadingTiming{}, err
	}
	if err := ValidateSugarTimeOfDay(input.TimeOfDay); err != nil {
		return models.BloodSugarRecord{}, ReadingTiming{}, err
	}
	timing, err := ParseReadingTiming(input.Date, input.Time)
	if err != nil {
		return models.BloodSugarRecord{}, ReadingTiming{}, err
	}
	notes, err := NormalizeNotes(input.Notes)
	if err != nil {
		return models.BloodSugarRecord{}, ReadingTiming{}, err
	}

	return models.BloodSugarRecord{
		Value:     value,
		Unit:      unit,
		TimeOfDay: input.TimeOfDay,
		Notes:     notes,
	}, timing, nil
}
