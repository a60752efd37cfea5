package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/models"
)

// ChartPoints is how many of the newest readings feed a chart or the weekly export.
const ChartPoints = 7

type PressurePoint struct {
	RecordedAt  time.Time `json:"recorded_at"`
	DisplayDate string    `json:"display_date"`
	TimeOfDay   string    `json:"time_of_day"`
	Systolic    int       `json:"systolic"`
	Diastolic   int       `json:"diastolic"`
	Pulse       *int      `json:"pulse,omitempty"`
}

type PressureStats struct {
	Count        int             `json:"count"`
	AvgSystolic  int             `json:"avg_systolic"`
	AvgDiastolic int             `json:"avg_diastolic"`
	MaxSystolic  int             `json:"max_systolic"`
	MinSystolic  int             `json:"min_systolic"`
	MaxDiastolic int             `json:"max_diastolic"`
	MinDiastolic int             `json:"min_diastolic"`
	Chart        []PressurePoint `json:"chart"`
}

type SugarPoint struct {
	RecordedAt  time.Time         `json:"recorded_at"`
	DisplayDate string            `json:"display_date"`
	TimeOfDay   string            `json:"time_of_day"`
	Value       models.SugarValue `json:"value"`
	Unit        string            `json:"unit"`
}

// SugarStats aggregates only numeric readings; high and low markers are
// counted separately and never enter the average or the extremes.
type SugarStats struct {
	Count        int          `json:"count"`
	NumericCount int          `json:"numeric_count"`
	HighCount    int          `json:"high_count"`
	LowCount     int          `json:"low_count"`
	Unit         string       `json:"unit"`
	Average      *float64     `json:"average,omitempty"`
	Max          *int         `json:"max,omitempty"`
	Min          *int         `json:"min,omitempty"`
	Chart        []SugarPoint `json:"chart"`
}

type DashboardStats struct {
	BloodPressure PressureStats `json:"blood_pressure"`
	BloodSugar    SugarStats    `json:"blood_sugar"`
}

type StatsService struct {
	pressure ReadingLister[models.BloodPressureRecord]
	sugar    ReadingLister[models.BloodSugarRecord]
	location *time.Location
	log      *slog.Logger
}

func NewStatsService(
	pressure ReadingLister[models.BloodPressureRecord],
	sugar ReadingLister[models.BloodSugarRecord],
	location *time.Location,
	log *slog.Logger,
) *StatsService {
	if location == nil {
		location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &StatsService{pressure: pressure, sugar: sugar, location: location, log: log}
}

func (service *StatsService) BuildDashboardStats(ctx context.Context, userID uint) (DashboardStats, error) {
	pressure, err := service.pressure.ListByUser(ctx, userID)
	if err != nil {
		return DashboardStats{}, service.storageError(userID, err)
	}
	sugar, err := service.sugar.ListByUser(ctx, userID)
	if err != nil {
		return DashboardStats{}, service.storageError(userID, err)
	}
	return DashboardStats{
		BloodPressure: SummarizePressure(pressure, service.location),
		BloodSugar:    SummarizeSugar(sugar, service.location),
	}, nil
}

func (service *StatsService) storageError(userID uint, err error) error {
	appErr := apperrors.NewDependencyError(err, "database")
	service.log.Error("load readings for stats failed", append([]any{"user_id", userID}, appErr.LogFields()...)...)
	return appErr
}

// SummarizePressure expects records oldest first.
func SummarizePressure(records []models.BloodPressureRecord, location *time.Location) PressureStats {
	stats := PressureStats{Count: len(records), Chart: make([]PressurePoint, 0, ChartPoints)}
	if len(records) == 0 {
		return stats
	}

	systolicSum, diastolicSum := 0, 0
	stats.MaxSystolic, stats.MinSystolic = records[0].Systolic, records[0].Systolic
	stats.MaxDiastolic, stats.MinDiastolic = records[0].Diastolic, records[0].Diastolic
	for _, record := range records {
		systolicSum += record.Systolic
		diastolicSum += record.Diastolic
		stats.MaxSystolic = max(stats.MaxSystolic, record.Systolic)
		stats.MinSystolic = min(stats.MinSystolic, record.Systolic)
		stats.MaxDiastolic = max(stats.MaxDiastolic, record.Diastolic)
		stats.MinDiastolic = min(stats.MinDiastolic, record.Diastolic)
	}
	stats.AvgSystolic = roundedMean(systolicSum, len(records))
	stats.AvgDiastolic = roundedMean(diastolicSum, len(records))

	for _, record := range Newest(records, ChartPoints) {
		stats.Chart = append(stats.Chart, PressurePoint{
			RecordedAt:  record.RecordedAt,
			DisplayDate: ToDisplayDate(record.RecordedAt, location),
			TimeOfDay:   record.TimeOfDay,
			Systolic:    record.Systolic,
			Diastolic:   record.Diastolic,
			Pulse:       record.Pulse,
		})
	}
	return stats
}

// SummarizeSugar expects records oldest first.
func SummarizeSugar(records []models.BloodSugarRecord, location *time.Location) SugarStats {
	stats := SugarStats{Count: len(records), Unit: models.UnitMgDL, Chart: make([]SugarPoint, 0, ChartPoints)}
	if len(records) == 0 {
		return stats
	}
	stats.Unit = records[len(records)-1].Unit

	sum := 0
	var highest, lowest int
	for _, record := range records {
		switch record.Value.Kind {
		case models.SugarCategoricalHigh:
			stats.HighCount++
			continue
		case models.SugarCategoricalLow:
			stats.LowCount++
			continue
		}
		amount := record.Value.Amount
		if stats.NumericCount == 0 {
			highest, lowest = amount, amount
		}
		stats.NumericCount++
		sum += amount
		highest = max(highest, amount)
		lowest = min(lowest, amount)
	}

	if stats.NumericCount > 0 {
		average := float64(sum) / float64(stats.NumericCount)
		if stats.Unit == models.UnitMmolL {
			average = math.Round(average*10) / 10
		} else {
			average = math.Round(average)
		}
		stats.Average = &average
		stats.Max = &highest
		stats.Min = &lowest
	}

	for _, record := range Newest(records, ChartPoints) {
		stats.Chart = append(stats.Chart, SugarPoint{
			RecordedAt:  record.RecordedAt,
			DisplayDate: ToDisplayDate(record.RecordedAt, location),
			TimeOfDay:   record.TimeOfDay,
			Value:       record.Value,
			Unit:        record.Unit,
		})
	}
	return stats
}

// Newest returns the last n of records sorted oldest first, keeping that order.
func Newest[T any](records []T, n int) []T {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

func roundedMean(sum int, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}
