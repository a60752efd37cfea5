package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/logger"
	"github.com/terraincognita07/healthlog/internal/models"
)

func TestSummarizePressure(t *testing.T) {
	base := time.Date(2024, time.January, 1, 8, 0, 0, 0, bangkok)
	records := make([]models.BloodPressureRecord, 0, 9)
	for day := 0; day < 9; day++ {
		records = append(records, models.BloodPressureRecord{
			ID:         uint(day + 1),
			Systolic:   110 + day,
			Diastolic:  70 + day,
			TimeOfDay:  models.TimeOfDayMorning,
			RecordedAt: base.AddDate(0, 0, day),
		})
	}

	stats := SummarizePressure(records, bangkok)
	if stats.Count != 9 || stats.AvgSystolic != 114 || stats.AvgDiastolic != 74 {
		t.Fatalf("unexpected averages %+v", stats)
	}
	if stats.MaxSystolic != 118 || stats.MinSystolic != 110 || stats.MaxDiastolic != 78 || stats.MinDiastolic != 70 {
		t.Fatalf("unexpected extremes %+v", stats)
	}
	if len(stats.Chart) != ChartPoints {
		t.Fatalf("expected %d chart points, got %d", ChartPoints, len(stats.Chart))
	}
	if stats.Chart[0].Systolic != 112 || stats.Chart[len(stats.Chart)-1].Systolic != 118 {
		t.Fatalf("expected newest readings in ascending order, got %+v", stats.Chart)
	}
	if stats.Chart[0].DisplayDate != "03/01/2567" {
		t.Fatalf("unexpected display date %q", stats.Chart[0].DisplayDate)
	}
}

func TestSummarizeSugarExcludesCategoricalValues(t *testing.T) {
	base := time.Date(2024, time.January, 1, 8, 0, 0, 0, bangkok)
	records := []models.BloodSugarRecord{
		{Value: models.NumericSugar(100), Unit: models.UnitMgDL, RecordedAt: base},
		{Value: models.HighSugar(), Unit: models.UnitMgDL, RecordedAt: base.Add(time.Hour)},
		{Value: models.NumericSugar(151), Unit: models.UnitMgDL, RecordedAt: base.Add(2 * time.Hour)},
		{Value: models.LowSugar(), Unit: models.UnitMgDL, RecordedAt: base.Add(3 * time.Hour)},
	}

	stats := SummarizeSugar(records, bangkok)
	if stats.Count != 4 || stats.NumericCount != 2 || stats.HighCount != 1 || stats.LowCount != 1 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.Average == nil || *stats.Average != 126 {
		t.Fatalf("expected rounded average 126, got %v", stats.Average)
	}
	if *stats.Max != 151 || *stats.Min != 100 {
		t.Fatalf("unexpected extremes max=%d min=%d", *stats.Max, *stats.Min)
	}
	if len(stats.Chart) != 4 {
		t.Fatalf("expected every reading in the chart, got %d", len(stats.Chart))
	}
}

func TestSummarizeSugarMmolUsesOneDecimal(t *testing.T) {
	records := []models.BloodSugarRecord{
		{Value: models.NumericSugar(5), Unit: models.UnitMmolL},
		{Value: models.NumericSugar(6), Unit: models.UnitMmolL},
		{Value: models.NumericSugar(6), Unit: models.UnitMmolL},
	}
	stats := SummarizeSugar(records, bangkok)
	if stats.Unit != models.UnitMmolL || stats.Average == nil || *stats.Average != 5.7 {
		t.Fatalf("expected 5.7 mmol/L, got %+v", stats)
	}
}

func TestSummarizeSugarOnlyCategorical(t *testing.T) {
	stats := SummarizeSugar([]models.BloodSugarRecord{{Value: models.HighSugar(), Unit: models.UnitMgDL}}, bangkok)
	if stats.Average != nil || stats.Max != nil || stats.Min != nil {
		t.Fatalf("expected no numeric aggregates, got %+v", stats)
	}
}

func TestBuildDashboardStatsWrapsStorageErrors(t *testing.T) {
	service := NewStatsService(
		readingListerStub[models.BloodPressureRecord]{err: errors.New("disk I/O error")},
		readingListerStub[models.BloodSugarRecord]{},
		bangkok,
		logger.Discard(),
	)
	_, err := service.BuildDashboardStats(context.Background(), 1)
	if apperrors.TypeOf(err) != apperrors.ErrorTypeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
