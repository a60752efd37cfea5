package services

import (
	"strconv"
	"time"

	"github.com/terraincognita07/healthlog/internal/i18n"
	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/report"
)

const reportClockLayout = "15:04"

// HealthReport is the data handed to the clinic or rendered to PDF.
type HealthReport struct {
	User          models.User
	BloodPressure []models.BloodPressureRecord
	BloodSugar    []models.BloodSugarRecord
}

func (healthReport HealthReport) RecordCount() int {
	return len(healthReport.BloodPressure) + len(healthReport.BloodSugar)
}

// BuildReportDocument formats a report for rendering: Buddhist dates in the
// configured location, localized time-of-day labels and sugar markers.
func BuildReportDocument(healthReport HealthReport, title string, intro string, messages i18n.Localizer, location *time.Location, generatedAt time.Time) report.Document {
	if location == nil {
		location = time.UTC
	}

	document := report.Document{
		Language: messages.Language(),
		Subject:  title,
		Title:    title,
		Intro:    intro,
		Profile:  reportProfile(healthReport.User, messages),
		Footer:   messages.Tf("report.generated_at", formatReportMoment(generatedAt, location)),
	}

	pressure := report.Table{
		Title: messages.T("report.blood_pressure"),
		Headers: []string{
			messages.T("report.date"),
			messages.T("report.time_of_day"),
			messages.T("report.systolic"),
			messages.T("report.diastolic"),
			messages.T("report.pulse"),
			messages.T("report.notes"),
		},
		Empty: messages.T("report.no_records"),
	}
	for _, record := range healthReport.BloodPressure {
		pulse := "-"
		if record.Pulse != nil {
			pulse = strconv.Itoa(*record.Pulse)
		}
		pressure.Rows = append(pressure.Rows, []string{
			formatReportMoment(record.RecordedAt, location),
			messages.T("time_of_day." + record.TimeOfDay),
			strconv.Itoa(record.Systolic),
			strconv.Itoa(record.Diastolic),
			pulse,
			record.Notes,
		})
	}

	sugar := report.Table{
		Title: messages.T("report.blood_sugar"),
		Headers: []string{
			messages.T("report.date"),
			messages.T("report.time_of_day"),
			messages.T("report.value"),
			messages.T("report.unit"),
			messages.T("report.notes"),
		},
		Empty: messages.T("report.no_records"),
	}
	for _, record := range healthReport.BloodSugar {
		sugar.Rows = append(sugar.Rows, []string{
			formatReportMoment(record.RecordedAt, location),
			messages.T("time_of_day." + record.TimeOfDay),
			SugarLabel(record.Value, messages),
			record.Unit,
			record.Notes,
		})
	}

	document.Tables = []report.Table{pressure, sugar}
	return document
}

// SugarLabel renders a sugar value, translating the meter's high/low markers.
func SugarLabel(value models.SugarValue, messages i18n.Localizer) string {
	switch value.Kind {
	case models.SugarCategoricalHigh:
		return messages.T("sugar.high")
	case models.SugarCategoricalLow:
		return messages.T("sugar.low")
	default:
		return strconv.Itoa(value.Amount)
	}
}

func reportProfile(user models.User, messages i18n.Localizer) []report.Field {
	candidates := []report.Field{
		{Label: messages.T("report.patient"), Value: user.FullName()},
		{Label: messages.T("report.phone"), Value: user.Phone},
		{Label: messages.T("report.hn_number"), Value: user.HNNumber},
		{Label: messages.T("report.temple"), Value: user.Temple},
		{Label: messages.T("report.email"), Value: user.Email},
	}
	fields := make([]report.Field, 0, len(candidates))
	for _, field := range candidates {
		if field.Value != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

func formatReportMoment(moment time.Time, location *time.Location) string {
	return ToDisplayDate(moment, location) + " " + moment.In(location).Format(reportClockLayout)
}
