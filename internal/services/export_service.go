package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/i18n"
	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/report"
)

type RecentReadingLister[T Reading] interface {
	ListRecentByUser(ctx context.Context, userID uint, limit int) ([]T, error)
}

type DocumentRenderer interface {
	Render(output io.Writer, document report.Document) error
}

// unicodeRenderer is implemented by renderers whose glyph coverage depends on
// configuration. Renderers without it are assumed to handle any script.
type unicodeRenderer interface {
	SupportsUnicode() bool
}

// ExportService builds the weekly PDF from the newest readings of each kind.
type ExportService struct {
	pressure RecentReadingLister[models.BloodPressureRecord]
	sugar    RecentReadingLister[models.BloodSugarRecord]
	renderer DocumentRenderer
	messages *i18n.Manager
	location *time.Location
	now      func() time.Time
	log      *slog.Logger
}

func NewExportService(
	pressure RecentReadingLister[models.BloodPressureRecord],
	sugar RecentReadingLister[models.BloodSugarRecord],
	renderer DocumentRenderer,
	messages *i18n.Manager,
	location *time.Location,
	log *slog.Logger,
) *ExportService {
	if location == nil {
		location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &ExportService{
		pressure: pressure,
		sugar:    sugar,
		renderer: renderer,
		messages: messages,
		location: location,
		now:      time.Now,
		log:      log,
	}
}

// WeeklySelection returns up to ChartPoints newest readings per kind, oldest first.
func (service *ExportService) WeeklySelection(ctx context.Context, user models.User) (HealthReport, error) {
	pressure, err := service.pressure.ListRecentByUser(ctx, user.ID, ChartPoints)
	if err != nil {
		return HealthReport{}, service.storageError(user.ID, err)
	}
	sugar, err := service.sugar.ListRecentByUser(ctx, user.ID, ChartPoints)
	if err != nil {
		return HealthReport{}, service.storageError(user.ID, err)
	}
	slices.Reverse(pressure)
	slices.Reverse(sugar)
	return HealthReport{User: user, BloodPressure: pressure, BloodSugar: sugar}, nil
}

func (service *ExportService) WriteWeeklyPDF(ctx context.Context, output io.Writer, user models.User, language string) error {
	selection, err := service.WeeklySelection(ctx, user)
	if err != nil {
		return err
	}

	messages := service.messages.Localizer(service.documentLanguage(language))
	document := BuildReportDocument(selection, messages.T("report.weekly_title"), "", messages, service.location, service.now())
	if err := service.renderer.Render(output, document); err != nil {
		service.log.Error("weekly pdf render failed", "user_id", user.ID, "error", err)
		return apperrors.NewInternalError(err)
	}
	return nil
}

// documentLanguage falls back to English when the renderer only has Latin-1
// core fonts, since Thai labels would come out as question marks.
func (service *ExportService) documentLanguage(requested string) string {
	if capable, ok := service.renderer.(unicodeRenderer); ok && !capable.SupportsUnicode() {
		return i18n.LangEN
	}
	return requested
}

func (service *ExportService) storageError(userID uint, err error) error {
	appErr := apperrors.NewDependencyError(err, "database")
	service.log.Error("load readings for export failed", append([]any{"user_id", userID}, appErr.LogFields()...)...)
	return appErr
}
