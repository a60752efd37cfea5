package services

import (
	"context"
	"log/slog"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/models"
)

type ReadingLister[T Reading] interface {
	ListByUser(ctx context.Context, userID uint) ([]T, error)
}

type ClinicNotifier interface {
	Configured() bool
	Send(ctx context.Context, healthReport HealthReport, reportType string) NotificationResult
	LogDelivery(ctx context.Context, userID uint, reportType string, result NotificationResult)
}

// ClinicShareService sends every reading of a consenting user to the clinic.
type ClinicShareService struct {
	pressure ReadingLister[models.BloodPressureRecord]
	sugar    ReadingLister[models.BloodSugarRecord]
	notifier ClinicNotifier
	log      *slog.Logger
}

func NewClinicShareService(
	pressure ReadingLister[models.BloodPressureRecord],
	sugar ReadingLister[models.BloodSugarRecord],
	notifier ClinicNotifier,
	log *slog.Logger,
) *ClinicShareService {
	if log == nil {
		log = slog.Default()
	}
	return &ClinicShareService{pressure: pressure, sugar: sugar, notifier: notifier, log: log}
}

func (service *ClinicShareService) SendFullData(ctx context.Context, user models.User) (NotificationResult, error) {
	if !user.Consent {
		return NotificationResult{}, ErrConsentRequired
	}
	if !service.notifier.Configured() {
		return NotificationResult{}, ErrMailerNotConfigured
	}

	pressure, err := service.pressure.ListByUser(ctx, user.ID)
	if err != nil {
		return NotificationResult{}, service.storageError(user.ID, err)
	}
	sugar, err := service.sugar.ListByUser(ctx, user.ID)
	if err != nil {
		return NotificationResult{}, service.storageError(user.ID, err)
	}

	result := service.notifier.Send(ctx, HealthReport{User: user, BloodPressure: pressure, BloodSugar: sugar}, models.EmailTypeFullData)
	service.notifier.LogDelivery(ctx, user.ID, models.EmailTypeFullData, result)
	if !result.Success {
		return result, &apperrors.AppError{
			Type:    ErrEmailSendFailed.Type,
			Code:    ErrEmailSendFailed.Code,
			Message: result.Error,
		}
	}
	return result, nil
}

func (service *ClinicShareService) storageError(userID uint, err error) error {
	appErr := apperrors.NewDependencyError(err, "database")
	service.log.Error("load readings for clinic failed", append([]any{"user_id", userID}, appErr.LogFields()...)...)
	return appErr
}
