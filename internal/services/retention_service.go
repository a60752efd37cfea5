package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/healthlog/internal/locker"
	"github.com/terraincognita07/healthlog/internal/models"
)

const (
	RetentionMonths  = 3
	retentionLockTTL = 5 * time.Minute
)

type RetentionUserStore interface {
	ListWithStaleRecords(ctx context.Context, cutoff time.Time) ([]models.User, error)
}

type StaleReadingStore[T Reading] interface {
	ListStaleByUser(ctx context.Context, userID uint, cutoff time.Time) ([]T, error)
	DeleteStaleByUser(ctx context.Context, userID uint, cutoff time.Time) (int64, error)
}

type RetentionNotifier interface {
	Send(ctx context.Context, healthReport HealthReport, reportType string) NotificationResult
	LogDelivery(ctx context.Context, userID uint, reportType string, result NotificationResult)
}

// CleanupResult summarises one retention run.
type CleanupResult struct {
	Success             bool      `json:"success"`
	Message             string    `json:"message"`
	Error               string    `json:"error,omitempty"`
	RunID               string    `json:"run_id"`
	Cutoff              time.Time `json:"cutoff"`
	UsersProcessed      int       `json:"users_processed"`
	UsersFailed         int       `json:"users_failed"`
	UsersSkipped        int       `json:"users_skipped"`
	PressureDeleted     int64     `json:"blood_pressure_deleted"`
	SugarDeleted        int64     `json:"blood_sugar_deleted"`
	NotificationsSent   int       `json:"notifications_sent"`
	NotificationsFailed int       `json:"notifications_failed"`
}

type userCleanup struct {
	skipped         bool
	notified        bool
	notifyFailed    bool
	pressureDeleted int64
	sugarDeleted    int64
}

// RetentionService deletes readings older than the retention horizon,
// emailing a final copy to the clinic first for consenting users.
type RetentionService struct {
	users    RetentionUserStore
	pressure StaleReadingStore[models.BloodPressureRecord]
	sugar    StaleReadingStore[models.BloodSugarRecord]
	notifier RetentionNotifier
	locks    locker.Locker
	now      func() time.Time
	log      *slog.Logger
}

func NewRetentionService(
	users RetentionUserStore,
	pressure StaleReadingStore[models.BloodPressureRecord],
	sugar StaleReadingStore[models.BloodSugarRecord],
	notifier RetentionNotifier,
	locks locker.Locker,
	log *slog.Logger,
) *RetentionService {
	if locks == nil {
		locks = locker.NewMemoryLocker()
	}
	if log == nil {
		log = slog.Default()
	}
	return &RetentionService{
		users:    users,
		pressure: pressure,
		sugar:    sugar,
		notifier: notifier,
		locks:    locks,
		now:      time.Now,
		log:      log,
	}
}

// RetentionCutoff subtracts calendar months, not a fixed number of days.
func RetentionCutoff(now time.Time) time.Time {
	return now.AddDate(0, -RetentionMonths, 0)
}

// Run is safe to repeat: a second run finds nothing older than the cutoff.
// Failures for one user are logged and do not stop the others.
func (service *RetentionService) Run(ctx context.Context) CleanupResult {
	result := CleanupResult{
		RunID:  uuid.NewString(),
		Cutoff: RetentionCutoff(service.now()).UTC(),
	}
	log := service.log.With("run_id", result.RunID)
	log.Info("data cleanup started", "cutoff", result.Cutoff)

	users, err := service.users.ListWithStaleRecords(ctx, result.Cutoff)
	if err != nil {
		log.Error("data cleanup failed", "error", err)
		result.Message = "data cleanup failed"
		result.Error = err.Error()
		return result
	}
	log.Info("users with stale records", "count", len(users))

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			log.Error("data cleanup interrupted", "error", err, "users_processed", result.UsersProcessed)
			result.Message = "data cleanup interrupted"
			result.Error = err.Error()
			return result
		}

		outcome, err := service.cleanupUser(ctx, user, result.Cutoff)
		if err != nil {
			result.UsersFailed++
			log.Error("user cleanup failed", "user_id", user.ID, "error", err)
			continue
		}
		if outcome.skipped {
			result.UsersSkipped++
			log.Warn("user cleanup skipped, lock held by another run", "user_id", user.ID)
			continue
		}

		result.UsersProcessed++
		result.PressureDeleted += outcome.pressureDeleted
		result.SugarDeleted += outcome.sugarDeleted
		if outcome.notified {
			result.NotificationsSent++
		}
		if outcome.notifyFailed {
			result.NotificationsFailed++
		}
		log.Info("user cleanup finished",
			"user_id", user.ID,
			"notified", outcome.notified,
			"blood_pressure_deleted", outcome.pressureDeleted,
			"blood_sugar_deleted", outcome.sugarDeleted,
		)
	}

	result.Success = true
	result.Message = "data cleanup completed"
	log.Info("data cleanup completed",
		"users_processed", result.UsersProcessed,
		"users_failed", result.UsersFailed,
		"users_skipped", result.UsersSkipped,
		"blood_pressure_deleted", result.PressureDeleted,
		"blood_sugar_deleted", result.SugarDeleted,
	)
	return result
}

// cleanupUser re-reads the stale set under the user's lock so that a
// concurrent run never notifies about readings it did not delete.
func (service *RetentionService) cleanupUser(ctx context.Context, user models.User, cutoff time.Time) (userCleanup, error) {
	unlock, ok, err := service.locks.TryLock(ctx, fmt.Sprintf("cleanup:user:%d", user.ID), retentionLockTTL)
	if err != nil {
		return userCleanup{}, fmt.Errorf("acquire cleanup lock: %w", err)
	}
	if !ok {
		return userCleanup{skipped: true}, nil
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			service.log.Warn("release cleanup lock failed", "user_id", user.ID, "error", err)
		}
	}()

	pressure, err := service.pressure.ListStaleByUser(ctx, user.ID, cutoff)
	if err != nil {
		return userCleanup{}, fmt.Errorf("load stale blood pressure: %w", err)
	}
	sugar, err := service.sugar.ListStaleByUser(ctx, user.ID, cutoff)
	if err != nil {
		return userCleanup{}, fmt.Errorf("load stale blood sugar: %w", err)
	}

	outcome := userCleanup{}
	if user.Consent && len(pressure)+len(sugar) > 0 {
		user.BloodPressureRecords = nil
		user.BloodSugarRecords = nil
		notification := service.notifier.Send(ctx, HealthReport{User: user, BloodPressure: pressure, BloodSugar: sugar}, models.EmailTypeBeforeDeletion)
		service.notifier.LogDelivery(ctx, user.ID, models.EmailTypeBeforeDeletion, notification)
		outcome.notified = notification.Success
		outcome.notifyFailed = !notification.Success
	}

	outcome.pressureDeleted, err = service.pressure.DeleteStaleByUser(ctx, user.ID, cutoff)
	if err != nil {
		return userCleanup{}, fmt.Errorf("delete stale blood pressure: %w", err)
	}
	outcome.sugarDeleted, err = service.sugar.DeleteStaleByUser(ctx, user.ID, cutoff)
	if err != nil {
		return userCleanup{}, fmt.Errorf("delete stale blood sugar: %w", err)
	}
	return outcome, nil
}
