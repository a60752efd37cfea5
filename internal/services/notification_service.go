package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/i18n"
	"github.com/terraincognita07/healthlog/internal/mailer"
	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/report"
)

var (
	ErrConsentRequired     = apperrors.NewValidationError("consent", "consent_required", "consent to share data with the clinic is required")
	ErrMailerNotConfigured = apperrors.New(apperrors.ErrorTypeDependency, "mailer_not_configured", "mailer is not configured")
	ErrEmailSendFailed     = apperrors.New(apperrors.ErrorTypeDependency, "email_send_failed", "email delivery failed")
)

// NotificationResult is the outcome of one delivery attempt.
type NotificationResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type EmailLogStore interface {
	Create(ctx context.Context, entry *models.EmailLog) error
}

type NotificationConfig struct {
	Recipient string
	Messages  i18n.Localizer
	Location  *time.Location
}

// NotificationService emails health reports to the clinic. A nil mailer
// means SMTP is not configured.
type NotificationService struct {
	mailer    mailer.Mailer
	logs      EmailLogStore
	recipient string
	messages  i18n.Localizer
	location  *time.Location
	now       func() time.Time
	log       *slog.Logger
}

func NewNotificationService(sender mailer.Mailer, logs EmailLogStore, cfg NotificationConfig, log *slog.Logger) *NotificationService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &NotificationService{
		mailer:    sender,
		logs:      logs,
		recipient: cfg.Recipient,
		messages:  cfg.Messages,
		location:  cfg.Location,
		now:       time.Now,
		log:       log,
	}
}

func (service *NotificationService) Configured() bool {
	return service.mailer != nil && service.recipient != ""
}

func (service *NotificationService) Recipient() string {
	return service.recipient
}

// Send renders and delivers one report. It never returns an error: failures
// are described by the result so callers decide whether they are fatal.
func (service *NotificationService) Send(ctx context.Context, healthReport HealthReport, reportType string) NotificationResult {
	if !service.Configured() {
		return NotificationResult{Error: ErrMailerNotConfigured.Message}
	}

	subject := service.messages.Tf("report.subject."+reportType, reportSubjectName(healthReport.User))
	document := BuildReportDocument(
		healthReport,
		subject,
		service.messages.T("report.intro."+reportType),
		service.messages,
		service.location,
		service.now(),
	)
	body, err := report.RenderHTML(document)
	if err != nil {
		service.log.Error("render clinic report failed", "user_id", healthReport.User.ID, "type", reportType, "error", err)
		return NotificationResult{Error: err.Error()}
	}

	if err := service.mailer.Send(ctx, mailer.Message{To: service.recipient, Subject: subject, HTMLBody: body}); err != nil {
		service.log.Error("clinic email failed", "user_id", healthReport.User.ID, "type", reportType, "error", err)
		return NotificationResult{Error: err.Error()}
	}

	service.log.Info("clinic email sent",
		"user_id", healthReport.User.ID,
		"type", reportType,
		"records", healthReport.RecordCount(),
	)
	return NotificationResult{Success: true}
}

// LogDelivery appends an audit row. A failed write is logged and dropped.
func (service *NotificationService) LogDelivery(ctx context.Context, userID uint, reportType string, result NotificationResult) {
	status := models.EmailStatusSent
	if !result.Success {
		status = models.EmailStatusFailed
	}
	entry := models.EmailLog{
		UserID:    userID,
		Type:      reportType,
		Status:    status,
		Recipient: service.recipient,
		SentAt:    service.now().UTC(),
	}
	if err := service.logs.Create(ctx, &entry); err != nil {
		service.log.Warn("email log write failed", "user_id", userID, "type", reportType, "error", err)
	}
}

func reportSubjectName(user models.User) string {
	if name := user.FullName(); name != "" {
		return name
	}
	return user.Phone
}
