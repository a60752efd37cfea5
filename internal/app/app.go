package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/terraincognita07/healthlog/internal/api"
	"github.com/terraincognita07/healthlog/internal/config"
	"github.com/terraincognita07/healthlog/internal/db"
	"github.com/terraincognita07/healthlog/internal/i18n"
	"github.com/terraincognita07/healthlog/internal/locker"
	"github.com/terraincognita07/healthlog/internal/mailer"
	"github.com/terraincognita07/healthlog/internal/report"
	"github.com/terraincognita07/healthlog/internal/security"
	"github.com/terraincognita07/healthlog/internal/services"
	"gorm.io/gorm"
)

// App holds the services shared by the HTTP server and the operator CLI.
type App struct {
	Config        *config.Config
	DB            *gorm.DB
	Repositories  *db.Repositories
	I18n          *i18n.Manager
	Tokens        *security.TokenManager
	Auth          *services.AuthService
	BloodPressure *services.BloodPressureService
	BloodSugar    *services.BloodSugarService
	Stats         *services.StatsService
	Export        *services.ExportService
	Notifications *services.NotificationService
	ClinicShare   *services.ClinicShareService
	Retention     *services.RetentionService
	Log           *slog.Logger

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	database, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return Assemble(ctx, cfg, database, log)
}

// Assemble wires services around an already open database.
func Assemble(ctx context.Context, cfg *config.Config, database *gorm.DB, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	application := &App{Config: cfg, DB: database, Log: log}
	if sqlDB, err := database.DB(); err == nil {
		application.closers = append(application.closers, sqlDB.Close)
	}

	manager, err := i18n.NewDefaultManager(cfg.DefaultLanguage)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("i18n init failed: %w", err), application.Close())
	}
	application.I18n = manager

	locks, err := application.buildLocker(ctx)
	if err != nil {
		return nil, errors.Join(err, application.Close())
	}

	repositories := db.NewRepositories(database)
	application.Repositories = repositories
	application.Tokens = security.NewTokenManager([]byte(cfg.SecretKey), security.DefaultTokenTTL)
	application.Auth = services.NewAuthService(repositories.Users, log)
	application.BloodPressure = services.NewBloodPressureService(repositories.BloodPressure, cfg.Location, log)
	application.BloodSugar = services.NewBloodSugarService(repositories.BloodSugar, cfg.Location, log)
	application.Stats = services.NewStatsService(repositories.BloodPressure, repositories.BloodSugar, cfg.Location, log)
	if cfg.PDFFontPath == "" && manager.DefaultLanguage() != i18n.LangEN {
		log.Warn("PDF_FONT_PATH is not set, weekly PDFs will be rendered in English", "default_language", manager.DefaultLanguage())
	}
	application.Export = services.NewExportService(
		repositories.BloodPressure,
		repositories.BloodSugar,
		report.NewWeeklyPDFRenderer(cfg.PDFFontPath),
		manager,
		cfg.Location,
		log,
	)
	application.Notifications = services.NewNotificationService(
		application.buildMailer(),
		repositories.EmailLogs,
		services.NotificationConfig{
			Recipient: cfg.ClinicEmail,
			Messages:  manager.Localizer(manager.DefaultLanguage()),
			Location:  cfg.Location,
		},
		log,
	)
	application.ClinicShare = services.NewClinicShareService(repositories.BloodPressure, repositories.BloodSugar, application.Notifications, log)
	application.Retention = services.NewRetentionService(
		repositories.Users,
		repositories.BloodPressure,
		repositories.BloodSugar,
		application.Notifications,
		locks,
		log,
	)
	return application, nil
}

func (application *App) HandlerDependencies() api.Dependencies {
	return api.Dependencies{
		Auth:          application.Auth,
		BloodPressure: application.BloodPressure,
		BloodSugar:    application.BloodSugar,
		Stats:         application.Stats,
		Export:        application.Export,
		ClinicShare:   application.ClinicShare,
		Retention:     application.Retention,
		Tokens:        application.Tokens,
		I18n:          application.I18n,
		Location:      application.Config.Location,
		CookieSecure:  application.Config.CookieSecure,
		CleanupToken:  application.Config.CleanupToken,
		Log:           application.Log,
	}
}

// Close releases resources in reverse order of acquisition.
func (application *App) Close() error {
	var errs []error
	for index := len(application.closers) - 1; index >= 0; index-- {
		if err := application.closers[index](); err != nil {
			errs = append(errs, err)
		}
	}
	application.closers = nil
	return errors.Join(errs...)
}

// buildMailer returns nil when SMTP is not configured so the notification
// service can report it.
func (application *App) buildMailer() mailer.Mailer {
	smtp := application.Config.SMTP
	if !smtp.Configured() {
		application.Log.Warn("smtp is not configured, clinic emails are disabled")
		return nil
	}
	sender, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     smtp.Host,
		Port:     smtp.Port,
		User:     smtp.User,
		Password: smtp.Password,
		From:     smtp.From,
	})
	if err != nil {
		application.Log.Warn("smtp mailer init failed", "error", err)
		return nil
	}
	return sender
}

func (application *App) buildLocker(ctx context.Context) (locker.Locker, error) {
	redisConfig := application.Config.Redis
	if !redisConfig.Enabled() {
		return locker.NewMemoryLocker(), nil
	}
	client, err := locker.DialRedis(ctx, redisConfig.Addr, redisConfig.Password, redisConfig.DB)
	if err != nil {
		return nil, err
	}
	application.closers = append(application.closers, client.Close)
	application.Log.Info("using redis for cleanup locks", "addr", redisConfig.Addr)
	return locker.NewRedisLocker(client), nil
}
