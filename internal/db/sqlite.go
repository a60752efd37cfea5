package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/terraincognita07/healthlog/internal/config"
	"github.com/terraincognita07/healthlog/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured driver and brings the schema up to date.
func Open(cfg config.DBConfig, log *slog.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenPostgres(cfg.URL, log)
	case "", "sqlite":
		return OpenSQLite(cfg.Path, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func OpenSQLite(dbPath string, log *slog.Logger) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applySchemaMigrations(database, defaultMigrations()); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}
	return database, nil
}

// OpenPostgres relies on AutoMigrate since the embedded migrations use SQLite syntax.
func OpenPostgres(dsn string, log *slog.Logger) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.BloodPressureRecord{},
		&models.BloodSugarRecord{},
		&models.EmailLog{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate postgres: %w", err)
	}
	return database, nil
}

func gormConfig(log *slog.Logger) *gorm.Config {
	if log == nil {
		log = slog.Default()
	}
	return &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(log.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}
