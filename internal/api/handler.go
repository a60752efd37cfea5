package api

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/terraincognita07/healthlog/internal/i18n"
	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/security"
	"github.com/terraincognita07/healthlog/internal/services"
)

const (
	loginFailureLimit  = 8
	loginFailureWindow = 15 * time.Minute
)

// Dependencies are the services the HTTP layer delegates to.
type Dependencies struct {
	Auth          *services.AuthService
	BloodPressure *services.BloodPressureService
	BloodSugar    *services.BloodSugarService
	Stats         *services.StatsService
	Export        *services.ExportService
	ClinicShare   *services.ClinicShareService
	Retention     *services.RetentionService
	Tokens        *security.TokenManager
	I18n          *i18n.Manager
	Location      *time.Location
	CookieSecure  bool
	CleanupToken  string
	Log           *slog.Logger
}

type Handler struct {
	auth         *services.AuthService
	stats        *services.StatsService
	export       *services.ExportService
	clinicShare  *services.ClinicShareService
	retention    *services.RetentionService
	tokens       *security.TokenManager
	i18n         *i18n.Manager
	location     *time.Location
	cookieSecure bool
	cleanupToken string
	log          *slog.Logger
	schemas      payloadSchemas
	loginLimiter *attemptLimiter

	pressure readingEndpoint[models.BloodPressureRecord, services.PressureInput]
	sugar    readingEndpoint[models.BloodSugarRecord, services.SugarInput]
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Auth == nil || deps.Tokens == nil || deps.I18n == nil {
		return nil, errors.New("auth service, token manager and i18n manager are required")
	}
	if deps.BloodPressure == nil || deps.BloodSugar == nil {
		return nil, errors.New("reading services are required")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}

	schemas, err := loadPayloadSchemas()
	if err != nil {
		return nil, fmt.Errorf("load payload schemas: %w", err)
	}

	handler := &Handler{
		auth:         deps.Auth,
		stats:        deps.Stats,
		export:       deps.Export,
		clinicShare:  deps.ClinicShare,
		retention:    deps.Retention,
		tokens:       deps.Tokens,
		i18n:         deps.I18n,
		location:     deps.Location,
		cookieSecure: deps.CookieSecure,
		cleanupToken: deps.CleanupToken,
		log:          deps.Log,
		schemas:      schemas,
		loginLimiter: newAttemptLimiter(loginFailureLimit, loginFailureWindow),
	}
	handler.pressure = readingEndpoint[models.BloodPressureRecord, services.PressureInput]{
		handler: handler,
		service: deps.BloodPressure,
		schema:  schemaBloodPressure,
		decode:  decodePressureRequest,
		present: presentPressure,
	}
	handler.sugar = readingEndpoint[models.BloodSugarRecord, services.SugarInput]{
		handler: handler,
		service: deps.BloodSugar,
		schema:  schemaBloodSugar,
		decode:  decodeSugarRequest,
		present: presentSugar,
	}
	return handler, nil
}
