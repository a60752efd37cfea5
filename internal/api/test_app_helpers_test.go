package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/healthlog/internal/db"
	"github.com/terraincognita07/healthlog/internal/i18n"
	"github.com/terraincognita07/healthlog/internal/locker"
	"github.com/terraincognita07/healthlog/internal/logger"
	"github.com/terraincognita07/healthlog/internal/mailer"
	"github.com/terraincognita07/healthlog/internal/report"
	"github.com/terraincognita07/healthlog/internal/security"
	"github.com/terraincognita07/healthlog/internal/services"
	"gorm.io/gorm"
)

const testCleanupToken = "cleanup-secret"

var testLocation = time.FixedZone("ICT", 7*60*60)

type recordingMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, message mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

type testEnv struct {
	app      *fiber.App
	database *gorm.DB
	repos    *db.Repositories
	mailer   *recordingMailer
}

func newTestApp(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "healthlog-api-test.db"), log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	manager, err := i18n.NewDefaultManager("th")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	repos := db.NewRepositories(database)
	sender := &recordingMailer{}
	notifications := services.NewNotificationService(sender, repos.EmailLogs, services.NotificationConfig{
		Recipient: "clinic@example.com",
		Messages:  manager.Localizer("th"),
		Location:  testLocation,
	}, log)

	handler, err := NewHandler(Dependencies{
		Auth:          services.NewAuthService(repos.Users, log),
		BloodPressure: services.NewBloodPressureService(repos.BloodPressure, testLocation, log),
		BloodSugar:    services.NewBloodSugarService(repos.BloodSugar, testLocation, log),
		Stats:         services.NewStatsService(repos.BloodPressure, repos.BloodSugar, testLocation, log),
		Export: services.NewExportService(
			repos.BloodPressure,
			repos.BloodSugar,
			report.NewWeeklyPDFRenderer(""),
			manager,
			testLocation,
			log,
		),
		ClinicShare: services.NewClinicShareService(repos.BloodPressure, repos.BloodSugar, notifications, log),
		Retention: services.NewRetentionService(
			repos.Users,
			repos.BloodPressure,
			repos.BloodSugar,
			notifications,
			locker.NewMemoryLocker(),
			log,
		),
		Tokens:       security.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour),
		I18n:         manager,
		Location:     testLocation,
		CleanupToken: testCleanupToken,
		Log:          log,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testEnv{app: app, database: database, repos: repos, mailer: sender}
}

type testRequest struct {
	method  string
	path    string
	body    any
	cookie  string
	headers map[string]string
}

func (env *testEnv) do(t *testing.T, request testRequest) *http.Response {
	t.Helper()

	var body io.Reader
	if request.body != nil {
		raw, ok := request.body.(string)
		if !ok {
			encoded, err := json.Marshal(request.body)
			if err != nil {
				t.Fatalf("encode request body: %v", err)
			}
			raw = string(encoded)
		}
		body = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(request.method, request.path, body)
	if request.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", "en")
	if request.cookie != "" {
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: request.cookie})
	}
	for key, value := range request.headers {
		req.Header.Set(key, value)
	}

	response, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.method, request.path, err)
	}
	return response
}

func (env *testEnv) register(t *testing.T, phone string, consent bool) string {
	t.Helper()

	response := env.do(t, testRequest{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body: map[string]any{
			"phone":      phone,
			"password":   "secret1",
			"first_name": "Somchai",
			"consent":    consent,
		},
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}
	cookie := responseCookieValue(response.Cookies(), authCookieName)
	if cookie == "" {
		t.Fatal("expected auth cookie after register")
	}
	return cookie
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func decodeJSONBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()

	payload := map[string]any{}
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", raw, err)
	}
	return payload
}

func expectAPIError(t *testing.T, response *http.Response, status int, code string) map[string]any {
	t.Helper()

	if response.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, response.StatusCode)
	}
	payload := decodeJSONBody(t, response)
	if payload["code"] != code {
		t.Fatalf("expected error code %q, got %v (%v)", code, payload["code"], payload["error"])
	}
	return payload
}
