package api

import (
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalcheck/internal/db"
	"github.com/terraincognita07/vitalcheck/internal/events"
	"github.com/terraincognita07/vitalcheck/internal/i18n"
	"github.com/terraincognita07/vitalcheck/internal/models"
	"github.com/terraincognita07/vitalcheck/internal/security"
	"github.com/terraincognita07/vitalcheck/internal/services"
)

const testSecretKey = "vitalcheck-test-secret-key-0123456789abcdef"

type testEnv struct {
	app    *fiber.App
	repos  *db.Repositories
	tokens *security.TokenIssuer
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "vitalcheck-api-test.db")
	database, err := db.OpenSQLite(databasePath, nil)
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

	repos := db.NewRepositories(database)
	manager, err := i18n.NewManager("en")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	tokens, err := security.NewTokenIssuer(testSecretKey, time.Hour)
	if err != nil {
		t.Fatalf("init tokens: %v", err)
	}

	env := &testEnv{
		repos:  repos,
		tokens: tokens,
		now:    time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC),
	}
	publisher := events.NewLogPublisher(nil)
	medications := services.NewMedicationService(repos.Schedules, repos.Doses)
	handler, err := NewHandler(Dependencies{
		CheckIns:    services.NewCheckInService(repos.CheckIns, repos.Progress, repos.Doses, medications, publisher, nil),
		Medications: medications,
		Users:       repos.Users,
		Tokens:      tokens,
		I18n:        manager,
		Location:    time.UTC,
		Now:         func() time.Time { return env.now },
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	env.app = NewApp(handler, AppOptions{})
	return env
}

func (env *testEnv) createUser(t *testing.T, email string) (models.User, string) {
	t.Helper()

	user, _, err := env.repos.Users.FindOrCreateByEmail(email, env.now)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := env.tokens.Issue(user.ID, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

func (env *testEnv) do(t *testing.T, method string, path string, token string, body string, headers ...string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for index := 0; index+1 < len(headers); index += 2 {
		request.Header.Set(headers[index], headers[index+1])
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return response.StatusCode, string(raw)
}

func (env *testEnv) expect(t *testing.T, method string, path string, token string, body string, expectedStatus int, headers ...string) string {
	t.Helper()

	status, raw := env.do(t, method, path, token, body, headers...)
	if status != expectedStatus {
		t.Fatalf("%s %s expected status %d, got %d: %s", method, path, expectedStatus, status, raw)
	}
	return raw
}

func decodeJSON[T any](t *testing.T, raw string) T {
	t.Helper()

	var value T
	if err := sonic.UnmarshalString(raw, &value); err != nil {
		t.Fatalf("decode response %q: %v", raw, err)
	}
	return value
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

