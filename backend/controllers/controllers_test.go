package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/models"
	"jabuspark/backend/routes"
	"jabuspark/backend/utils"
)

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	// A named shared-cache DB so every pooled connection sees the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{
		ServerPort:     "8080",
		CORSOrigins:    "http://localhost:5173",
		SessionTTLDays: 30,
		SetupKey:       "test-setup-key",
		UploadDir:      t.TempDir(),
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, utils.NewNopLogger())
	return app, db, cfg
}

// seedUser inserts a user with an already-issued session and returns the
// raw bearer token.
func seedUser(t *testing.T, db *gorm.DB, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:           uuid.NewString(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		PasswordHash: string(hash),
		FullName:     "TEST USER",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID}).Error)

	token, err := utils.NewSessionToken()
	require.NoError(t, err)
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: utils.HashToken(token),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&session).Error)

	return user, token
}

func seedBank(t *testing.T, db *gorm.DB, questions ...models.Question) models.Bank {
	t.Helper()

	bank := models.Bank{
		ID:        uuid.NewString(),
		CourseID:  "csc101",
		Title:     "CSC 101 Drills",
		Mode:      "practice",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&bank).Error)
	for i := range questions {
		questions[i].BankID = bank.ID
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].SortOrder = i + 1
		require.NoError(t, db.Create(&questions[i]).Error)
	}
	return bank
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func yesterdayUTC() string {
	return daysAgoUTC(1)
}

func daysAgoUTC(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format(models.DateLayout)
}

func todayUTC() string {
	return time.Now().UTC().Format(models.DateLayout)
}
