package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jabuspark/backend/models"
)

func TestSetupCreateAdmin(t *testing.T) {
	app, db, cfg := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/setup/create-admin?key="+cfg.SetupKey, "", fiber.Map{
		"email":    "boss@example.com",
		"password": "Admin@12345",
		"fullName": "The Boss",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	env := decode(t, resp)
	assert.Equal(t, "Admin created", env.Data["message"])

	var admin models.User
	require.NoError(t, db.Where("email = ?", "boss@example.com").First(&admin).Error)
	assert.Equal(t, "admin", admin.Role)

	// Second call reports the existing admin.
	env = decode(t, doJSON(t, app, "POST", "/api/setup/create-admin?key="+cfg.SetupKey, "", fiber.Map{
		"email":    "boss@example.com",
		"password": "Admin@12345",
	}))
	assert.Equal(t, "Admin already exists", env.Data["message"])
}

func TestSetupPromotesExistingStudent(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, _ := seedUser(t, db, "student")

	env := decode(t, doJSON(t, app, "POST", "/api/setup/create-admin?key="+cfg.SetupKey, "", fiber.Map{
		"email":    user.Email,
		"password": "whatever8",
	}))
	assert.Equal(t, "User promoted to admin", env.Data["message"])

	var promoted models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&promoted).Error)
	assert.Equal(t, "admin", promoted.Role)
}

func TestSetupRejectsBadKey(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/setup/create-admin?key=wrong", "", fiber.Map{
		"email":    "x@example.com",
		"password": "Admin@12345",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSetupValidatesPasswordLength(t *testing.T) {
	app, _, cfg := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/setup/create-admin?key="+cfg.SetupKey, "", fiber.Map{
		"email":    "x@example.com",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
