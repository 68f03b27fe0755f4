package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

const userLocalsKey = "currentUser"

// BearerToken pulls the raw token out of an "Authorization: Bearer ..."
// header, or returns "".
func BearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" {
		return ""
	}
	if len(h) >= 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// ResolveSession maps a raw token to its owning user. Expired sessions
// are not deleted; they just stop resolving.
func ResolveSession(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.
		Joins("JOIN sessions ON sessions.user_id = users.id").
		Where("sessions.token_hash = ? AND sessions.expires_at > ?", utils.HashToken(token), time.Now().UTC()).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthMiddleware rejects requests without a resolvable session and stores
// the authenticated user in the request locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return utils.Unauthorized(c, "Unauthorized")
		}
		user, err := ResolveSession(db, token)
		if err != nil {
			return utils.Unauthorized(c, "Invalid or expired session")
		}
		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// AdminMiddleware runs after AuthMiddleware and additionally requires the
// admin role.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if user.Role != "admin" {
			return utils.Forbidden(c, "Admin only")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals(userLocalsKey).(*models.User); ok {
		return u
	}
	return nil
}
