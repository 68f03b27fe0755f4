package controllers

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewAuthController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Log: log}
}

type registerInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register creates the user with its profile and default progress in one
// transaction, then issues a session.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid JSON body")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return utils.ValidationError(c, "email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return utils.ValidationError(c, "Invalid email")
	}
	if len(input.Password) < 6 {
		return utils.ValidationError(c, "Password must be at least 6 characters")
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fullName = utils.FullNameFromEmail(email)
	}

	var existing models.User
	err := ac.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return utils.Conflict(c, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ac.Log.Error("register lookup failed", "error", err)
		return utils.InternalServerError(c, "Registration failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.Log.Error("password hash failed", "error", err)
		return utils.InternalServerError(c, "Registration failed")
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         "student",
		CreatedAt:    time.Now().UTC(),
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
			return err
		}
		progress := models.NewUserProgress(user.ID, todayUTC())
		return tx.Create(&progress).Error
	})
	if err != nil {
		ac.Log.Error("register failed", "error", err)
		return utils.InternalServerError(c, "Registration failed")
	}

	token, expiresAt, err := createSession(ac.DB, ac.Cfg, c, user.ID)
	if err != nil {
		ac.Log.Error("session create failed", "error", err)
		return utils.InternalServerError(c, "Registration failed")
	}

	payload, err := safeUser(ac.DB, &user)
	if err != nil {
		ac.Log.Error("user serialize failed", "error", err)
		return utils.InternalServerError(c, "Registration failed")
	}

	return utils.Created(c, fiber.Map{
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
		"user":      payload,
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid JSON body")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return utils.ValidationError(c, "email and password are required")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid email or password")
		}
		ac.Log.Error("login lookup failed", "error", err)
		return utils.InternalServerError(c, "Login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	token, expiresAt, err := createSession(ac.DB, ac.Cfg, c, user.ID)
	if err != nil {
		ac.Log.Error("session create failed", "error", err)
		return utils.InternalServerError(c, "Login failed")
	}

	payload, err := safeUser(ac.DB, &user)
	if err != nil {
		ac.Log.Error("user serialize failed", "error", err)
		return utils.InternalServerError(c, "Login failed")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
		"user":      payload,
	})
}

// Logout revokes the presented session. Revoking an unknown or absent
// token is still a success.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if token := middleware.BearerToken(c); token != "" {
		ac.DB.Where("token_hash = ?", utils.HashToken(token)).Delete(&models.Session{})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"loggedOut": true})
}
