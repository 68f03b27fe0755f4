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
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type SetupController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewSetupController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *SetupController {
	return &SetupController{DB: db, Cfg: cfg, Log: log}
}

type setupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// CreateAdmin bootstraps (or promotes) the admin account. Guarded by the
// deployment setup key, not by a session.
func (sc *SetupController) CreateAdmin(c *fiber.Ctx) error {
	if c.Query("key") != sc.Cfg.SetupKey {
		return utils.Forbidden(c, "Invalid setup key")
	}

	input := setupInput{
		Email:    "admin@jabuspark.com",
		Password: "Admin@12345",
		FullName: "JabuSpark Admin",
	}
	if c.Method() == fiber.MethodPost {
		var body setupInput
		if err := c.BodyParser(&body); err != nil {
			return utils.BadRequest(c, "Invalid JSON body")
		}
		if body.Email != "" {
			input.Email = body.Email
		}
		if body.Password != "" {
			input.Password = body.Password
		}
		if body.FullName != "" {
			input.FullName = body.FullName
		}
	}
	if v := c.Query("email"); v != "" {
		input.Email = v
	}
	if v := c.Query("password"); v != "" {
		input.Password = v
	}
	if v := c.Query("fullName"); v != "" {
		input.FullName = v
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return utils.ValidationError(c, "Invalid email")
	}
	if len(input.Password) < 8 {
		return utils.ValidationError(c, "Password must be at least 8 characters")
	}

	var existing models.User
	err := sc.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role == "admin" {
			return utils.Success(c, fiber.StatusOK, fiber.Map{
				"message": "Admin already exists",
				"email":   email,
			})
		}
		if err := sc.DB.Model(&models.User{}).
			Where("id = ?", existing.ID).
			Update("role", "admin").Error; err != nil {
			sc.Log.Error("admin promote failed", "error", err)
			return utils.InternalServerError(c, "Setup failed")
		}
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"message": "User promoted to admin",
			"email":   email,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		sc.Log.Error("setup lookup failed", "error", err)
		return utils.InternalServerError(c, "Setup failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		sc.Log.Error("password hash failed", "error", err)
		return utils.InternalServerError(c, "Setup failed")
	}

	admin := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Profile{UserID: admin.ID}).Error; err != nil {
			return err
		}
		progress := models.NewUserProgress(admin.ID, todayUTC())
		return tx.Create(&progress).Error
	})
	if err != nil {
		sc.Log.Error("admin create failed", "error", err)
		return utils.InternalServerError(c, "Setup failed")
	}

	return utils.Created(c, fiber.Map{
		"message":  "Admin created",
		"email":    email,
		"password": input.Password,
		"note":     "Change the password after first login.",
	})
}
