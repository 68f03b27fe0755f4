package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type SaveController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewSaveController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *SaveController {
	return &SaveController{DB: db, Cfg: cfg, Log: log}
}

type toggleInput struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Toggle flips the saved state of one item: present means saved. The item
// id is not checked against its source table.
func (sc *SaveController) Toggle(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input toggleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid JSON body")
	}
	if input.Kind == "" {
		return utils.ValidationError(c, "Missing field: kind")
	}
	if input.ID == "" {
		return utils.ValidationError(c, "Missing field: id")
	}

	valid := false
	for _, kind := range models.SavedItemKinds {
		if input.Kind == kind {
			valid = true
			break
		}
	}
	if !valid {
		return utils.ValidationError(c, "Invalid kind")
	}

	var existing models.SavedItem
	err := sc.DB.
		Where("user_id = ? AND kind = ? AND item_id = ?", user.ID, input.Kind, input.ID).
		First(&existing).Error
	switch {
	case err == nil:
		if err := sc.DB.
			Where("user_id = ? AND kind = ? AND item_id = ?", user.ID, input.Kind, input.ID).
			Delete(&models.SavedItem{}).Error; err != nil {
			sc.Log.Error("save delete failed", "user", user.ID, "error", err)
			return utils.InternalServerError(c, "Failed to toggle save")
		}
		return utils.Success(c, fiber.StatusOK, fiber.Map{"saved": false})
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := models.SavedItem{
			UserID:    user.ID,
			Kind:      input.Kind,
			ItemID:    input.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := sc.DB.Create(&item).Error; err != nil {
			sc.Log.Error("save insert failed", "user", user.ID, "error", err)
			return utils.InternalServerError(c, "Failed to toggle save")
		}
		return utils.Success(c, fiber.StatusOK, fiber.Map{"saved": true})
	default:
		sc.Log.Error("save lookup failed", "user", user.ID, "error", err)
		return utils.InternalServerError(c, "Failed to toggle save")
	}
}
