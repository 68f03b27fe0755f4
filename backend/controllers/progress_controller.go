package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewProgressController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Log: log}
}

// GetProgress assembles the lifetime aggregate, the saved-item sets and
// the per-bank stats map. A user who has never practiced gets the same
// default shape registration creates, so this read never fails.
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var progress models.UserProgress
	err := pc.DB.Where("user_id = ?", user.ID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.NewUserProgress(user.ID, todayUTC())
	} else if err != nil {
		pc.Log.Error("progress lookup failed", "user", user.ID, "error", err)
		return utils.InternalServerError(c, "Failed to load progress")
	}

	saved := fiber.Map{}
	for _, kind := range models.SavedItemKinds {
		saved[kind] = []string{}
	}
	var savedRows []models.SavedItem
	if err := pc.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&savedRows).Error; err != nil {
		pc.Log.Error("saved items lookup failed", "user", user.ID, "error", err)
		return utils.InternalServerError(c, "Failed to load progress")
	}
	for _, row := range savedRows {
		if ids, ok := saved[row.Kind].([]string); ok {
			saved[row.Kind] = append(ids, row.ItemID)
		}
	}

	answers := fiber.Map{}
	var statRows []models.UserBankStats
	if err := pc.DB.Where("user_id = ?", user.ID).Find(&statRows).Error; err != nil {
		pc.Log.Error("bank stats lookup failed", "user", user.ID, "error", err)
		return utils.InternalServerError(c, "Failed to load progress")
	}
	for _, row := range statRows {
		answers[row.BankID] = fiber.Map{
			"answeredIds": row.AnsweredIDs,
			"correctIds":  row.CorrectIDs,
		}
	}

	snapshot := progressSnapshot(&progress)
	snapshot["saved"] = saved

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"progress": snapshot,
		"answers":  answers,
	})
}
