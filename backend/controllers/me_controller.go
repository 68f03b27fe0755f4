package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type MeController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewMeController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *MeController {
	return &MeController{DB: db, Cfg: cfg, Log: log}
}

func (mc *MeController) GetMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	payload, err := safeUser(mc.DB, user)
	if err != nil {
		mc.Log.Error("user serialize failed", "user", user.ID, "error", err)
		return utils.InternalServerError(c, "Failed to load user")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": payload})
}

type patchProfileInput struct {
	FacultyID    *string  `json:"facultyId"`
	DepartmentID *string  `json:"departmentId"`
	Level        *int     `json:"level"`
	CourseIDs    []string `json:"courseIds"`
}

// PatchProfile applies a partial update: omitted fields stay as they are,
// but a courseIds array replaces the whole selection.
func (mc *MeController) PatchProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input patchProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid JSON body")
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Profile{UserID: user.ID}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if input.FacultyID != nil {
			updates["faculty_id"] = *input.FacultyID
		}
		if input.DepartmentID != nil {
			updates["department_id"] = *input.DepartmentID
		}
		if input.Level != nil {
			updates["level"] = *input.Level
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Profile{}).
				Where("user_id = ?", user.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.CourseIDs != nil {
			if err := tx.Where("user_id = ?", user.ID).
				Delete(&models.UserCourse{}).Error; err != nil {
				return err
			}
			for _, courseID := range input.CourseIDs {
				if courseID == "" {
					continue
				}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&models.UserCourse{
						UserID:   user.ID,
						CourseID: courseID,
					}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		mc.Log.Error("profile update failed", "user", user.ID, "error", err)
		return utils.InternalServerError(c, "Profile update failed")
	}

	payload, err := safeUser(mc.DB, user)
	if err != nil {
		mc.Log.Error("user serialize failed", "user", user.ID, "error", err)
		return utils.InternalServerError(c, "Profile update failed")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": payload})
}
