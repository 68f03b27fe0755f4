package controllers

import (
	"errors"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type PracticeController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewPracticeController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *PracticeController {
	return &PracticeController{DB: db, Cfg: cfg, Log: log}
}

type submitInput struct {
	BankID        string `json:"bankId"`
	QuestionID    string `json:"questionId"`
	SelectedIndex *int   `json:"selectedIndex"`
	SecondsSpent  int    `json:"secondsSpent"`
}

// lockForUpdate takes a pessimistic row lock so two concurrent
// submissions cannot both read the same counters and lose an increment.
// SQLite has no FOR UPDATE syntax; its single-writer transaction lock
// already serializes the read-then-write there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Submit scores one answer and folds it into the per-bank stats and the
// lifetime progress aggregate, all inside a single transaction.
func (pc *PracticeController) Submit(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input submitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid JSON body")
	}
	if input.BankID == "" {
		return utils.ValidationError(c, "Missing field: bankId")
	}
	if input.QuestionID == "" {
		return utils.ValidationError(c, "Missing field: questionId")
	}
	if input.SelectedIndex == nil {
		return utils.ValidationError(c, "Missing field: selectedIndex")
	}
	selectedIndex := *input.SelectedIndex

	var question models.Question
	err := pc.DB.Where("bank_id = ? AND id = ?", input.BankID, input.QuestionID).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Question not found")
		}
		pc.Log.Error("question lookup failed", "error", err)
		return utils.InternalServerError(c, "Failed to submit answer")
	}

	// An out-of-range index is simply a wrong answer, never an error.
	isCorrect := selectedIndex == question.AnswerIndex

	var stats models.UserBankStats
	var progress models.UserProgress

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		statsExists := true
		err := lockForUpdate(tx).
			Where("user_id = ? AND bank_id = ?", user.ID, input.BankID).
			First(&stats).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			statsExists = false
			stats = models.UserBankStats{
				UserID:      user.ID,
				BankID:      input.BankID,
				AnsweredIDs: models.StringList{},
				CorrectIDs:  models.StringList{},
			}
		} else if err != nil {
			return err
		}

		stats.AnsweredIDs.Add(input.QuestionID)
		if isCorrect {
			// First correct sticks; a later wrong answer never removes it.
			stats.CorrectIDs.Add(input.QuestionID)
		}

		if statsExists {
			if err := tx.Model(&models.UserBankStats{}).
				Where("user_id = ? AND bank_id = ?", user.ID, input.BankID).
				Updates(map[string]interface{}{
					"answered_ids": stats.AnsweredIDs,
					"correct_ids":  stats.CorrectIDs,
					"updated_at":   time.Now().UTC(),
				}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		}

		today := todayUTC()
		yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(models.DateLayout)

		err = lockForUpdate(tx).
			Where("user_id = ?", user.ID).
			First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.NewUserProgress(user.ID, today)
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if progress.LastActive != today {
			if progress.LastActive == yesterday {
				progress.Streak = max(1, progress.Streak+1)
			} else {
				progress.Streak = 1
			}
		}

		progress.TotalAnswered++
		if isCorrect {
			progress.CorrectAnswered++
		}
		progress.StudySeconds += max(0, input.SecondsSpent)
		progress.Accuracy = deriveAccuracy(progress.CorrectAnswered, progress.TotalAnswered)
		progress.LastActive = today

		return tx.Model(&models.UserProgress{}).
			Where("user_id = ?", user.ID).
			Updates(map[string]interface{}{
				"streak":           progress.Streak,
				"accuracy":         progress.Accuracy,
				"total_answered":   progress.TotalAnswered,
				"correct_answered": progress.CorrectAnswered,
				"study_seconds":    progress.StudySeconds,
				"last_active":      progress.LastActive,
			}).Error
	})
	if err != nil {
		pc.Log.Error("submit failed", "user", user.ID, "bank", input.BankID, "error", err)
		return utils.InternalServerError(c, "Failed to submit answer")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"result": fiber.Map{
			"bankId":        input.BankID,
			"questionId":    input.QuestionID,
			"selectedIndex": selectedIndex,
			"answerIndex":   question.AnswerIndex,
			"isCorrect":     isCorrect,
			"explanation":   question.Explanation,
		},
		"progress": progressSnapshot(&progress),
		"bankStats": fiber.Map{
			"answeredIds": stats.AnsweredIDs,
			"correctIds":  stats.CorrectIDs,
		},
	})
}

type resetInput struct {
	BankID string `json:"bankId"`
}

// Reset forgets the per-question history for one bank. Lifetime
// aggregates are untouched and resetting an absent row still succeeds.
func (pc *PracticeController) Reset(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input resetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid JSON body")
	}
	if input.BankID == "" {
		return utils.ValidationError(c, "Missing field: bankId")
	}

	if err := pc.DB.
		Where("user_id = ? AND bank_id = ?", user.ID, input.BankID).
		Delete(&models.UserBankStats{}).Error; err != nil {
		pc.Log.Error("reset failed", "user", user.ID, "bank", input.BankID, "error", err)
		return utils.InternalServerError(c, "Failed to reset bank")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"reset": true})
}

// deriveAccuracy is round-half-up of correct/total as an integer
// percentage; zero submissions means zero accuracy.
func deriveAccuracy(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
