package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type BanksController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewBanksController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *BanksController {
	return &BanksController{DB: db, Cfg: cfg, Log: log}
}

func (bc *BanksController) ListBanks(c *fiber.Ctx) error {
	q := bc.DB.Order("created_at DESC")
	if courseID := c.Query("courseId"); courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}

	var banks []models.Bank
	if err := q.Find(&banks).Error; err != nil {
		bc.Log.Error("banks lookup failed", "error", err)
		return utils.InternalServerError(c, "Failed to load banks")
	}

	rows := make([]fiber.Map, 0, len(banks))
	for _, bank := range banks {
		var questionCount int64
		if err := bc.DB.Model(&models.Question{}).
			Where("bank_id = ?", bank.ID).
			Count(&questionCount).Error; err != nil {
			bc.Log.Error("question count failed", "bank", bank.ID, "error", err)
			return utils.InternalServerError(c, "Failed to load banks")
		}
		rows = append(rows, fiber.Map{
			"id":            bank.ID,
			"courseId":      bank.CourseID,
			"title":         bank.Title,
			"mode":          bank.Mode,
			"questionCount": questionCount,
		})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"banks": rows})
}

func (bc *BanksController) GetBank(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" || id == "get" { // legacy /banks/get?id= form
		id = c.Query("id")
	}
	if id == "" {
		return utils.ValidationError(c, "Missing id")
	}

	var bank models.Bank
	if err := bc.DB.Where("id = ?", id).First(&bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Not found")
		}
		bc.Log.Error("bank lookup failed", "bank", id, "error", err)
		return utils.InternalServerError(c, "Failed to load bank")
	}

	var questions []models.Question
	if err := bc.DB.
		Where("bank_id = ?", id).
		Order("sort_order ASC, id ASC").
		Find(&questions).Error; err != nil {
		bc.Log.Error("questions lookup failed", "bank", id, "error", err)
		return utils.InternalServerError(c, "Failed to load bank")
	}

	rows := make([]fiber.Map, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, fiber.Map{
			"id":          q.ID,
			"question":    q.Prompt,
			"options":     q.Options,
			"answerIndex": q.AnswerIndex,
			"explanation": q.Explanation,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"bank": fiber.Map{
			"id":        bank.ID,
			"courseId":  bank.CourseID,
			"title":     bank.Title,
			"mode":      bank.Mode,
			"questions": rows,
		},
	})
}

type bankQuestionInput struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Prompt      string   `json:"prompt"` // legacy key
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Explanation string   `json:"explanation"`
}

type createBankInput struct {
	CourseID  string              `json:"courseId"`
	Title     string              `json:"title"`
	Mode      string              `json:"mode"`
	Questions []bankQuestionInput `json:"questions"`
}

// CreateBank validates every question up front; the bank and its
// questions land in one transaction.
func (bc *BanksController) CreateBank(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input createBankInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid JSON body")
	}

	courseID := strings.TrimSpace(input.CourseID)
	title := strings.TrimSpace(input.Title)
	mode := strings.TrimSpace(input.Mode)
	if courseID == "" || title == "" || mode == "" {
		return utils.ValidationError(c, "Invalid payload")
	}
	if len(input.Questions) < 1 {
		return utils.ValidationError(c, "questions must be a non-empty array")
	}

	bank := models.Bank{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Title:     title,
		Mode:      mode,
		CreatedBy: user.ID,
		CreatedAt: time.Now().UTC(),
	}

	questions := make([]models.Question, 0, len(input.Questions))
	for i, q := range input.Questions {
		prompt := strings.TrimSpace(q.Question)
		if prompt == "" {
			prompt = strings.TrimSpace(q.Prompt)
		}
		if prompt == "" || len(q.Options) < 2 {
			return utils.ValidationError(c, fmt.Sprintf("Invalid question at index %d", i))
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			return utils.ValidationError(c, fmt.Sprintf("answerIndex out of range at index %d", i))
		}

		id := q.ID
		if id == "" {
			id = uuid.NewString()
		}
		questions = append(questions, models.Question{
			ID:          id,
			BankID:      bank.ID,
			Prompt:      prompt,
			Options:     models.StringList(q.Options),
			AnswerIndex: q.AnswerIndex,
			Explanation: q.Explanation,
			SortOrder:   i + 1,
		})
	}

	err := bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bank).Error; err != nil {
			return err
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		bc.Log.Error("bank create failed", "error", err)
		return utils.InternalServerError(c, "Failed to create bank")
	}

	return utils.Created(c, fiber.Map{"bankId": bank.ID})
}

func (bc *BanksController) DeleteBank(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return utils.ValidationError(c, "Missing id")
	}

	var bank models.Bank
	if err := bc.DB.Where("id = ?", id).First(&bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Not found")
		}
		bc.Log.Error("bank lookup failed", "bank", id, "error", err)
		return utils.InternalServerError(c, "Failed to delete bank")
	}

	err := bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bank_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Bank{}).Error
	})
	if err != nil {
		bc.Log.Error("bank delete failed", "bank", id, "error", err)
		return utils.InternalServerError(c, "Failed to delete bank")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
