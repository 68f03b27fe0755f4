package controllers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type PastQuestionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewPastQuestionsController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *PastQuestionsController {
	return &PastQuestionsController{DB: db, Cfg: cfg, Log: log}
}

func (pc *PastQuestionsController) ListPastQuestions(c *fiber.Ctx) error {
	q := pc.DB.Order("uploaded_at DESC")
	if courseID := c.Query("courseId"); courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}

	var pastQuestions []models.PastQuestion
	if err := q.Find(&pastQuestions).Error; err != nil {
		pc.Log.Error("past questions lookup failed", "error", err)
		return utils.InternalServerError(c, "Failed to load past questions")
	}

	rows := make([]fiber.Map, 0, len(pastQuestions))
	for _, pq := range pastQuestions {
		rows = append(rows, fiber.Map{
			"id":         pq.ID,
			"courseId":   pq.CourseID,
			"session":    pq.Session,
			"semester":   pq.Semester,
			"title":      pq.Title,
			"fileUrl":    publicURL(pc.Cfg, pq.FilePath),
			"uploadedAt": pq.UploadedAt,
		})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"pastQuestions": rows})
}

func (pc *PastQuestionsController) CreatePastQuestion(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	title := strings.TrimSpace(c.FormValue("title"))
	courseID := strings.TrimSpace(c.FormValue("courseId"))
	session := strings.TrimSpace(c.FormValue("session"))
	semester := strings.TrimSpace(c.FormValue("semester"))
	if title == "" || courseID == "" {
		return utils.ValidationError(c, "title and courseId are required")
	}
	if session == "" {
		session = "Unknown"
	}
	if semester == "" {
		semester = "Unknown"
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ValidationError(c, "file is required (multipart form-data field: file)")
	}
	if file.Size <= 0 {
		return utils.ValidationError(c, "Empty file")
	}
	if file.Size > maxUploadBytes {
		return utils.Fail(c, fiber.StatusRequestEntityTooLarge, "File too large (max 50MB)")
	}

	relPath, err := storeUpload(c, file, pc.Cfg.UploadDir, "pastquestions")
	if err != nil {
		pc.Log.Error("past question save failed", "error", err)
		return utils.InternalServerError(c, "Failed to save file")
	}

	pastQuestion := models.PastQuestion{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		Session:    session,
		Semester:   semester,
		Title:      title,
		FilePath:   relPath,
		UploadedAt: todayUTC(),
		CreatedBy:  user.ID,
	}
	if err := pc.DB.Create(&pastQuestion).Error; err != nil {
		pc.Log.Error("past question create failed", "error", err)
		return utils.InternalServerError(c, "Failed to create past question")
	}

	return utils.Created(c, fiber.Map{
		"pastQuestion": fiber.Map{
			"id":         pastQuestion.ID,
			"courseId":   pastQuestion.CourseID,
			"session":    pastQuestion.Session,
			"semester":   pastQuestion.Semester,
			"title":      pastQuestion.Title,
			"fileUrl":    publicURL(pc.Cfg, pastQuestion.FilePath),
			"uploadedAt": pastQuestion.UploadedAt,
		},
	})
}

func (pc *PastQuestionsController) DeletePastQuestion(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return utils.ValidationError(c, "Missing id")
	}

	var pastQuestion models.PastQuestion
	if err := pc.DB.Where("id = ?", id).First(&pastQuestion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Not found")
		}
		pc.Log.Error("past question lookup failed", "id", id, "error", err)
		return utils.InternalServerError(c, "Failed to delete past question")
	}

	if err := pc.DB.Where("id = ?", id).Delete(&models.PastQuestion{}).Error; err != nil {
		pc.Log.Error("past question delete failed", "id", id, "error", err)
		return utils.InternalServerError(c, "Failed to delete past question")
	}

	if pastQuestion.FilePath != "" {
		_ = os.Remove(filepath.Join(pc.Cfg.UploadDir, strings.TrimPrefix(pastQuestion.FilePath, "/uploads/")))
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
