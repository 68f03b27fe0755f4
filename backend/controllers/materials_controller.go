package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
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

const maxUploadBytes = 50 * 1024 * 1024

type MaterialsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewMaterialsController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *MaterialsController {
	return &MaterialsController{DB: db, Cfg: cfg, Log: log}
}

func publicURL(cfg *config.Config, pathFromAPIRoot string) string {
	base := strings.TrimRight(cfg.PublicBase, "/")
	if base == "" {
		return pathFromAPIRoot
	}
	return base + pathFromAPIRoot
}

// parseTags accepts a JSON array or a comma-separated form value.
func parseTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return decoded
	}
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// storeUpload writes the multipart file under uploadDir/subdir with a
// sanitized name plus a random suffix, returning the public-facing
// relative path.
func storeUpload(c *fiber.Ctx, file *multipart.FileHeader, uploadDir, subdir string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if ext == "" {
		ext = "pdf"
	}

	dir := filepath.Join(uploadDir, subdir)
	if err := os.MkdirAll(dir, 0o775); err != nil {
		return "", err
	}

	suffix, err := utils.RandomSuffix(10)
	if err != nil {
		return "", err
	}
	base := utils.SafeFilename(strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename)))
	final := fmt.Sprintf("%s_%s.%s", base, suffix, ext)

	if err := c.SaveFile(file, filepath.Join(dir, final)); err != nil {
		return "", err
	}
	return "/uploads/" + subdir + "/" + final, nil
}

func (mc *MaterialsController) ListMaterials(c *fiber.Ctx) error {
	q := mc.DB.Order("uploaded_at DESC")
	if courseID := c.Query("courseId"); courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}

	var materials []models.Material
	if err := q.Find(&materials).Error; err != nil {
		mc.Log.Error("materials lookup failed", "error", err)
		return utils.InternalServerError(c, "Failed to load materials")
	}

	rows := make([]fiber.Map, 0, len(materials))
	for _, m := range materials {
		rows = append(rows, fiber.Map{
			"id":         m.ID,
			"courseId":   m.CourseID,
			"title":      m.Title,
			"type":       m.Type,
			"fileUrl":    publicURL(mc.Cfg, m.FilePath),
			"uploadedAt": m.UploadedAt,
			"tags":       m.Tags,
		})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"materials": rows})
}

func (mc *MaterialsController) CreateMaterial(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	title := strings.TrimSpace(c.FormValue("title"))
	courseID := strings.TrimSpace(c.FormValue("courseId"))
	matType := strings.TrimSpace(c.FormValue("type"))
	if matType == "" {
		matType = "pdf"
	}
	if title == "" || courseID == "" {
		return utils.ValidationError(c, "title and courseId are required")
	}
	tags := parseTags(c.FormValue("tags"))

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

	relPath, err := storeUpload(c, file, mc.Cfg.UploadDir, "materials")
	if err != nil {
		mc.Log.Error("material save failed", "error", err)
		return utils.InternalServerError(c, "Failed to save file")
	}

	material := models.Material{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		Title:      title,
		Type:       matType,
		FilePath:   relPath,
		UploadedAt: todayUTC(),
		Tags:       models.StringList(tags),
		CreatedBy:  user.ID,
	}
	if err := mc.DB.Create(&material).Error; err != nil {
		mc.Log.Error("material create failed", "error", err)
		return utils.InternalServerError(c, "Failed to create material")
	}

	return utils.Created(c, fiber.Map{
		"material": fiber.Map{
			"id":         material.ID,
			"courseId":   material.CourseID,
			"title":      material.Title,
			"type":       material.Type,
			"fileUrl":    publicURL(mc.Cfg, material.FilePath),
			"uploadedAt": material.UploadedAt,
			"tags":       material.Tags,
		},
	})
}

func (mc *MaterialsController) DeleteMaterial(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return utils.ValidationError(c, "Missing id")
	}

	var material models.Material
	if err := mc.DB.Where("id = ?", id).First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Not found")
		}
		mc.Log.Error("material lookup failed", "material", id, "error", err)
		return utils.InternalServerError(c, "Failed to delete material")
	}

	if err := mc.DB.Where("id = ?", id).Delete(&models.Material{}).Error; err != nil {
		mc.Log.Error("material delete failed", "material", id, "error", err)
		return utils.InternalServerError(c, "Failed to delete material")
	}

	// The DB row is the source of truth; a missing file is not an error.
	if material.FilePath != "" {
		_ = os.Remove(filepath.Join(mc.Cfg.UploadDir, strings.TrimPrefix(material.FilePath, "/uploads/")))
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
