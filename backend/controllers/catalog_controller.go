package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

type CatalogController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewCatalogController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *CatalogController {
	return &CatalogController{DB: db, Cfg: cfg, Log: log}
}

func (cc *CatalogController) GetFaculties(c *fiber.Ctx) error {
	var faculties []models.Faculty
	if err := cc.DB.Order("name").Find(&faculties).Error; err != nil {
		cc.Log.Error("faculties lookup failed", "error", err)
		return utils.InternalServerError(c, "Failed to load faculties")
	}

	rows := make([]fiber.Map, 0, len(faculties))
	for _, f := range faculties {
		rows = append(rows, fiber.Map{"id": f.ID, "name": f.Name})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"faculties": rows})
}

func (cc *CatalogController) GetDepartments(c *fiber.Ctx) error {
	q := cc.DB.Order("name")
	if facultyID := c.Query("facultyId"); facultyID != "" {
		q = q.Where("faculty_id = ?", facultyID)
	}

	var departments []models.Department
	if err := q.Find(&departments).Error; err != nil {
		cc.Log.Error("departments lookup failed", "error", err)
		return utils.InternalServerError(c, "Failed to load departments")
	}

	rows := make([]fiber.Map, 0, len(departments))
	for _, d := range departments {
		rows = append(rows, fiber.Map{"id": d.ID, "facultyId": d.FacultyID, "name": d.Name})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"departments": rows})
}

func (cc *CatalogController) GetCourses(c *fiber.Ctx) error {
	q := cc.DB.Model(&models.Course{})
	if departmentID := c.Query("departmentId"); departmentID != "" {
		q = q.Joins("JOIN course_departments ON course_departments.course_id = courses.id").
			Where("course_departments.department_id = ?", departmentID)
	}
	if level, err := strconv.Atoi(c.Query("level")); err == nil && level > 0 {
		q = q.Where("courses.level = ?", level)
	}

	var courses []models.Course
	if err := q.Order("courses.level, courses.code").Find(&courses).Error; err != nil {
		cc.Log.Error("courses lookup failed", "error", err)
		return utils.InternalServerError(c, "Failed to load courses")
	}

	rows := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, fiber.Map{
			"id":    course.ID,
			"code":  course.Code,
			"title": course.Title,
			"level": course.Level,
		})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"courses": rows})
}
