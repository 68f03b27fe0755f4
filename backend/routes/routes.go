package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/controllers"
	"jabuspark/backend/middleware"
	"jabuspark/backend/utils"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, log *utils.Logger) {
	api := app.Group("/api")

	authRequired := middleware.AuthMiddleware(db)
	adminRequired := middleware.AdminMiddleware()

	// Auth
	authController := controllers.NewAuthController(db, cfg, log)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)
	api.Post("/auth/logout", authController.Logout)

	// Health
	api.Get("/health", controllers.Health)

	// Me
	meController := controllers.NewMeController(db, cfg, log)
	api.Get("/me", authRequired, meController.GetMe)
	api.Patch("/me/profile", authRequired, meController.PatchProfile)

	// Catalog (public reads)
	catalogController := controllers.NewCatalogController(db, cfg, log)
	api.Get("/catalog/faculties", catalogController.GetFaculties)
	api.Get("/catalog/departments", catalogController.GetDepartments)
	api.Get("/catalog/courses", catalogController.GetCourses)

	// Materials
	materialsController := controllers.NewMaterialsController(db, cfg, log)
	api.Get("/materials", materialsController.ListMaterials)
	api.Post("/materials", authRequired, adminRequired, materialsController.CreateMaterial)
	api.Delete("/materials", authRequired, adminRequired, materialsController.DeleteMaterial)

	// Past questions
	pastQuestionsController := controllers.NewPastQuestionsController(db, cfg, log)
	api.Get("/pastquestions", pastQuestionsController.ListPastQuestions)
	api.Post("/pastquestions", authRequired, adminRequired, pastQuestionsController.CreatePastQuestion)
	api.Delete("/pastquestions", authRequired, adminRequired, pastQuestionsController.DeletePastQuestion)

	// Banks
	banksController := controllers.NewBanksController(db, cfg, log)
	api.Get("/banks", banksController.ListBanks)
	api.Get("/banks/:id", banksController.GetBank)
	api.Post("/banks", authRequired, adminRequired, banksController.CreateBank)
	api.Delete("/banks", authRequired, adminRequired, banksController.DeleteBank)

	// Practice
	practiceController := controllers.NewPracticeController(db, cfg, log)
	api.Post("/practice/submit", authRequired, practiceController.Submit)
	api.Post("/practice/reset", authRequired, practiceController.Reset)

	// Progress
	progressController := controllers.NewProgressController(db, cfg, log)
	api.Get("/progress", authRequired, progressController.GetProgress)

	// Saved items
	saveController := controllers.NewSaveController(db, cfg, log)
	api.Post("/save/toggle", authRequired, saveController.Toggle)

	// Setup
	setupController := controllers.NewSetupController(db, cfg, log)
	api.Get("/setup/create-admin", setupController.CreateAdmin)
	api.Post("/setup/create-admin", setupController.CreateAdmin)
}
