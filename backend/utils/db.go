package utils

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/models"
)

// InitDB connects to MySQL using the configured credentials.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Profile{},
		&models.UserCourse{},
		&models.Faculty{},
		&models.Department{},
		&models.Course{},
		&models.CourseDepartment{},
		&models.Bank{},
		&models.Question{},
		&models.UserProgress{},
		&models.UserBankStats{},
		&models.SavedItem{},
		&models.Material{},
		&models.PastQuestion{},
	)
}
