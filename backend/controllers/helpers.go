package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jabuspark/backend/config"
	"jabuspark/backend/models"
	"jabuspark/backend/utils"
)

func todayUTC() string {
	return time.Now().UTC().Format(models.DateLayout)
}

// createSession issues a fresh opaque token for the user and persists its
// hash. The raw token leaves the server exactly once, in the response.
func createSession(db *gorm.DB, cfg *config.Config, c *fiber.Ctx, userID string) (token string, expiresAt time.Time, err error) {
	token, err = utils.NewSessionToken()
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	expiresAt = now.Add(time.Duration(cfg.SessionTTLDays) * 24 * time.Hour)

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: utils.HashToken(token),
		CreatedAt: now,
		ExpiresAt: expiresAt,
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
	if err := db.Create(&session).Error; err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// safeUser is the client-facing user shape: identity plus profile with
// selected course ids, never credentials.
func safeUser(db *gorm.DB, user *models.User) (fiber.Map, error) {
	profile := fiber.Map{
		"facultyId":    nil,
		"departmentId": nil,
		"level":        nil,
		"courseIds":    []string{},
	}

	var p models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&p).Error; err == nil {
		profile["facultyId"] = p.FacultyID
		profile["departmentId"] = p.DepartmentID
		profile["level"] = p.Level
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var courseIDs []string
	if err := db.Model(&models.UserCourse{}).
		Where("user_id = ?", user.ID).
		Pluck("course_id", &courseIDs).Error; err != nil {
		return nil, err
	}
	if courseIDs == nil {
		courseIDs = []string{}
	}
	profile["courseIds"] = courseIDs

	return fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"fullName":  user.FullName,
		"role":      user.Role,
		"createdAt": user.CreatedAt.UTC().Format(time.RFC3339),
		"profile":   profile,
	}, nil
}

func progressSnapshot(p *models.UserProgress) fiber.Map {
	return fiber.Map{
		"streak":          p.Streak,
		"accuracy":        p.Accuracy,
		"totalAnswered":   p.TotalAnswered,
		"correctAnswered": p.CorrectAnswered,
		"studySeconds":    p.StudySeconds,
		"lastActive":      p.LastActive,
	}
}
