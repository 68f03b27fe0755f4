package models

import "time"

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FullName     string `gorm:"size:255"`
	Role         string `gorm:"size:16;default:student"` // student, admin
	CreatedAt    time.Time
}

// Session is an opaque bearer token, persisted only as its SHA-256 hash.
// Expiry is fixed at issuance; expired rows stay around and simply stop
// resolving.
type Session struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;index;not null"`
	TokenHash string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
}

type Profile struct {
	UserID       string  `gorm:"primaryKey;size:36"`
	FacultyID    *string `gorm:"size:64"`
	DepartmentID *string `gorm:"size:64"`
	Level        *int
}

type UserCourse struct {
	UserID   string `gorm:"primaryKey;size:36"`
	CourseID string `gorm:"primaryKey;size:64"`
}
