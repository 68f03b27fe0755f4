package models

import "time"

// DateLayout is the calendar-date form used for streak bookkeeping (UTC).
const DateLayout = "2006-01-02"

// UserProgress is the per-user lifetime aggregate. Accuracy is derived
// from the two counters, never set independently.
type UserProgress struct {
	UserID          string `gorm:"primaryKey;size:36"`
	Streak          int    `gorm:"default:1"`
	Accuracy        int
	TotalAnswered   int
	CorrectAnswered int
	StudySeconds    int
	LastActive      string `gorm:"size:10"`
}

// NewUserProgress returns the registration-default progress record.
func NewUserProgress(userID string, today string) UserProgress {
	return UserProgress{
		UserID:     userID,
		Streak:     1,
		LastActive: today,
	}
}

// UserBankStats tracks which questions of a bank a user has attempted and
// which were answered correctly at least once. CorrectIDs is always a
// subset of AnsweredIDs and never loses a member.
type UserBankStats struct {
	UserID      string     `gorm:"primaryKey;size:36"`
	BankID      string     `gorm:"primaryKey;size:36"`
	AnsweredIDs StringList `gorm:"type:text;not null"`
	CorrectIDs  StringList `gorm:"type:text;not null"`
	UpdatedAt   time.Time
}

// SavedItemKinds are the only accepted values for SavedItem.Kind.
var SavedItemKinds = []string{"pastQuestions", "materials", "questions"}

type SavedItem struct {
	UserID    string `gorm:"primaryKey;size:36"`
	Kind      string `gorm:"primaryKey;size:32"`
	ItemID    string `gorm:"primaryKey;size:64"`
	CreatedAt time.Time
}
