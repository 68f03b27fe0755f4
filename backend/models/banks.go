package models

import "time"

type Bank struct {
	ID        string `gorm:"primaryKey;size:36"`
	CourseID  string `gorm:"size:64;index;not null"`
	Title     string `gorm:"size:255;not null"`
	Mode      string `gorm:"size:32"`
	CreatedBy string `gorm:"size:36"`
	CreatedAt time.Time
}

type Question struct {
	ID          string     `gorm:"primaryKey;size:36"`
	BankID      string     `gorm:"size:36;index;not null"`
	Prompt      string     `gorm:"type:text;not null"`
	Options     StringList `gorm:"type:text;not null"`
	AnswerIndex int
	Explanation string `gorm:"type:text"`
	SortOrder   int
}
