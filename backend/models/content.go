package models

type Material struct {
	ID         string     `gorm:"primaryKey;size:36"`
	CourseID   string     `gorm:"size:64;index;not null"`
	Title      string     `gorm:"size:255;not null"`
	Type       string     `gorm:"size:32"`
	FilePath   string     `gorm:"size:512"`
	UploadedAt string     `gorm:"size:10"`
	Tags       StringList `gorm:"type:text"`
	CreatedBy  string     `gorm:"size:36"`
}

type PastQuestion struct {
	ID         string `gorm:"primaryKey;size:36"`
	CourseID   string `gorm:"size:64;index;not null"`
	Session    string `gorm:"size:32"`
	Semester   string `gorm:"size:32"`
	Title      string `gorm:"size:255;not null"`
	FilePath   string `gorm:"size:512"`
	UploadedAt string `gorm:"size:10"`
	CreatedBy  string `gorm:"size:36"`
}
