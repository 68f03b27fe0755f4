package models

type Faculty struct {
	ID   string `gorm:"primaryKey;size:64"`
	Name string `gorm:"size:255;not null"`
}

type Department struct {
	ID        string `gorm:"primaryKey;size:64"`
	FacultyID string `gorm:"size:64;index;not null"`
	Name      string `gorm:"size:255;not null"`
}

type Course struct {
	ID    string `gorm:"primaryKey;size:64"`
	Code  string `gorm:"size:32"`
	Title string `gorm:"size:255"`
	Level int
}

type CourseDepartment struct {
	CourseID     string `gorm:"primaryKey;size:64"`
	DepartmentID string `gorm:"primaryKey;size:64"`
}
