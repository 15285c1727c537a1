package model

import "time"

// Project groups tasks and is visible only to the user that owns it.
type Project struct {
	ID          uint    `gorm:"primaryKey"`
	UserID      uint    `gorm:"index;not null"`
	Title       string  `gorm:"size:100;not null"`
	Description *string `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tasks       []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectStats is a project row with task counters, used for listings.
type ProjectStats struct {
	Project
	TaskCount          int
	CompletedTaskCount int
}
