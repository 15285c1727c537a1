package model

import "time"

// Task represents a single item of work inside a project.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   uint   `gorm:"index;not null"`
	Title       string `gorm:"size:200;not null"`
	DueDate     *time.Time
	IsCompleted bool `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
