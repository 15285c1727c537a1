package model

import "time"

// User is the owner of projects. The bot front-end identifies users by their Telegram account.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	TelegramID   int64   `gorm:"uniqueIndex"`
	Email        *string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Projects     []Project `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
