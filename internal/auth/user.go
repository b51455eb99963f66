package auth

import "time"

type User struct {
	ID           uint64    `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	AvatarURL    string    `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`

	ResetToken       *string    `gorm:"index"`
	ResetTokenExpiry *time.Time `gorm:"type:timestamptz"`
}
