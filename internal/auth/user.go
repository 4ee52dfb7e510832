package auth

import "time"

// User carries the contact fields notifications resolve against. Only
// verified contacts are ever handed to the dispatch path.
type User struct {
	ID            uint64    `gorm:"primaryKey"`
	Email         string    `gorm:"uniqueIndex;not null"`
	PasswordHash  string    `gorm:"not null"`
	Phone         *string   `gorm:"type:text"`
	EmailVerified bool      `gorm:"not null;default:false"`
	PhoneVerified bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"not null;default:now()"`
}
