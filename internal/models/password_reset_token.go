package models

import (
	"time"
)

// PasswordResetToken authorizes a single password change. Consumed tokens are
// marked used and retained; expired ones are swept by cmd/sweeper.
type PasswordResetToken struct {
	ID         uint      `gorm:"primaryKey"`
	Token      string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID     uint      `gorm:"not null;index"`
	ExpiryDate time.Time `gorm:"not null"`
	Used       bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiryDate)
}
