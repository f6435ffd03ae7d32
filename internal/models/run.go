package models

import (
	"time"
)

// Run is a timed playthrough attempt. RunTimeMinutes is the storage form of the
// "hh:mm" wire format; PokemonTeam is the comma-joined team column (NULL when no
// team was recorded, which is distinct from an empty string).
type Run struct {
	ID             uint    `gorm:"primaryKey"`
	Game           string  `gorm:"type:varchar(100);not null"`
	RunTimeMinutes int64   `gorm:"column:run_time;not null"`
	PokedexStatus  int     `gorm:"not null"`
	PokemonTeam    *string `gorm:"type:text"`
	Observation    *string `gorm:"type:varchar(100)"`
	UserID         uint    `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (r *Run) RunTime() time.Duration {
	return time.Duration(r.RunTimeMinutes) * time.Minute
}

func (r *Run) SetRunTime(d time.Duration) {
	r.RunTimeMinutes = int64(d / time.Minute)
}
