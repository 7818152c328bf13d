package model

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	Initials  string    `gorm:"not null"`
	Email     string    `gorm:"index"`
	Phone     string
	Color     string
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
