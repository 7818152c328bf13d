package model

import (
	"github.com/google/uuid"
)

type Category struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name  string    `gorm:"uniqueIndex;not null"`
	Color string    `gorm:"not null"`
}
