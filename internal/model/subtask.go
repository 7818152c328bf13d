package model

import "github.com/google/uuid"

// Subtask is created on its own and attached to a task afterwards.
type Subtask struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Text      string    `gorm:"not null"`
	Completed bool      `gorm:"not null;default:false"`
}
