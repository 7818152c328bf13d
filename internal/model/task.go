package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string     `gorm:"not null"`
	Description string
	Priority    string     `gorm:"not null;default:medium"`
	DueDate     *time.Time `gorm:"type:date"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	Status      string     `gorm:"not null;default:todo;index;check:status IN ('todo', 'inProgress', 'awaitFeedback', 'done')"`
	CreatorID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category   *Category `gorm:"foreignKey:CategoryID"`
	AssignedTo []Contact `gorm:"many2many:task_assignees"`
	Contacts   []Contact `gorm:"many2many:task_contacts"`
	Subtasks   []Subtask `gorm:"many2many:task_subtasks"`
}
