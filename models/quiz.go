package models

import (
	"time"

	"gorm.io/gorm"
)

// Quiz statuses. A quiz record is mutated exactly once, when a session
// finishes and the result is committed.
const (
	QuizStatusAvailable = "available"
	QuizStatusCompleted = "completed"
)

type Quiz struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	UserID            uint           `json:"user_id" gorm:"not null"`
	Title             string         `json:"title" gorm:"not null"`
	TargetStressLevel int            `json:"target_stress_level" gorm:"not null"`
	Score             int            `json:"score" gorm:"not null;default:0"`
	Medal             *string        `json:"medal"`
	Status            string         `json:"status" gorm:"not null;default:'available'"` // available, completed
	CompletedAt       *time.Time     `json:"completed_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User      User       `json:"user,omitempty"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}
