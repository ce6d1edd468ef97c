package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Question belongs to the shared pool: every user's session samples from the
// full table, regardless of which quiz record introduced the question.
type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	QuizID        uint           `json:"quiz_id" gorm:"not null"`
	Prompt        string         `json:"prompt" gorm:"type:text;not null"`
	CorrectAnswer string         `json:"correct_answer" gorm:"not null"`
	WrongOptions  string         `json:"wrong_options" gorm:"type:text;not null"` // JSON-encoded []string
	Points        int            `json:"points" gorm:"not null;default:10"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz Quiz `json:"quiz,omitempty"`
}

// WrongOptionList decodes the stored alternatives. A malformed column yields
// an empty list rather than an error; the session engine still renders the
// correct answer as a choice.
func (q *Question) WrongOptionList() []string {
	var options []string
	if err := json.Unmarshal([]byte(q.WrongOptions), &options); err != nil {
		return nil
	}
	return options
}

func (q *Question) SetWrongOptions(options []string) error {
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.WrongOptions = string(data)
	return nil
}
