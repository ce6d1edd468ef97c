package services

import (
	"context"
	"errors"
	"time"

	"biosync/models"

	"gorm.io/gorm"
)

// QuizStore and QuestionStore are the persistence contracts the session
// engine depends on. Lookups return (nil, nil) for a missing record; errors
// are reserved for the store itself failing.
type QuizStore interface {
	FindByID(ctx context.Context, id uint) (*models.Quiz, error)
	Complete(ctx context.Context, id uint, score int, medal *string, at time.Time) error
}

type QuestionStore interface {
	FindAll(ctx context.Context) ([]models.Question, error)
	FindByID(ctx context.Context, id uint) (*models.Question, error)
}

type GormQuizStore struct {
	db *gorm.DB
}

func NewGormQuizStore(db *gorm.DB) *GormQuizStore {
	return &GormQuizStore{db: db}
}

func (s *GormQuizStore) FindByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

// Complete commits the final result in a single update: score, medal,
// status and completion timestamp change together or not at all.
func (s *GormQuizStore) Complete(ctx context.Context, id uint, score int, medal *string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":        score,
			"medal":        medal,
			"status":       models.QuizStatusCompleted,
			"completed_at": at,
		}).Error
}

type GormQuestionStore struct {
	db *gorm.DB
}

func NewGormQuestionStore(db *gorm.DB) *GormQuestionStore {
	return &GormQuestionStore{db: db}
}

func (s *GormQuestionStore) FindAll(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).Find(&questions).Error
	return questions, err
}

func (s *GormQuestionStore) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}
