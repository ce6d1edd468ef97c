package services

import (
	"errors"

	"biosync/models"

	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type CreateQuestionRequest struct {
	QuizID        uint     `json:"quiz_id" binding:"required"`
	Prompt        string   `json:"prompt" binding:"required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	WrongOptions  []string `json:"wrong_options" binding:"required,min=1,max=5"`
	Points        int      `json:"points" binding:"required,min=1"`
}

// CreateQuestion adds a question to the shared pool. The quiz back-reference
// records where the question came from and must belong to the caller.
func (s *QuestionService) CreateQuestion(userID uint, req *CreateQuestionRequest) (*models.Question, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND user_id = ?", req.QuizID, userID).First(&quiz).Error; err != nil {
		return nil, errors.New("quiz not found")
	}

	question := models.Question{
		QuizID:        req.QuizID,
		Prompt:        req.Prompt,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
	}
	if err := question.SetWrongOptions(req.WrongOptions); err != nil {
		return nil, err
	}

	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}

	return &question, nil
}

// ListPool returns every question in the shared pool.
func (s *QuestionService) ListPool() ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Find(&questions).Error
	return questions, err
}

func (s *QuestionService) DeleteQuestion(questionID uint, userID uint) error {
	var question models.Question
	if err := s.db.Preload("Quiz").First(&question, questionID).Error; err != nil {
		return errors.New("question not found")
	}

	if question.Quiz.UserID != userID {
		return errors.New("question does not belong to one of your quizzes")
	}

	return s.db.Delete(&models.Question{}, questionID).Error
}
