package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"biosync/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type CreateQuizRequest struct {
	Title             string `json:"title" binding:"required,max=100"`
	TargetStressLevel int    `json:"target_stress_level" binding:"required,min=1,max=10"`
}

// DashboardSummary aggregates a user's completed quizzes into the totals
// and achievement flags shown on the wellness dashboard.
type DashboardSummary struct {
	TotalScore      int  `json:"total_score"`
	CompletedQuiz   int  `json:"completed_quiz"`
	AvailableQuiz   int  `json:"available_quiz"`
	HasExpert       bool `json:"has_expert"`
	HasConnoisseur  bool `json:"has_connoisseur"`
	HasApprentice   bool `json:"has_apprentice"`
	DistinctMedals  int  `json:"distinct_medals"`
}

// QuizSummary is the flattened search result row.
type QuizSummary struct {
	ID                uint       `json:"id"`
	Title             string     `json:"title"`
	TargetStressLevel int        `json:"target_stress_level"`
	QuestionsCount    int        `json:"questions_count"`
	Score             int        `json:"score"`
	Medal             *string    `json:"medal"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

func (s *QuizService) CreateQuiz(userID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	quiz := models.Quiz{
		UserID:            userID,
		Title:             req.Title,
		TargetStressLevel: req.TargetStressLevel,
		Status:            models.QuizStatusAvailable,
	}

	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}

	return &quiz, nil
}

// GetUserQuizzes lists a user's quizzes, optionally filtered by status,
// newest first.
func (s *QuizService) GetUserQuizzes(userID uint, status string) ([]models.Quiz, error) {
	query := s.db.Where("user_id = ?", userID)
	if status != "" {
		if status != models.QuizStatusAvailable && status != models.QuizStatusCompleted {
			return nil, errors.New("unknown quiz status")
		}
		query = query.Where("status = ?", status)
	}

	var quizzes []models.Quiz
	err := query.Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) GetQuizByID(quizID uint, userID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND user_id = ?", quizID, userID).First(&quiz).Error
	return &quiz, err
}

func (s *QuizService) DeleteQuiz(quizID uint, userID uint) error {
	if _, err := s.GetQuizByID(quizID, userID); err != nil {
		return err
	}
	return s.db.Delete(&models.Quiz{}, quizID).Error
}

// GetDashboard sums completed-quiz scores and derives the achievement flags
// from the medals the user has collected.
func (s *QuizService) GetDashboard(userID uint) (*DashboardSummary, error) {
	completed, err := s.GetUserQuizzes(userID, models.QuizStatusCompleted)
	if err != nil {
		return nil, err
	}

	var availableCount int64
	if err := s.db.Model(&models.Quiz{}).
		Where("user_id = ? AND status = ?", userID, models.QuizStatusAvailable).
		Count(&availableCount).Error; err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		CompletedQuiz: len(completed),
		AvailableQuiz: int(availableCount),
	}

	medals := map[string]bool{}
	for _, quiz := range completed {
		summary.TotalScore += quiz.Score
		if quiz.Medal != nil {
			medals[*quiz.Medal] = true
		}
	}

	summary.HasExpert = medals[MedalExpert]
	summary.HasConnoisseur = medals[MedalConnoisseur]
	summary.HasApprentice = medals[MedalApprentice]
	summary.DistinctMedals = len(medals)

	return summary, nil
}

// SearchQuizzes filters a user's quizzes by title substring and sorts by
// date or name. quizType selects available (default) or completed quizzes.
func (s *QuizService) SearchQuizzes(userID uint, term, sortBy, quizType string) ([]QuizSummary, error) {
	status := models.QuizStatusAvailable
	if quizType == "completed" {
		status = models.QuizStatusCompleted
	}

	var quizzes []models.Quiz
	if err := s.db.Where("user_id = ? AND status = ?", userID, status).
		Preload("Questions").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, QuizSummary{
			ID:                quiz.ID,
			Title:             quiz.Title,
			TargetStressLevel: quiz.TargetStressLevel,
			QuestionsCount:    len(quiz.Questions),
			Score:             quiz.Score,
			Medal:             quiz.Medal,
			CreatedAt:         quiz.CreatedAt,
			CompletedAt:       quiz.CompletedAt,
		})
	}

	return filterAndSortSummaries(summaries, term, sortBy), nil
}

func filterAndSortSummaries(summaries []QuizSummary, term, sortBy string) []QuizSummary {
	if term != "" {
		needle := strings.ToLower(term)
		filtered := summaries[:0]
		for _, summary := range summaries {
			if strings.Contains(strings.ToLower(summary.Title), needle) {
				filtered = append(filtered, summary)
			}
		}
		summaries = filtered
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if sortBy == "name" {
			return strings.ToLower(summaries[i].Title) < strings.ToLower(summaries[j].Title)
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries
}
