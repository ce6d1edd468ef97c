package services

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"biosync/models"

	"github.com/google/uuid"
)

// Session engine error conditions. All of them are user-recoverable:
// handlers translate them to a short message and send the user back to the
// quiz home view.
var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrAccessDenied    = errors.New("you do not have access to this quiz")
	ErrQuizCompleted   = errors.New("quiz already completed")
	ErrEmptyPool       = errors.New("no questions available in the pool")
	ErrNoSession       = errors.New("no quiz session in progress")
	ErrQuestionGone    = errors.New("question no longer exists")
	ErrSessionConflict = errors.New("submitted answer is ahead of the current question")
)

// sessionQuestionCount is how many questions a session draws from the pool.
// Smaller pools use every question they have.
const sessionQuestionCount = 5

// Medal tiers, assigned by percentage of correct answers.
const (
	MedalExpert      = "Expert Santé"
	MedalConnoisseur = "Connaisseur"
	MedalApprentice  = "Apprenti"
)

type QuizSessionService struct {
	quizzes          QuizStore
	questions        QuestionStore
	sessions         SessionStore
	events           *EventPublisher
	normalizeAnswers bool
}

func NewQuizSessionService(quizzes QuizStore, questions QuestionStore, sessions SessionStore, events *EventPublisher, normalizeAnswers bool) *QuizSessionService {
	return &QuizSessionService{
		quizzes:          quizzes,
		questions:        questions,
		sessions:         sessions,
		events:           events,
		normalizeAnswers: normalizeAnswers,
	}
}

// QuestionView is what the caller gets to see mid-session: the prompt and
// shuffled choices, never the correct answer.
type QuestionView struct {
	QuestionID uint     `json:"question_id"`
	Prompt     string   `json:"prompt"`
	Choices    []string `json:"choices"`
	Index      int      `json:"index"`
	Total      int      `json:"total"`
	Progress   int      `json:"progress"` // percent, display only
}

// SessionStep is the outcome of asking for the current question: either a
// question to answer, or the signal that the session is ready to finalize.
type SessionStep struct {
	Finished bool          `json:"finished"`
	Question *QuestionView `json:"question,omitempty"`
}

// SessionResult is the computed summary of a finished session.
type SessionResult struct {
	TotalScore     int          `json:"total_score"`
	CorrectCount   int          `json:"correct_count"`
	TotalQuestions int          `json:"total_questions"`
	Percentage     int          `json:"percentage"`
	Medal          *string      `json:"medal"`
	Quiz           *models.Quiz `json:"quiz"`
}

// Start verifies the quiz can be attempted by this user and creates fresh
// session state: up to five questions drawn uniformly without replacement
// from the whole pool, in randomized order. Any previous session state for
// the user is replaced, which is the only way to abandon a session.
func (s *QuizSessionService) Start(ctx context.Context, userID, quizID uint) (*SessionState, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if quiz.UserID != userID {
		return nil, ErrAccessDenied
	}
	if quiz.Status == models.QuizStatusCompleted {
		return nil, ErrQuizCompleted
	}

	pool, err := s.questions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	state := &SessionState{
		AttemptID:    uuid.NewString(),
		QuizID:       quizID,
		QuestionIDs:  samplePool(pool, sessionQuestionCount),
		CurrentIndex: 0,
		Answers:      map[int]AnswerRecord{},
		StartedAt:    time.Now(),
	}

	if err := s.sessions.Put(ctx, userID, state); err != nil {
		return nil, err
	}

	log.Printf("Started quiz session %s for user %d: quiz %d, %d questions", state.AttemptID, userID, quizID, len(state.QuestionIDs))
	return state, nil
}

// samplePool draws up to limit question ids uniformly without replacement,
// Fisher-Yates over a copy of the pool.
func samplePool(pool []models.Question, limit int) []uint {
	ids := make([]uint, len(pool))
	for i, q := range pool {
		ids[i] = q.ID
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := len(ids) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}

	if limit > len(ids) {
		limit = len(ids)
	}
	return ids[:limit]
}

// Current returns the question at the session cursor, or Finished when
// every question has been answered. A question deleted mid-session fails
// closed with ErrQuestionGone instead of silently skipping.
func (s *QuizSessionService) Current(ctx context.Context, userID uint) (*SessionStep, error) {
	state, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoSession
	}

	if state.Finished() {
		return &SessionStep{Finished: true}, nil
	}

	question, err := s.questions.FindByID(ctx, state.QuestionIDs[state.CurrentIndex])
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionGone
	}

	total := len(state.QuestionIDs)
	return &SessionStep{
		Question: &QuestionView{
			QuestionID: question.ID,
			Prompt:     question.Prompt,
			Choices:    shuffleChoices(question),
			Index:      state.CurrentIndex,
			Total:      total,
			Progress:   int(math.Round(float64(state.CurrentIndex) / float64(total) * 100)),
		},
	}, nil
}

// shuffleChoices mixes the correct answer in with the wrong alternatives so
// its position gives nothing away.
func shuffleChoices(question *models.Question) []string {
	choices := append([]string{question.CorrectAnswer}, question.WrongOptionList()...)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := len(choices) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		choices[i], choices[j] = choices[j], choices[i]
	}
	return choices
}

// Submit records the answer for the question at index. Submitting the
// current index advances the cursor by exactly one; resubmitting an already
// answered index overwrites that record without advancing, so a duplicate
// request cannot corrupt the cursor accounting. An index ahead of the
// cursor is rejected.
func (s *QuizSessionService) Submit(ctx context.Context, userID uint, index int, answer string) (*SessionState, error) {
	state, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoSession
	}

	if index < 0 || index > state.CurrentIndex || index >= len(state.QuestionIDs) {
		return nil, ErrSessionConflict
	}

	question, err := s.questions.FindByID(ctx, state.QuestionIDs[index])
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionGone
	}

	correct := s.answerMatches(answer, question.CorrectAnswer)
	points := 0
	if correct {
		points = question.Points
	}

	state.Answers[index] = AnswerRecord{
		QuestionID: question.ID,
		Answer:     answer,
		Correct:    correct,
		Points:     points,
	}
	if index == state.CurrentIndex {
		state.CurrentIndex++
	}

	if err := s.sessions.Put(ctx, userID, state); err != nil {
		return nil, err
	}

	return state, nil
}

func (s *QuizSessionService) answerMatches(submitted, correct string) bool {
	if s.normalizeAnswers {
		return strings.EqualFold(normalizeAnswer(submitted), normalizeAnswer(correct))
	}
	return submitted == correct
}

func normalizeAnswer(answer string) string {
	return strings.Join(strings.Fields(answer), " ")
}

// Finalize scores the finished answer set, commits the result onto the quiz
// record and only then clears the session state, so a persistence failure
// never loses the answers. Calling it again after a successful run finds no
// session and fails gracefully without touching the completed quiz.
func (s *QuizSessionService) Finalize(ctx context.Context, userID uint) (*SessionResult, error) {
	state, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.QuizID == 0 || len(state.Answers) == 0 {
		return nil, ErrNoSession
	}

	totalScore := 0
	correctCount := 0
	for _, record := range state.Answers {
		totalScore += record.Points
		if record.Correct {
			correctCount++
		}
	}
	totalQuestions := len(state.Answers)
	percentage := int(math.Round(float64(correctCount) / float64(totalQuestions) * 100))
	medal := medalForPercentage(percentage)

	quiz, err := s.quizzes.FindByID(ctx, state.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		// Session state is deliberately left in place so the failure stays
		// visible instead of silently discarding the answers.
		return nil, ErrQuizNotFound
	}

	completedAt := time.Now()
	if err := s.quizzes.Complete(ctx, quiz.ID, totalScore, medal, completedAt); err != nil {
		return nil, err
	}

	quiz.Score = totalScore
	quiz.Medal = medal
	quiz.Status = models.QuizStatusCompleted
	quiz.CompletedAt = &completedAt

	if err := s.sessions.Clear(ctx, userID); err != nil {
		// The result is already saved; a leftover session key only blocks a
		// restart until its TTL runs out.
		log.Printf("Failed to clear session state for user %d: %v", userID, err)
	}

	if s.events != nil {
		if err := s.events.Publish("quiz.completed", map[string]interface{}{
			"attempt_id": state.AttemptID,
			"user_id":    userID,
			"quiz_id":    quiz.ID,
			"score":      totalScore,
			"percentage": percentage,
			"medal":      medal,
		}); err != nil {
			log.Printf("Failed to publish quiz.completed event: %v", err)
		}
	}

	log.Printf("Finalized quiz session %s for user %d: score=%d, percentage=%d", state.AttemptID, userID, totalScore, percentage)

	return &SessionResult{
		TotalScore:     totalScore,
		CorrectCount:   correctCount,
		TotalQuestions: totalQuestions,
		Percentage:     percentage,
		Medal:          medal,
		Quiz:           quiz,
	}, nil
}

// medalForPercentage assigns the achievement tier, highest threshold first.
// Below 40 percent there is no medal.
func medalForPercentage(percentage int) *string {
	var medal string
	switch {
	case percentage >= 80:
		medal = MedalExpert
	case percentage >= 60:
		medal = MedalConnoisseur
	case percentage >= 40:
		medal = MedalApprentice
	default:
		return nil
	}
	return &medal
}
