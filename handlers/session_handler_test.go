package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"biosync/models"
	"biosync/services"

	"github.com/gin-gonic/gin"
)

type stubQuizStore struct {
	quizzes map[uint]*models.Quiz
}

func (s *stubQuizStore) FindByID(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, nil
	}
	copied := *quiz
	return &copied, nil
}

func (s *stubQuizStore) Complete(ctx context.Context, id uint, score int, medal *string, at time.Time) error {
	quiz := s.quizzes[id]
	quiz.Score = score
	quiz.Medal = medal
	quiz.Status = models.QuizStatusCompleted
	quiz.CompletedAt = &at
	return nil
}

type stubQuestionStore struct {
	questions map[uint]models.Question
}

func (s *stubQuestionStore) FindAll(ctx context.Context) ([]models.Question, error) {
	var all []models.Question
	for _, q := range s.questions {
		all = append(all, q)
	}
	return all, nil
}

func (s *stubQuestionStore) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

type stubSessionStore struct {
	states map[uint]*services.SessionState
}

func (s *stubSessionStore) Get(ctx context.Context, userID uint) (*services.SessionState, error) {
	state, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	return state, nil
}

func (s *stubSessionStore) Put(ctx context.Context, userID uint, state *services.SessionState) error {
	s.states[userID] = state
	return nil
}

func (s *stubSessionStore) Clear(ctx context.Context, userID uint) error {
	delete(s.states, userID)
	return nil
}

func newSessionTestRouter(t *testing.T) (*gin.Engine, *stubQuizStore, *stubQuestionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	quizzes := &stubQuizStore{quizzes: map[uint]*models.Quiz{
		1: {ID: 1, UserID: 10, Title: "Bien-être", Status: models.QuizStatusAvailable},
	}}
	questions := &stubQuestionStore{questions: map[uint]models.Question{}}
	for i := 1; i <= 8; i++ {
		id := uint(i)
		questions.questions[id] = models.Question{
			ID:            id,
			QuizID:        1,
			Prompt:        fmt.Sprintf("Question %d", i),
			CorrectAnswer: fmt.Sprintf("answer-%d", i),
			WrongOptions:  `["a","b"]`,
			Points:        10,
		}
	}

	sessionService := services.NewQuizSessionService(
		quizzes,
		questions,
		&stubSessionStore{states: map[uint]*services.SessionState{}},
		nil,
		false,
	)
	handler := NewSessionHandler(sessionService)

	router := gin.New()
	authed := router.Group("/api")
	authed.Use(func(c *gin.Context) {
		c.Set("user_id", uint(10))
		c.Next()
	})
	authed.POST("/quizzes/:id/session", handler.StartSession)
	authed.GET("/session/question", handler.CurrentQuestion)
	authed.POST("/session/answer", handler.SubmitAnswer)
	authed.POST("/session/result", handler.FinalizeSession)

	return router, quizzes, questions
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var decoded map[string]interface{}
	if len(recorder.Body.Bytes()) > 0 {
		if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode response %q: %v", recorder.Body.String(), err)
		}
	}
	return recorder, decoded
}

func TestSessionFlowOverHTTP(t *testing.T) {
	router, quizzes, questions := newSessionTestRouter(t)

	recorder, body := doJSON(t, router, http.MethodPost, "/api/quizzes/1/session", nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Start returned %d: %v", recorder.Code, body)
	}
	total := int(body["total_questions"].(float64))
	if total != 5 {
		t.Fatalf("Expected 5 questions, got %d", total)
	}

	for i := 0; i < total; i++ {
		recorder, body = doJSON(t, router, http.MethodGet, "/api/session/question", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Current returned %d: %v", recorder.Code, body)
		}
		question := body["question"].(map[string]interface{})
		questionID := uint(question["question_id"].(float64))

		recorder, body = doJSON(t, router, http.MethodPost, "/api/session/answer", map[string]interface{}{
			"index":  i,
			"answer": questions.questions[questionID].CorrectAnswer,
		})
		if recorder.Code != http.StatusOK {
			t.Fatalf("Submit %d returned %d: %v", i, recorder.Code, body)
		}
	}

	recorder, body = doJSON(t, router, http.MethodGet, "/api/session/question", nil)
	if recorder.Code != http.StatusOK || body["finished"] != true {
		t.Fatalf("Expected finished step, got %d: %v", recorder.Code, body)
	}

	recorder, body = doJSON(t, router, http.MethodPost, "/api/session/result", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Finalize returned %d: %v", recorder.Code, body)
	}
	if body["total_score"].(float64) != 50 || body["percentage"].(float64) != 100 {
		t.Errorf("Unexpected result: %v", body)
	}
	if body["medal"].(string) != services.MedalExpert {
		t.Errorf("Expected medal %q, got %v", services.MedalExpert, body["medal"])
	}
	if quizzes.quizzes[1].Status != models.QuizStatusCompleted {
		t.Error("Quiz record should be completed")
	}

	// Finalizing again finds no session and must not touch the quiz
	recorder, _ = doJSON(t, router, http.MethodPost, "/api/session/result", nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Second finalize should return 404, got %d", recorder.Code)
	}
}

func TestSessionStartErrorsOverHTTP(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"unknown quiz", "/api/quizzes/42/session", http.StatusNotFound},
		{"invalid quiz id", "/api/quizzes/abc/session", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _, _ := newSessionTestRouter(t)
			recorder, _ := doJSON(t, router, http.MethodPost, tc.path, nil)
			if recorder.Code != tc.wantCode {
				t.Errorf("Expected %d, got %d", tc.wantCode, recorder.Code)
			}
		})
	}
}

func TestSubmitConflictOverHTTP(t *testing.T) {
	router, _, _ := newSessionTestRouter(t)

	if recorder, body := doJSON(t, router, http.MethodPost, "/api/quizzes/1/session", nil); recorder.Code != http.StatusCreated {
		t.Fatalf("Start returned %d: %v", recorder.Code, body)
	}

	recorder, _ := doJSON(t, router, http.MethodPost, "/api/session/answer", map[string]interface{}{
		"index":  3,
		"answer": "too far ahead",
	})
	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected 409 for an answer ahead of the cursor, got %d", recorder.Code)
	}
}
