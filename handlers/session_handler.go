package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"biosync/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.QuizSessionService
}

func NewSessionHandler(sessionService *services.QuizSessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

type SubmitAnswerRequest struct {
	Index  int    `json:"index"`
	Answer string `json:"answer" binding:"required"`
}

// sessionErrorStatus maps the engine's recoverable error conditions to HTTP
// statuses. Anything unrecognized is a store failure and reported as 500 so
// the user is never told a result was saved when it was not.
func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrQuizNotFound), errors.Is(err, services.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrQuizCompleted),
		errors.Is(err, services.ErrEmptyPool),
		errors.Is(err, services.ErrQuestionGone),
		errors.Is(err, services.ErrSessionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	state, err := h.sessionService.Start(c.Request.Context(), userID.(uint), uint(quizID))
	if err != nil {
		c.JSON(sessionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attempt_id":      state.AttemptID,
		"quiz_id":         state.QuizID,
		"total_questions": len(state.QuestionIDs),
		"started_at":      state.StartedAt,
	})
}

func (h *SessionHandler) CurrentQuestion(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	step, err := h.sessionService.Current(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(sessionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, step)
}

func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.sessionService.Submit(c.Request.Context(), userID.(uint), req.Index, req.Answer)
	if err != nil {
		c.JSON(sessionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_index":   state.CurrentIndex,
		"total_questions": len(state.QuestionIDs),
		"finished":        state.Finished(),
	})
}

func (h *SessionHandler) FinalizeSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.sessionService.Finalize(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(sessionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
