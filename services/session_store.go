package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an abandoned in-progress session survives.
const sessionTTL = 2 * time.Hour

// AnswerRecord is one submitted answer, keyed by its position in the
// question sequence.
type AnswerRecord struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
	Points     int    `json:"points"`
}

// SessionState is the ephemeral per-user state of an in-progress quiz
// attempt. Answers only ever holds entries for indexes below CurrentIndex.
type SessionState struct {
	AttemptID    string               `json:"attempt_id"`
	QuizID       uint                 `json:"quiz_id"`
	QuestionIDs  []uint               `json:"question_ids"`
	CurrentIndex int                  `json:"current_index"`
	Answers      map[int]AnswerRecord `json:"answers"`
	StartedAt    time.Time            `json:"started_at"`
}

// Finished reports whether every question in the sequence has been answered.
func (s *SessionState) Finished() bool {
	return s.CurrentIndex >= len(s.QuestionIDs)
}

// SessionStore stores at most one SessionState per user. Get returns
// (nil, nil) when the user has no active session.
type SessionStore interface {
	Get(ctx context.Context, userID uint) (*SessionState, error)
	Put(ctx context.Context, userID uint, state *SessionState) error
	Clear(ctx context.Context, userID uint) error
}

// RedisSessionStore keeps session state as a JSON blob per user with a TTL,
// so abandoned sessions eventually expire on their own.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("quiz:session:%d", userID)
}

func (s *RedisSessionStore) Get(ctx context.Context, userID uint) (*SessionState, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		// Unreadable state is as good as no state; drop it so the user can
		// restart instead of being stuck.
		log.Printf("Discarding corrupt session state for user %d: %v", userID, err)
		s.client.Del(ctx, sessionKey(userID))
		return nil, nil
	}

	return &state, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, userID uint, state *SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(userID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session state: %w", err)
	}

	return nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}
