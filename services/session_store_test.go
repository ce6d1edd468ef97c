package services

import (
	"encoding/json"
	"testing"
	"time"
)

// Answers are keyed by sequence index; make sure the integer-keyed map
// survives the JSON round trip through the session store.
func TestSessionStateJSONRoundTrip(t *testing.T) {
	state := &SessionState{
		AttemptID:    "attempt-1",
		QuizID:       7,
		QuestionIDs:  []uint{3, 1, 4},
		CurrentIndex: 2,
		Answers: map[int]AnswerRecord{
			0: {QuestionID: 3, Answer: "Huit heures", Correct: true, Points: 10},
			1: {QuestionID: 1, Answer: "Jamais", Correct: false, Points: 0},
		},
		StartedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded SessionState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.CurrentIndex != 2 || decoded.QuizID != 7 {
		t.Errorf("Decoded state mismatch: %+v", decoded)
	}
	if len(decoded.Answers) != 2 {
		t.Fatalf("Expected 2 answers, got %d", len(decoded.Answers))
	}
	if record := decoded.Answers[0]; record.QuestionID != 3 || !record.Correct || record.Points != 10 {
		t.Errorf("Answer at index 0 mismatch: %+v", record)
	}
}

func TestSessionStateFinished(t *testing.T) {
	tests := []struct {
		name  string
		index int
		total int
		want  bool
	}{
		{"fresh session", 0, 5, false},
		{"mid session", 3, 5, false},
		{"all answered", 5, 5, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := &SessionState{
				QuestionIDs:  make([]uint, tc.total),
				CurrentIndex: tc.index,
			}
			if got := state.Finished(); got != tc.want {
				t.Errorf("Finished() = %v, want %v", got, tc.want)
			}
		})
	}
}
