package services

import (
	"testing"
	"time"
)

func summariesForTest() []QuizSummary {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []QuizSummary{
		{ID: 1, Title: "Gestion du stress", CreatedAt: base},
		{ID: 2, Title: "Sommeil et récupération", CreatedAt: base.Add(48 * time.Hour)},
		{ID: 3, Title: "Alimentation équilibrée", CreatedAt: base.Add(24 * time.Hour)},
	}
}

func TestFilterAndSortSummaries(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		sortBy  string
		wantIDs []uint
	}{
		{"date sort newest first", "", "date", []uint{2, 3, 1}},
		{"name sort alphabetical", "", "name", []uint{3, 1, 2}},
		{"filter is case insensitive", "SOMMEIL", "date", []uint{2}},
		{"filter matches substrings", "stress", "date", []uint{1}},
		{"no match yields empty", "yoga", "date", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := filterAndSortSummaries(summariesForTest(), tc.term, tc.sortBy)

			if len(got) != len(tc.wantIDs) {
				t.Fatalf("Expected %d summaries, got %d", len(tc.wantIDs), len(got))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Errorf("Position %d: expected quiz %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}
