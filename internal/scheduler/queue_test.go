package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueSettings() Settings {
	s := DefaultSettings()
	s.NewCardsPerDay = 20
	return s
}

func newCandidate(id string, state State, due time.Time, created time.Time, category string) QueueCandidate {
	return QueueCandidate{
		Item:     fixtureItem(id, state, due, created),
		Category: category,
		Front:    "front " + id,
		Back:     "back " + id,
	}
}

// fixtureItem builds a minimal review item for queue tests.
func fixtureItem(id string, state State, due time.Time, created time.Time) ReviewItem {
	return ReviewItem{
		ID:        id,
		CardID:    "card-" + id,
		UserID:    "user-1",
		Direction: DirectionForward,
		State:     state,
		DueDate:   due,
		CreatedAt: created,
	}
}

func TestBuildQueue(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		candidates     []QueueCandidate
		gradedNewToday int
		opts           QueueOptions
		wantIDs        []string
		wantStats      QueueStats
	}{
		{
			name: "due items first by due date, then new in creation order",
			candidates: []QueueCandidate{
				newCandidate("n2", StateNew, time.Time{}, created.Add(2*time.Hour), "verbs"),
				newCandidate("r1", StateReview, past, created, "verbs"),
				newCandidate("n1", StateNew, time.Time{}, created.Add(time.Hour), "verbs"),
				newCandidate("l1", StateLearning, past.Add(30*time.Minute), created, "verbs"),
			},
			wantIDs: []string{"r1", "l1", "n1", "n2"},
			wantStats: QueueStats{
				DueCount: 2, NewCount: 2, NewRemainingToday: 18,
				TotalCount: 4, LearningCount: 1,
			},
		},
		{
			name: "due tie broken by item id",
			candidates: []QueueCandidate{
				newCandidate("b", StateReview, past, created, ""),
				newCandidate("a", StateReview, past, created, ""),
			},
			wantIDs: []string{"a", "b"},
			wantStats: QueueStats{
				DueCount: 2, NewRemainingToday: 20, TotalCount: 2,
			},
		},
		{
			name: "items not yet due are excluded",
			candidates: []QueueCandidate{
				newCandidate("r1", StateReview, future, created, ""),
				newCandidate("l1", StateLearning, future, created, ""),
			},
			wantIDs: []string{},
			wantStats: QueueStats{
				NewRemainingToday: 20, LearningCount: 1,
			},
		},
		{
			name: "exhausted quota blocks new items but not due ones",
			candidates: []QueueCandidate{
				newCandidate("n1", StateNew, time.Time{}, created, ""),
				newCandidate("r1", StateReview, past, created, ""),
			},
			gradedNewToday: 20,
			wantIDs:        []string{"r1"},
			wantStats: QueueStats{
				DueCount: 1, TotalCount: 1,
			},
		},
		{
			name: "extra new raises the quota for this build",
			candidates: []QueueCandidate{
				newCandidate("n1", StateNew, time.Time{}, created, ""),
				newCandidate("n2", StateNew, time.Time{}, created.Add(time.Hour), ""),
			},
			gradedNewToday: 20,
			opts:           QueueOptions{ExtraNew: 1},
			wantIDs:        []string{"n1"},
			wantStats: QueueStats{
				NewCount: 1, TotalCount: 1,
			},
		},
		{
			name: "disabled categories are excluded entirely",
			candidates: []QueueCandidate{
				newCandidate("r1", StateReview, past, created, "disabled"),
				newCandidate("n1", StateNew, time.Time{}, created, "disabled"),
				newCandidate("r2", StateReview, past, created, "active"),
			},
			wantIDs: []string{"r2"},
			wantStats: QueueStats{
				DueCount: 1, NewRemainingToday: 20, TotalCount: 1,
			},
		},
		{
			name: "all mode returns everything and still counts due items",
			candidates: []QueueCandidate{
				newCandidate("r0", StateReview, past, created.Add(-time.Hour), ""),
				newCandidate("r1", StateReview, future, created, "disabled"),
				newCandidate("n1", StateNew, time.Time{}, created.Add(time.Hour), ""),
			},
			gradedNewToday: 20,
			opts:           QueueOptions{All: true},
			wantIDs:        []string{"r0", "r1", "n1"},
			wantStats: QueueStats{
				DueCount: 1, NewCount: 1, TotalCount: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := queueSettings()
			settings.DisabledCategories = []string{"disabled"}

			queue, stats := BuildQueue(tt.candidates, tt.gradedNewToday, settings, now, tt.opts)

			gotIDs := make([]string, 0, len(queue))
			for _, item := range queue {
				gotIDs = append(gotIDs, item.ReviewItemID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
			assert.Equal(t, tt.wantStats, stats)
		})
	}
}

func TestBuildQueue_QuotaNeverExceeded(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	var candidates []QueueCandidate
	for i := 0; i < 50; i++ {
		candidates = append(candidates, newCandidate(
			fmt.Sprintf("n%02d", i), StateNew, time.Time{}, created.Add(time.Duration(i)*time.Minute), "",
		))
	}

	for graded := 0; graded <= 25; graded += 5 {
		for extra := 0; extra <= 5; extra += 5 {
			queue, stats := BuildQueue(candidates, graded, queueSettings(), now, QueueOptions{ExtraNew: extra})

			limit := 20 - graded
			if limit < 0 {
				limit = 0
			}
			limit += extra

			assert.LessOrEqual(t, len(queue), limit, "graded=%d extra=%d", graded, extra)
			assert.Equal(t, len(queue), stats.NewCount)
		}
	}
}

func TestBuildQueue_NegativeExtraNew(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	candidates := []QueueCandidate{
		newCandidate("n1", StateNew, time.Time{}, created, ""),
		newCandidate("n2", StateNew, time.Time{}, created.Add(time.Hour), ""),
		newCandidate("r1", StateReview, now.Add(-time.Hour), created, ""),
	}

	t.Run("reduction past zero selects no new items", func(t *testing.T) {
		queue, stats := BuildQueue(candidates, 0, queueSettings(), now, QueueOptions{ExtraNew: -25})

		require.Len(t, queue, 1)
		assert.Equal(t, "r1", queue[0].ReviewItemID)
		assert.Equal(t, 0, stats.NewCount)
		assert.Equal(t, 1, stats.DueCount)
	})

	t.Run("partial reduction keeps the difference", func(t *testing.T) {
		queue, stats := BuildQueue(candidates, 0, queueSettings(), now, QueueOptions{ExtraNew: -19})

		assert.Equal(t, 1, stats.NewCount)
		require.Len(t, queue, 2)
		assert.Equal(t, "n1", queue[1].ReviewItemID)
	})
}

func TestBuildQueue_DueNeverContainsFutureItems(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	candidates := []QueueCandidate{
		newCandidate("r1", StateReview, now.Add(-time.Minute), created, ""),
		newCandidate("r2", StateReview, now, created, ""),
		newCandidate("r3", StateReview, now.Add(time.Second), created, ""),
		newCandidate("rl1", StateRelearning, now.Add(time.Minute), created, ""),
	}

	queue, stats := BuildQueue(candidates, 0, queueSettings(), now, QueueOptions{})

	assert.Equal(t, 2, stats.DueCount)
	for _, item := range queue {
		assert.False(t, item.DueDate.After(now), "item %s due in the future", item.ReviewItemID)
	}
}

func TestBuildQueue_NewSelectionIsStable(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// Same creation time: insertion order falls back to item id.
	candidates := []QueueCandidate{
		newCandidate("c", StateNew, time.Time{}, created, ""),
		newCandidate("a", StateNew, time.Time{}, created, ""),
		newCandidate("b", StateNew, time.Time{}, created, ""),
	}

	settings := queueSettings()
	settings.NewCardsPerDay = 2

	queue, stats := BuildQueue(candidates, 0, settings, now, QueueOptions{})
	assert.Equal(t, 2, stats.NewCount)
	assert.Equal(t, "a", queue[0].ReviewItemID)
	assert.Equal(t, "b", queue[1].ReviewItemID)
	assert.Equal(t, 0, stats.NewRemainingToday)
}
