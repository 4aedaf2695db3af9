package scheduler

import (
	"sort"
	"time"
)

// QueueCandidate is one review item offered to the queue builder, together
// with the denormalized card data the session needs for display.
type QueueCandidate struct {
	Item     ReviewItem
	Category string
	Front    string
	Back     string
}

// QueueItem is one entry of an assembled review session.
type QueueItem struct {
	ReviewItemID string    `json:"review_item_id"`
	CardID       string    `json:"card_id"`
	Direction    Direction `json:"direction"`
	State        State     `json:"state"`
	Category     string    `json:"category"`
	DueDate      time.Time `json:"due_date"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
}

// QueueStats summarizes an assembled session.
type QueueStats struct {
	DueCount          int `json:"due_count"`
	NewCount          int `json:"new_count"`
	NewRemainingToday int `json:"new_remaining_today"`
	TotalCount        int `json:"total_count"`
	LearningCount     int `json:"learning_count"`
}

// QueueOptions tune a single queue build.
type QueueOptions struct {
	// All bypasses due-date filtering and the new-card quota and returns
	// every item. Debug and inspection use only.
	All bool

	// ExtraNew adjusts today's new-card quota for this build only. A
	// negative value lowers it; the quota never drops below zero.
	ExtraNew int
}

// BuildQueue assembles an ordered review session from all of a user's
// items.
//
// Items in disabled categories are excluded. Due items (learning, review
// or relearning with due_date <= now) come first, ordered by due date with
// ties broken by item ID, so the overdue backlog is cleared before new
// material. New items follow in creation order, at most
// max(0, new_cards_per_day - gradedNewToday) + opts.ExtraNew of them,
// clamped at zero.
// gradedNewToday is the number of new items the user already graded today,
// computed by the caller from review history.
func BuildQueue(candidates []QueueCandidate, gradedNewToday int, settings Settings, now time.Time, opts QueueOptions) ([]QueueItem, QueueStats) {
	if opts.All {
		return buildFullQueue(candidates, gradedNewToday, settings, now)
	}

	var due, fresh []QueueCandidate
	var learningCount int
	for _, c := range candidates {
		if settings.CategoryDisabled(c.Category) {
			continue
		}
		if c.Item.State == StateLearning {
			learningCount++
		}
		switch {
		case c.Item.State == StateNew:
			fresh = append(fresh, c)
		case c.Item.IsDue(now):
			due = append(due, c)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].Item.DueDate.Equal(due[j].Item.DueDate) {
			return due[i].Item.DueDate.Before(due[j].Item.DueDate)
		}
		return due[i].Item.ID < due[j].Item.ID
	})
	sortByCreation(fresh)

	remaining := settings.NewCardsPerDay - gradedNewToday
	if remaining < 0 {
		remaining = 0
	}
	remaining += opts.ExtraNew
	if remaining < 0 {
		remaining = 0
	}
	if remaining > len(fresh) {
		remaining = len(fresh)
	}
	selected := fresh[:remaining]

	queue := make([]QueueItem, 0, len(due)+len(selected))
	for _, c := range due {
		queue = append(queue, toQueueItem(c))
	}
	for _, c := range selected {
		queue = append(queue, toQueueItem(c))
	}

	newRemaining := settings.NewCardsPerDay - gradedNewToday - len(selected)
	if newRemaining < 0 {
		newRemaining = 0
	}

	return queue, QueueStats{
		DueCount:          len(due),
		NewCount:          len(selected),
		NewRemainingToday: newRemaining,
		TotalCount:        len(queue),
		LearningCount:     learningCount,
	}
}

// buildFullQueue returns every item regardless of due dates, quota and
// category filters, in creation order. The stats still reflect what a
// regular build would count, so DueCount covers items already due.
func buildFullQueue(candidates []QueueCandidate, gradedNewToday int, settings Settings, now time.Time) ([]QueueItem, QueueStats) {
	all := make([]QueueCandidate, len(candidates))
	copy(all, candidates)
	sortByCreation(all)

	var stats QueueStats
	queue := make([]QueueItem, 0, len(all))
	for _, c := range all {
		queue = append(queue, toQueueItem(c))
		switch c.Item.State {
		case StateNew:
			stats.NewCount++
		case StateLearning:
			stats.LearningCount++
		}
		if c.Item.State != StateNew && c.Item.IsDue(now) {
			stats.DueCount++
		}
	}
	stats.TotalCount = len(queue)
	stats.NewRemainingToday = settings.NewCardsPerDay - gradedNewToday
	if stats.NewRemainingToday < 0 {
		stats.NewRemainingToday = 0
	}
	return queue, stats
}

func sortByCreation(candidates []QueueCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].Item.CreatedAt.Equal(candidates[j].Item.CreatedAt) {
			return candidates[i].Item.CreatedAt.Before(candidates[j].Item.CreatedAt)
		}
		return candidates[i].Item.ID < candidates[j].Item.ID
	})
}

func toQueueItem(c QueueCandidate) QueueItem {
	return QueueItem{
		ReviewItemID: c.Item.ID,
		CardID:       c.Item.CardID,
		Direction:    c.Item.Direction,
		State:        c.Item.State,
		Category:     c.Category,
		DueDate:      c.Item.DueDate,
		Front:        c.Front,
		Back:         c.Back,
	}
}
