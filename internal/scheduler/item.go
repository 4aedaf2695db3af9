package scheduler

import "time"

// ReviewItem is the scheduling state of one direction of a card.
//
// Every card yields exactly two review items (forward and reverse) at
// creation; they are scheduled independently and never share state. A
// review item is mutated only by applying an Engine result and is deleted
// only together with its card.
type ReviewItem struct {
	ID             string       `db:"id"`
	CardID         string       `db:"card_id"`
	UserID         string       `db:"user_id"`
	Direction      Direction    `db:"direction"`
	State          State        `db:"state"`
	IntervalAmount float64      `db:"interval_amount"`
	IntervalUnit   IntervalUnit `db:"interval_unit"`
	EaseFactor     float64      `db:"ease_factor"`
	Repetitions    int          `db:"repetitions"`
	StepIndex      int          `db:"step_index"`
	LapseInterval  float64      `db:"lapse_interval"`
	DueDate        time.Time    `db:"due_date"`
	LastReviewed   *time.Time   `db:"last_reviewed"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

// Interval returns the item's current interval with its unit tag.
func (i ReviewItem) Interval() Interval {
	return Interval{Amount: i.IntervalAmount, Unit: i.IntervalUnit}
}

// IsDue reports whether the item should appear in the review part of a
// queue at the given time. New items are introduced through the daily
// quota instead.
func (i ReviewItem) IsDue(now time.Time) bool {
	return i.State != StateNew && !i.DueDate.After(now)
}

// Result is the scheduling outcome for one graded review. It carries the
// fields of the review item that the engine is allowed to change.
type Result struct {
	State         State
	Interval      Interval
	EaseFactor    float64
	Repetitions   int
	StepIndex     int
	LapseInterval float64
	DueDate       time.Time
}

// Apply copies the result onto the item and records the review time.
func (i *ReviewItem) Apply(res Result, now time.Time) {
	i.State = res.State
	i.IntervalAmount = res.Interval.Amount
	i.IntervalUnit = res.Interval.Unit
	i.EaseFactor = res.EaseFactor
	i.Repetitions = res.Repetitions
	i.StepIndex = res.StepIndex
	i.LapseInterval = res.LapseInterval
	i.DueDate = res.DueDate
	reviewedAt := now
	i.LastReviewed = &reviewedAt
}
