// Package review provides review item and review history storage.
package review

import (
	"time"

	"github.com/mnemo-app/mnemo/internal/scheduler"
)

// HistoryRecord is one immutable entry of a user's review history,
// appended per submitted grade. The before/after snapshot makes grading
// auditable and lets the caller compute "new items graded today" without
// replaying the scheduler. Intervals are stored in days.
type HistoryRecord struct {
	ID             int64           `db:"id"`
	ReviewItemID   string          `db:"review_item_id"`
	UserID         string          `db:"user_id"`
	Grade          scheduler.Grade `db:"grade"`
	DurationMs     int             `db:"duration_ms"`
	BeforeState    scheduler.State `db:"before_state"`
	BeforeInterval float64         `db:"before_interval"`
	BeforeEase     float64         `db:"before_ease"`
	AfterState     scheduler.State `db:"after_state"`
	AfterInterval  float64         `db:"after_interval"`
	AfterEase      float64         `db:"after_ease"`
	ReviewedAt     time.Time       `db:"reviewed_at"`
	CreatedAt      time.Time       `db:"created_at"`
}
