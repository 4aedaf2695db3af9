package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mnemo-app/mnemo/internal/scheduler"
)

var (
	// ErrNotFound is returned when a review item does not exist or belongs
	// to another user.
	ErrNotFound = errors.New("review item not found")

	// ErrConflict is returned when a conditional update loses against a
	// concurrent grade of the same item. The caller should re-read the item
	// and retry; grading must never silently overwrite.
	ErrConflict = errors.New("review item was modified concurrently")
)

// ItemRepository defines operations for managing review items.
type ItemRepository interface {
	FindByID(ctx context.Context, userID, id string) (*scheduler.ReviewItem, error)
	FindQueueCandidates(ctx context.Context, userID string) ([]scheduler.QueueCandidate, error)
	UpdateScheduled(ctx context.Context, item scheduler.ReviewItem, prevState scheduler.State, prevDue time.Time) error
}

// HistoryRepository defines operations for the append-only review history.
type HistoryRepository interface {
	Append(ctx context.Context, record *HistoryRecord) error
	CountNewGradedSince(ctx context.Context, userID string, since time.Time) (int, error)
	FindAllByUser(ctx context.Context, userID string) ([]HistoryRecord, error)
}

// DBItemRepository implements ItemRepository using MySQL.
type DBItemRepository struct {
	db *sqlx.DB
}

var _ ItemRepository = (*DBItemRepository)(nil)

// NewDBItemRepository creates a new DBItemRepository.
func NewDBItemRepository(db *sqlx.DB) *DBItemRepository {
	return &DBItemRepository{db: db}
}

// FindByID returns the user's review item with the given ID.
func (r *DBItemRepository) FindByID(ctx context.Context, userID, id string) (*scheduler.ReviewItem, error) {
	var item scheduler.ReviewItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM review_items WHERE id = ? AND user_id = ?", id, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load review item(%s): %w", id, err)
	}
	return &item, nil
}

// queueCandidateRow joins a review item with its card's display data.
type queueCandidateRow struct {
	scheduler.ReviewItem
	Category string `db:"category"`
	Front    string `db:"front"`
	Back     string `db:"back"`
}

// FindQueueCandidates returns all of the user's review items joined with
// the denormalized card text the queue needs. The reverse item of a card
// shows the back first.
func (r *DBItemRepository) FindQueueCandidates(ctx context.Context, userID string) ([]scheduler.QueueCandidate, error) {
	var rows []queueCandidateRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT i.*, c.category, c.front, c.back
		 FROM review_items i
		 JOIN cards c ON c.id = i.card_id
		 WHERE i.user_id = ?
		 ORDER BY i.created_at, i.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load queue candidates: %w", err)
	}

	candidates := make([]scheduler.QueueCandidate, 0, len(rows))
	for _, row := range rows {
		front, back := row.Front, row.Back
		if row.Direction == scheduler.DirectionReverse {
			front, back = back, front
		}
		candidates = append(candidates, scheduler.QueueCandidate{
			Item:     row.ReviewItem,
			Category: row.Category,
			Front:    front,
			Back:     back,
		})
	}
	return candidates, nil
}

// UpdateScheduled persists a scheduling result with an optimistic condition
// on the state and due date the caller last read. Zero affected rows means
// a concurrent grade won; the caller gets ErrConflict and may retry after
// re-reading.
func (r *DBItemRepository) UpdateScheduled(ctx context.Context, item scheduler.ReviewItem, prevState scheduler.State, prevDue time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE review_items
		 SET state = ?, interval_amount = ?, interval_unit = ?, ease_factor = ?,
		     repetitions = ?, step_index = ?, lapse_interval = ?, due_date = ?, last_reviewed = ?
		 WHERE id = ? AND user_id = ? AND state = ? AND due_date = ?`,
		string(item.State), item.IntervalAmount, string(item.IntervalUnit), item.EaseFactor,
		item.Repetitions, item.StepIndex, item.LapseInterval, item.DueDate, item.LastReviewed,
		item.ID, item.UserID, string(prevState), prevDue,
	)
	if err != nil {
		return fmt.Errorf("update review item(%s): %w", item.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review item(%s): rows affected: %w", item.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrConflict, item.ID)
	}
	return nil
}

// DBHistoryRepository implements HistoryRepository using MySQL.
type DBHistoryRepository struct {
	db *sqlx.DB
}

var _ HistoryRepository = (*DBHistoryRepository)(nil)

// NewDBHistoryRepository creates a new DBHistoryRepository.
func NewDBHistoryRepository(db *sqlx.DB) *DBHistoryRepository {
	return &DBHistoryRepository{db: db}
}

// Append inserts one history record. Records are never updated or deleted
// individually; they only disappear together with their card.
func (r *DBHistoryRepository) Append(ctx context.Context, record *HistoryRecord) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO review_history
		 (review_item_id, user_id, grade, duration_ms, before_state, before_interval, before_ease,
		  after_state, after_interval, after_ease, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ReviewItemID, record.UserID, int(record.Grade), record.DurationMs,
		string(record.BeforeState), record.BeforeInterval, record.BeforeEase,
		string(record.AfterState), record.AfterInterval, record.AfterEase, record.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review history: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert review history: last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// CountNewGradedSince returns how many distinct new items the user graded
// since the given time. This feeds the daily new-card quota.
func (r *DBHistoryRepository) CountNewGradedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(DISTINCT review_item_id) FROM review_history
		 WHERE user_id = ? AND before_state = ? AND reviewed_at >= ?`,
		userID, string(scheduler.StateNew), since,
	)
	if err != nil {
		return 0, fmt.Errorf("count new graded since %s: %w", since, err)
	}
	return count, nil
}

// FindAllByUser returns the user's full review history, oldest first.
func (r *DBHistoryRepository) FindAllByUser(ctx context.Context, userID string) ([]HistoryRecord, error) {
	var records []HistoryRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM review_history WHERE user_id = ? ORDER BY reviewed_at, id", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load review history: %w", err)
	}
	return records, nil
}
