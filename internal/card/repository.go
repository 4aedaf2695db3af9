package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mnemo-app/mnemo/internal/database"
	"github.com/mnemo-app/mnemo/internal/scheduler"
)

// ErrNotFound is returned when a card does not exist or belongs to
// another user.
var ErrNotFound = errors.New("card not found")

// Repository defines operations for managing cards.
type Repository interface {
	Create(ctx context.Context, card *Card) error
	FindByID(ctx context.Context, userID, id string) (*Card, error)
	FindAllByUser(ctx context.Context, userID string) ([]Card, error)
	Delete(ctx context.Context, userID, id string) error
	RenameCategory(ctx context.Context, userID, from, to string) (int64, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

var _ Repository = (*DBRepository)(nil)

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Create inserts the card together with its forward and reverse review
// items in one transaction. The two items are scheduled independently from
// the start and are deleted only with the card. Missing IDs are assigned.
func (r *DBRepository) Create(ctx context.Context, card *Card) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO cards (id, user_id, front, back, category, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			card.ID, card.UserID, card.Front, card.Back, card.Category, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert card: %w", err)
		}

		columns := []string{"id", "card_id", "user_id", "direction", "state", "interval_unit", "due_date", "created_at", "updated_at"}
		query := database.BuildMultiRowInsert("review_items", columns, 2)

		var args []interface{}
		for _, direction := range []scheduler.Direction{scheduler.DirectionForward, scheduler.DirectionReverse} {
			args = append(args,
				uuid.NewString(), card.ID, card.UserID, string(direction),
				string(scheduler.StateNew), string(scheduler.UnitMinutes), now, now, now,
			)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert review items: %w", err)
		}

		card.CreatedAt = now
		card.UpdatedAt = now
		return nil
	})
}

// FindByID returns the user's card with the given ID.
func (r *DBRepository) FindByID(ctx context.Context, userID, id string) (*Card, error) {
	var card Card
	err := r.db.GetContext(ctx, &card,
		"SELECT * FROM cards WHERE id = ? AND user_id = ?", id, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load card(%s): %w", id, err)
	}
	return &card, nil
}

// FindAllByUser returns the user's cards in creation order.
func (r *DBRepository) FindAllByUser(ctx context.Context, userID string) ([]Card, error) {
	var cards []Card
	err := r.db.SelectContext(ctx, &cards,
		"SELECT * FROM cards WHERE user_id = ? ORDER BY created_at, id", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	return cards, nil
}

// Delete removes the card; its review items follow via cascade and its
// review history is removed in the same transaction.
func (r *DBRepository) Delete(ctx context.Context, userID, id string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			"DELETE h FROM review_history h JOIN review_items i ON h.review_item_id = i.id WHERE i.card_id = ? AND i.user_id = ?",
			id, userID,
		)
		if err != nil {
			return fmt.Errorf("delete review history(%s): %w", id, err)
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM cards WHERE id = ? AND user_id = ?", id, userID,
		)
		if err != nil {
			return fmt.Errorf("delete card(%s): %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete card(%s): rows affected: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

// RenameCategory moves all of the user's cards from one category to
// another and returns the number of cards affected.
func (r *DBRepository) RenameCategory(ctx context.Context, userID, from, to string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE cards SET category = ? WHERE user_id = ? AND category = ?",
		to, userID, from,
	)
	if err != nil {
		return 0, fmt.Errorf("rename category(%s -> %s): %w", from, to, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rename category(%s -> %s): rows affected: %w", from, to, err)
	}
	return affected, nil
}
