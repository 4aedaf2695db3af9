// Package card provides flashcard storage.
package card

import "time"

// Card is one flashcard. Its scheduling state lives in the two review
// items (forward and reverse) created together with it.
type Card struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Front     string    `db:"front"`
	Back      string    `db:"back"`
	Category  string    `db:"category"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
