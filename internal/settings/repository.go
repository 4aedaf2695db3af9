// Package settings provides per-user scheduler settings storage. Users
// without a stored row get the configured defaults.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mnemo-app/mnemo/internal/scheduler"
)

// Repository defines operations for managing per-user scheduler settings.
type Repository interface {
	Get(ctx context.Context, userID string) (scheduler.Settings, error)
	Put(ctx context.Context, userID string, settings scheduler.Settings) error
}

// row is the persisted shape: step lists as comma-separated minutes,
// disabled categories as a JSON array.
type row struct {
	UserID             string  `db:"user_id"`
	LearningSteps      string  `db:"learning_steps"`
	RelearningSteps    string  `db:"relearning_steps"`
	GraduatingInterval int     `db:"graduating_interval"`
	EasyInterval       int     `db:"easy_interval"`
	StartingEase       float64 `db:"starting_ease"`
	EasyBonus          float64 `db:"easy_bonus"`
	IntervalModifier   float64 `db:"interval_modifier"`
	MaximumInterval    int     `db:"maximum_interval"`
	LapseNewInterval   int     `db:"lapse_new_interval"`
	NewCardsPerDay     int     `db:"new_cards_per_day"`
	DisabledCategories *string `db:"disabled_categories"`
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db       *sqlx.DB
	defaults scheduler.Settings
}

var _ Repository = (*DBRepository)(nil)

// NewDBRepository creates a new DBRepository. The defaults are returned
// for users who have not customized their settings.
func NewDBRepository(db *sqlx.DB, defaults scheduler.Settings) *DBRepository {
	return &DBRepository{db: db, defaults: defaults}
}

// Get returns the user's settings, or the defaults when none are stored.
func (r *DBRepository) Get(ctx context.Context, userID string) (scheduler.Settings, error) {
	var stored row
	err := r.db.GetContext(ctx, &stored,
		`SELECT user_id, learning_steps, relearning_steps, graduating_interval, easy_interval,
		        starting_ease, easy_bonus, interval_modifier, maximum_interval,
		        lapse_new_interval, new_cards_per_day, disabled_categories
		 FROM user_settings WHERE user_id = ?`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r.defaults, nil
	}
	if err != nil {
		return scheduler.Settings{}, fmt.Errorf("load settings(%s): %w", userID, err)
	}
	return stored.toSettings()
}

// Put validates and upserts the user's settings.
func (r *DBRepository) Put(ctx context.Context, userID string, settings scheduler.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	var categories *string
	if settings.DisabledCategories != nil {
		encoded, err := json.Marshal(settings.DisabledCategories)
		if err != nil {
			return fmt.Errorf("encode disabled categories: %w", err)
		}
		s := string(encoded)
		categories = &s
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_settings
		 (user_id, learning_steps, relearning_steps, graduating_interval, easy_interval,
		  starting_ease, easy_bonus, interval_modifier, maximum_interval,
		  lapse_new_interval, new_cards_per_day, disabled_categories)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		  learning_steps = VALUES(learning_steps),
		  relearning_steps = VALUES(relearning_steps),
		  graduating_interval = VALUES(graduating_interval),
		  easy_interval = VALUES(easy_interval),
		  starting_ease = VALUES(starting_ease),
		  easy_bonus = VALUES(easy_bonus),
		  interval_modifier = VALUES(interval_modifier),
		  maximum_interval = VALUES(maximum_interval),
		  lapse_new_interval = VALUES(lapse_new_interval),
		  new_cards_per_day = VALUES(new_cards_per_day),
		  disabled_categories = VALUES(disabled_categories)`,
		userID, joinSteps(settings.LearningSteps), joinSteps(settings.RelearningSteps),
		settings.GraduatingInterval, settings.EasyInterval,
		settings.StartingEase, settings.EasyBonus, settings.IntervalModifier,
		settings.MaximumInterval, settings.LapseNewInterval, settings.NewCardsPerDay,
		categories,
	)
	if err != nil {
		return fmt.Errorf("save settings(%s): %w", userID, err)
	}
	return nil
}

func (stored row) toSettings() (scheduler.Settings, error) {
	learningSteps, err := parseSteps(stored.LearningSteps)
	if err != nil {
		return scheduler.Settings{}, fmt.Errorf("parse learning steps(%s): %w", stored.UserID, err)
	}
	relearningSteps, err := parseSteps(stored.RelearningSteps)
	if err != nil {
		return scheduler.Settings{}, fmt.Errorf("parse relearning steps(%s): %w", stored.UserID, err)
	}

	var categories []string
	if stored.DisabledCategories != nil && *stored.DisabledCategories != "" {
		if err := json.Unmarshal([]byte(*stored.DisabledCategories), &categories); err != nil {
			return scheduler.Settings{}, fmt.Errorf("parse disabled categories(%s): %w", stored.UserID, err)
		}
	}

	return scheduler.Settings{
		LearningSteps:      learningSteps,
		RelearningSteps:    relearningSteps,
		GraduatingInterval: stored.GraduatingInterval,
		EasyInterval:       stored.EasyInterval,
		StartingEase:       stored.StartingEase,
		EasyBonus:          stored.EasyBonus,
		IntervalModifier:   stored.IntervalModifier,
		MaximumInterval:    stored.MaximumInterval,
		LapseNewInterval:   stored.LapseNewInterval,
		NewCardsPerDay:     stored.NewCardsPerDay,
		DisabledCategories: categories,
	}, nil
}

func joinSteps(steps []int) string {
	parts := make([]string, len(steps))
	for i, step := range steps {
		parts[i] = strconv.Itoa(step)
	}
	return strings.Join(parts, ",")
}

func parseSteps(encoded string) ([]int, error) {
	if encoded == "" {
		return nil, nil
	}
	parts := strings.Split(encoded, ",")
	steps := make([]int, 0, len(parts))
	for _, part := range parts {
		step, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid step %q: %w", part, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
