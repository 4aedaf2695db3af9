package scheduler

import (
	"errors"
	"fmt"
	"slices"
)

// MinEaseFactor is the floor the ease factor never drops below.
const MinEaseFactor = 1.3

// ErrInvalidSettings is returned when settings fail construction-time
// validation. Malformed settings are rejected when an engine is built,
// never per scheduled review.
var ErrInvalidSettings = errors.New("invalid scheduler settings")

// Settings is the per-user scheduling configuration.
type Settings struct {
	// LearningSteps and RelearningSteps are ordered step lengths in minutes.
	LearningSteps   []int `db:"-" json:"learning_steps" mapstructure:"learning_steps"`
	RelearningSteps []int `db:"-" json:"relearning_steps" mapstructure:"relearning_steps"`

	// GraduatingInterval and EasyInterval are the first review intervals in
	// days after graduating with Good and Easy respectively.
	GraduatingInterval int `db:"graduating_interval" json:"graduating_interval" mapstructure:"graduating_interval"`
	EasyInterval       int `db:"easy_interval" json:"easy_interval" mapstructure:"easy_interval"`

	StartingEase     float64 `db:"starting_ease" json:"starting_ease" mapstructure:"starting_ease"`
	EasyBonus        float64 `db:"easy_bonus" json:"easy_bonus" mapstructure:"easy_bonus"`
	IntervalModifier float64 `db:"interval_modifier" json:"interval_modifier" mapstructure:"interval_modifier"`

	// MaximumInterval caps review intervals, in days.
	MaximumInterval int `db:"maximum_interval" json:"maximum_interval" mapstructure:"maximum_interval"`

	// LapseNewInterval is the percentage (0-100) of the pre-lapse interval
	// an item re-graduates with after relearning.
	LapseNewInterval int `db:"lapse_new_interval" json:"lapse_new_interval" mapstructure:"lapse_new_interval"`

	NewCardsPerDay int `db:"new_cards_per_day" json:"new_cards_per_day" mapstructure:"new_cards_per_day"`

	// DisabledCategories are card categories excluded from queue selection.
	DisabledCategories []string `db:"-" json:"disabled_categories" mapstructure:"disabled_categories"`
}

// DefaultSettings returns the settings used until a user customizes them.
func DefaultSettings() Settings {
	return Settings{
		LearningSteps:      []int{1, 10},
		RelearningSteps:    []int{10},
		GraduatingInterval: 1,
		EasyInterval:       4,
		StartingEase:       2.5,
		EasyBonus:          1.3,
		IntervalModifier:   1.0,
		MaximumInterval:    36500,
		LapseNewInterval:   70,
		NewCardsPerDay:     20,
	}
}

// Validate checks the invariants the scheduling engine relies on.
func (s Settings) Validate() error {
	if len(s.LearningSteps) == 0 {
		return fmt.Errorf("%w: learning_steps must not be empty", ErrInvalidSettings)
	}
	if len(s.RelearningSteps) == 0 {
		return fmt.Errorf("%w: relearning_steps must not be empty", ErrInvalidSettings)
	}
	for _, step := range s.LearningSteps {
		if step <= 0 {
			return fmt.Errorf("%w: learning step %d must be positive minutes", ErrInvalidSettings, step)
		}
	}
	for _, step := range s.RelearningSteps {
		if step <= 0 {
			return fmt.Errorf("%w: relearning step %d must be positive minutes", ErrInvalidSettings, step)
		}
	}
	if s.StartingEase < MinEaseFactor {
		return fmt.Errorf("%w: starting_ease %.2f is below %.1f", ErrInvalidSettings, s.StartingEase, MinEaseFactor)
	}
	if s.GraduatingInterval < 1 {
		return fmt.Errorf("%w: graduating_interval %d must be at least 1 day", ErrInvalidSettings, s.GraduatingInterval)
	}
	if s.EasyInterval < 1 {
		return fmt.Errorf("%w: easy_interval %d must be at least 1 day", ErrInvalidSettings, s.EasyInterval)
	}
	if s.EasyBonus <= 0 {
		return fmt.Errorf("%w: easy_bonus %.2f must be positive", ErrInvalidSettings, s.EasyBonus)
	}
	if s.IntervalModifier <= 0 {
		return fmt.Errorf("%w: interval_modifier %.2f must be positive", ErrInvalidSettings, s.IntervalModifier)
	}
	if s.MaximumInterval < 1 {
		return fmt.Errorf("%w: maximum_interval %d must be at least 1 day", ErrInvalidSettings, s.MaximumInterval)
	}
	if s.LapseNewInterval < 0 || s.LapseNewInterval > 100 {
		return fmt.Errorf("%w: lapse_new_interval %d must be between 0 and 100", ErrInvalidSettings, s.LapseNewInterval)
	}
	if s.NewCardsPerDay < 0 {
		return fmt.Errorf("%w: new_cards_per_day %d must not be negative", ErrInvalidSettings, s.NewCardsPerDay)
	}
	return nil
}

// CategoryDisabled reports whether cards in the category are excluded from
// queue selection.
func (s Settings) CategoryDisabled(category string) bool {
	return slices.Contains(s.DisabledCategories, category)
}
