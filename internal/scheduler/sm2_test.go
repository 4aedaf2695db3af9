package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.LearningSteps = []int{1, 10}
	s.RelearningSteps = []int{10}
	s.GraduatingInterval = 1
	s.EasyInterval = 4
	s.StartingEase = 2.5
	s.IntervalModifier = 1.0
	return s
}

func TestNewSM2(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{
			name:   "valid settings",
			mutate: func(s *Settings) {},
		},
		{
			name:    "empty learning steps",
			mutate:  func(s *Settings) { s.LearningSteps = nil },
			wantErr: true,
		},
		{
			name:    "empty relearning steps",
			mutate:  func(s *Settings) { s.RelearningSteps = []int{} },
			wantErr: true,
		},
		{
			name:    "starting ease below floor",
			mutate:  func(s *Settings) { s.StartingEase = 1.2 },
			wantErr: true,
		},
		{
			name:    "negative lapse new interval",
			mutate:  func(s *Settings) { s.LapseNewInterval = -1 },
			wantErr: true,
		},
		{
			name:    "zero interval modifier",
			mutate:  func(s *Settings) { s.IntervalModifier = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			tt.mutate(&settings)

			engine, err := NewSM2(settings)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, engine)
		})
	}
}

func TestSM2_Schedule_InvalidGrade(t *testing.T) {
	engine, err := NewSM2(testSettings())
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for _, grade := range []Grade{-1, 1, 5, 10} {
		_, err := engine.Schedule(ReviewItem{State: StateNew}, grade, now)
		assert.ErrorIs(t, err, ErrInvalidGrade, "grade %d", grade)
	}
}

func TestSM2_Schedule_LearningTransitions(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		item          ReviewItem
		grade         Grade
		wantState     State
		wantStepIndex int
		wantInterval  Interval
		wantEase      float64
		wantReps      int
		wantDue       time.Time
	}{
		{
			name:          "new item graded again stays at first step",
			item:          ReviewItem{State: StateNew},
			grade:         GradeAgain,
			wantState:     StateLearning,
			wantStepIndex: 0,
			wantInterval:  Minutes(1),
			wantDue:       now.Add(time.Minute),
		},
		{
			name:          "new item graded hard repeats first step",
			item:          ReviewItem{State: StateNew},
			grade:         GradeHard,
			wantState:     StateLearning,
			wantStepIndex: 0,
			wantInterval:  Minutes(1),
			wantDue:       now.Add(time.Minute),
		},
		{
			name:          "new item graded good advances to second step",
			item:          ReviewItem{State: StateNew},
			grade:         GradeGood,
			wantState:     StateLearning,
			wantStepIndex: 1,
			wantInterval:  Minutes(10),
			wantDue:       now.Add(10 * time.Minute),
		},
		{
			name:          "good on last step graduates",
			item:          ReviewItem{State: StateLearning, StepIndex: 1},
			grade:         GradeGood,
			wantState:     StateReview,
			wantInterval:  Days(1),
			wantEase:      2.5,
			wantReps:      1,
			wantDue:       now.Add(24 * time.Hour),
		},
		{
			name:          "hard mid-learning repeats the current step",
			item:          ReviewItem{State: StateLearning, StepIndex: 1},
			grade:         GradeHard,
			wantState:     StateLearning,
			wantStepIndex: 1,
			wantInterval:  Minutes(10),
			wantDue:       now.Add(10 * time.Minute),
		},
		{
			name:          "again mid-learning resets to first step",
			item:          ReviewItem{State: StateLearning, StepIndex: 1},
			grade:         GradeAgain,
			wantState:     StateLearning,
			wantStepIndex: 0,
			wantInterval:  Minutes(1),
			wantDue:       now.Add(time.Minute),
		},
		{
			name:         "easy graduates immediately from first step",
			item:         ReviewItem{State: StateNew},
			grade:        GradeEasy,
			wantState:    StateReview,
			wantInterval: Days(4),
			wantEase:     2.5,
			wantReps:     1,
			wantDue:      now.Add(4 * 24 * time.Hour),
		},
	}

	engine, err := NewSM2(testSettings())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Schedule(tt.item, tt.grade, now)
			require.NoError(t, err)

			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantStepIndex, got.StepIndex)
			assert.Equal(t, tt.wantInterval, got.Interval)
			assert.Equal(t, tt.wantReps, got.Repetitions)
			assert.True(t, got.DueDate.Equal(tt.wantDue), "due date %s, want %s", got.DueDate, tt.wantDue)
			if tt.wantEase != 0 {
				assert.InDelta(t, tt.wantEase, got.EaseFactor, 0.001)
			}
		})
	}
}

// Two consecutive Good grades walk a fresh item through both learning steps
// into review.
func TestSM2_Schedule_GraduationScenario(t *testing.T) {
	engine, err := NewSM2(testSettings())
	require.NoError(t, err)

	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	item := ReviewItem{ID: "item-1", State: StateNew}

	first, err := engine.Schedule(item, GradeGood, start)
	require.NoError(t, err)
	assert.Equal(t, StateLearning, first.State)
	assert.Equal(t, 1, first.StepIndex)
	assert.True(t, first.DueDate.Equal(start.Add(10*time.Minute)))

	item.Apply(first, start)

	second, err := engine.Schedule(item, GradeGood, item.DueDate)
	require.NoError(t, err)
	assert.Equal(t, StateReview, second.State)
	assert.Equal(t, Days(1), second.Interval)
	assert.InDelta(t, 2.5, second.EaseFactor, 0.001)
	assert.Equal(t, 1, second.Repetitions)
	assert.True(t, second.DueDate.Equal(start.Add(10*time.Minute).Add(24*time.Hour)))
}

func TestSM2_Schedule_ReviewTransitions(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	reviewItem := func(days float64, ease float64) ReviewItem {
		return ReviewItem{
			State:          StateReview,
			IntervalAmount: days,
			IntervalUnit:   UnitDays,
			EaseFactor:     ease,
			Repetitions:    3,
		}
	}

	tests := []struct {
		name         string
		item         ReviewItem
		grade        Grade
		wantState    State
		wantInterval Interval
		wantEase     float64
		wantReps     int
		wantDue      time.Time
	}{
		{
			name:         "good multiplies interval by ease",
			item:         reviewItem(10, 2.5),
			grade:        GradeGood,
			wantState:    StateReview,
			wantInterval: Days(25),
			wantEase:     2.5,
			wantReps:     4,
			wantDue:      now.Add(25 * 24 * time.Hour),
		},
		{
			name:         "hard grows interval slowly and docks ease",
			item:         reviewItem(10, 2.5),
			grade:        GradeHard,
			wantState:    StateReview,
			wantInterval: Days(12),
			wantEase:     2.35,
			wantReps:     3,
			wantDue:      now.Add(12 * 24 * time.Hour),
		},
		{
			name:         "easy raises ease and applies the bonus",
			item:         reviewItem(10, 2.5),
			grade:        GradeEasy,
			wantState:    StateReview,
			wantInterval: Days(34), // round(10 * 2.65 * 1.3)
			wantEase:     2.65,
			wantReps:     4,
			wantDue:      now.Add(34 * 24 * time.Hour),
		},
		{
			name:         "again lapses into relearning",
			item:         reviewItem(10, 2.5),
			grade:        GradeAgain,
			wantState:    StateRelearning,
			wantInterval: Minutes(10),
			wantEase:     2.3,
			wantReps:     0,
			wantDue:      now.Add(10 * time.Minute),
		},
		{
			name:         "ease never drops below the floor on hard",
			item:         reviewItem(5, 1.3),
			grade:        GradeHard,
			wantState:    StateReview,
			wantInterval: Days(6),
			wantEase:     1.3,
			wantReps:     3,
			wantDue:      now.Add(6 * 24 * time.Hour),
		},
		{
			name:         "ease never drops below the floor on lapse",
			item:         reviewItem(5, 1.35),
			grade:        GradeAgain,
			wantState:    StateRelearning,
			wantInterval: Minutes(10),
			wantEase:     1.3,
			wantReps:     0,
			wantDue:      now.Add(10 * time.Minute),
		},
	}

	engine, err := NewSM2(testSettings())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Schedule(tt.item, tt.grade, now)
			require.NoError(t, err)

			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantInterval, got.Interval)
			assert.InDelta(t, tt.wantEase, got.EaseFactor, 0.001)
			assert.Equal(t, tt.wantReps, got.Repetitions)
			assert.True(t, got.DueDate.Equal(tt.wantDue), "due date %s, want %s", got.DueDate, tt.wantDue)
		})
	}
}

func TestSM2_Schedule_LapseRemembersInterval(t *testing.T) {
	engine, err := NewSM2(testSettings())
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	item := ReviewItem{
		ID:             "item-1",
		State:          StateReview,
		IntervalAmount: 10,
		IntervalUnit:   UnitDays,
		EaseFactor:     2.5,
		Repetitions:    5,
	}

	lapsed, err := engine.Schedule(item, GradeAgain, now)
	require.NoError(t, err)
	assert.Equal(t, StateRelearning, lapsed.State)
	assert.Equal(t, 0, lapsed.StepIndex)
	assert.InDelta(t, 10.0, lapsed.LapseInterval, 0.001)

	item.Apply(lapsed, now)

	// Good past the only relearning step re-graduates with 70% of the
	// pre-lapse interval and the docked ease factor.
	regraduated, err := engine.Schedule(item, GradeGood, item.DueDate)
	require.NoError(t, err)
	assert.Equal(t, StateReview, regraduated.State)
	assert.Equal(t, Days(7), regraduated.Interval)
	assert.InDelta(t, 2.3, regraduated.EaseFactor, 0.001)
	assert.Equal(t, 1, regraduated.Repetitions)
}

func TestSM2_Schedule_RelearningTransitions(t *testing.T) {
	settings := testSettings()
	settings.RelearningSteps = []int{5, 20}
	engine, err := NewSM2(settings)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	item := ReviewItem{
		State:          StateRelearning,
		StepIndex:      0,
		IntervalAmount: 5,
		IntervalUnit:   UnitMinutes,
		EaseFactor:     2.3,
		LapseInterval:  20,
	}

	t.Run("good advances to next relearning step", func(t *testing.T) {
		got, err := engine.Schedule(item, GradeGood, now)
		require.NoError(t, err)
		assert.Equal(t, StateRelearning, got.State)
		assert.Equal(t, 1, got.StepIndex)
		assert.Equal(t, Minutes(20), got.Interval)
	})

	t.Run("easy re-graduates from any step", func(t *testing.T) {
		got, err := engine.Schedule(item, GradeEasy, now)
		require.NoError(t, err)
		assert.Equal(t, StateReview, got.State)
		assert.Equal(t, Days(14), got.Interval) // round(20 * 0.7)
		assert.InDelta(t, 2.3, got.EaseFactor, 0.001)
	})

	t.Run("again resets to the first relearning step", func(t *testing.T) {
		midway := item
		midway.StepIndex = 1
		got, err := engine.Schedule(midway, GradeAgain, now)
		require.NoError(t, err)
		assert.Equal(t, StateRelearning, got.State)
		assert.Equal(t, 0, got.StepIndex)
		assert.Equal(t, Minutes(5), got.Interval)
	})

	t.Run("re-graduation interval never drops below one day", func(t *testing.T) {
		short := item
		short.LapseInterval = 1
		got, err := engine.Schedule(short, GradeEasy, now)
		require.NoError(t, err)
		assert.Equal(t, Days(1), got.Interval)
	})
}

// Exactly len(learning_steps) consecutive Good grades reach review from a
// fresh item, and the ease factor never drops below the floor for any
// state/grade combination.
func TestSM2_Schedule_Properties(t *testing.T) {
	settings := testSettings()
	settings.LearningSteps = []int{1, 10, 30}
	engine, err := NewSM2(settings)
	require.NoError(t, err)

	t.Run("good count to graduation equals step count", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		item := ReviewItem{ID: "item-1", State: StateNew}

		for i := 0; i < len(settings.LearningSteps); i++ {
			require.NotEqual(t, StateReview, item.State, "graduated after %d goods", i)
			res, err := engine.Schedule(item, GradeGood, now)
			require.NoError(t, err)
			item.Apply(res, now)
			now = res.DueDate
		}
		assert.Equal(t, StateReview, item.State)
	})

	t.Run("ease factor floor holds everywhere", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		states := []ReviewItem{
			{State: StateNew},
			{State: StateLearning, StepIndex: 1, EaseFactor: 1.3},
			{State: StateReview, IntervalAmount: 3, IntervalUnit: UnitDays, EaseFactor: 1.3},
			{State: StateRelearning, EaseFactor: 1.3, LapseInterval: 3},
		}
		for _, item := range states {
			for _, grade := range []Grade{GradeAgain, GradeHard, GradeGood, GradeEasy} {
				res, err := engine.Schedule(item, grade, now)
				require.NoError(t, err)
				if res.State == StateReview || item.State == StateReview {
					assert.GreaterOrEqual(t, res.EaseFactor, MinEaseFactor,
						"state %s grade %s", item.State, grade)
				}
			}
		}
	})

	t.Run("review intervals respect the maximum", func(t *testing.T) {
		capped := testSettings()
		capped.MaximumInterval = 30
		cappedEngine, err := NewSM2(capped)
		require.NoError(t, err)

		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		item := ReviewItem{
			State:          StateReview,
			IntervalAmount: 25,
			IntervalUnit:   UnitDays,
			EaseFactor:     2.5,
		}
		for _, grade := range []Grade{GradeHard, GradeGood, GradeEasy} {
			res, err := cappedEngine.Schedule(item, grade, now)
			require.NoError(t, err)
			assert.LessOrEqual(t, res.Interval.Amount, 30.0, "grade %s", grade)
			assert.GreaterOrEqual(t, res.Interval.Amount, 1.0, "grade %s", grade)
		}
	})

	t.Run("good interval grows monotonically for fixed ease", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		item := ReviewItem{
			State:          StateReview,
			IntervalAmount: 1,
			IntervalUnit:   UnitDays,
			EaseFactor:     2.0,
		}
		prev := item.IntervalAmount
		for i := 0; i < 10; i++ {
			res, err := engine.Schedule(item, GradeGood, now)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Interval.Amount, prev)
			prev = res.Interval.Amount
			item.Apply(res, now)
			item.EaseFactor = 2.0
			now = res.DueDate
		}
	})
}
