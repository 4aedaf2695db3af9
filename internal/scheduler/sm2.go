// Package scheduler implements the spaced-repetition core: an SM-2 style
// scheduling engine that maps one graded review to the item's next state
// and due time, and a queue builder that assembles a bounded daily review
// session under the new-card quota.
//
// Both are pure functions of their inputs. The engine never reads a clock
// and performs no I/O; callers inject "now" and persist the result.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidGrade is returned for a grade outside the accepted set.
var ErrInvalidGrade = errors.New("invalid grade")

// Engine decides the next scheduling state for one item and one grade.
// It is the seam for swapping the algorithm (e.g. FSRS instead of SM-2)
// without touching callers.
type Engine interface {
	Schedule(item ReviewItem, grade Grade, now time.Time) (Result, error)
}

// SM2 is the default Engine. It is stateless and safe for concurrent use;
// serializing concurrent grades of the same item is the caller's job.
type SM2 struct {
	settings Settings
}

var _ Engine = (*SM2)(nil)

// NewSM2 builds an SM-2 engine. Settings are validated here once; Schedule
// never fails on settings afterwards.
func NewSM2(settings Settings) (*SM2, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &SM2{settings: settings}, nil
}

// Schedule computes the item's next state, interval, ease factor and due
// date for the given grade. The input item is not mutated.
func (e *SM2) Schedule(item ReviewItem, grade Grade, now time.Time) (Result, error) {
	if !grade.IsValid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidGrade, int(grade))
	}

	var res Result
	switch item.State {
	case StateReview:
		res = e.scheduleReview(item, grade)
	case StateRelearning:
		res = e.scheduleSteps(item, grade, e.settings.RelearningSteps, e.regraduate(item))
	default:
		// A new item behaves as learning at step 0.
		res = e.scheduleSteps(item, grade, e.settings.LearningSteps, Result{})
	}

	res.DueDate = now.Add(res.Interval.Duration())
	return res, nil
}

// scheduleSteps advances an item through minute-scale steps. For learning
// items graduation targets are derived from settings; for relearning items
// the caller supplies the re-graduation result.
func (e *SM2) scheduleSteps(item ReviewItem, grade Grade, steps []int, regraduated Result) Result {
	relearning := item.State == StateRelearning

	stepIndex := item.StepIndex
	if item.State == StateNew {
		stepIndex = 0
	}
	if stepIndex >= len(steps) {
		// Settings may have shrunk since the item was last scheduled.
		stepIndex = len(steps) - 1
	}

	stepResult := func(index int) Result {
		state := StateLearning
		if relearning {
			state = StateRelearning
		}
		return Result{
			State:         state,
			Interval:      Minutes(float64(steps[index])),
			EaseFactor:    item.EaseFactor,
			Repetitions:   item.Repetitions,
			StepIndex:     index,
			LapseInterval: item.LapseInterval,
		}
	}

	switch grade {
	case GradeAgain:
		return stepResult(0)
	case GradeHard:
		return stepResult(stepIndex)
	case GradeGood:
		next := stepIndex + 1
		if next >= len(steps) {
			if relearning {
				return regraduated
			}
			return e.graduate(e.settings.GraduatingInterval)
		}
		return stepResult(next)
	default: // GradeEasy graduates immediately regardless of step.
		if relearning {
			return regraduated
		}
		return e.graduate(e.settings.EasyInterval)
	}
}

// graduate moves a learning item into review with a fresh ease factor.
func (e *SM2) graduate(intervalDays int) Result {
	return Result{
		State:       StateReview,
		Interval:    Days(float64(e.clampReviewDays(float64(intervalDays)))),
		EaseFactor:  e.settings.StartingEase,
		Repetitions: 1,
	}
}

// regraduate returns the result of leaving relearning: the lapse_new_interval
// percentage applies to the pre-lapse interval remembered at lapse time, and
// the ease factor docked at the lapse carries forward.
func (e *SM2) regraduate(item ReviewItem) Result {
	days := math.Round(item.LapseInterval * float64(e.settings.LapseNewInterval) / 100)
	return Result{
		State:       StateReview,
		Interval:    Days(float64(e.clampReviewDays(days))),
		EaseFactor:  item.EaseFactor,
		Repetitions: 1,
	}
}

func (e *SM2) scheduleReview(item ReviewItem, grade Grade) Result {
	prevDays := item.Interval().InDays()
	ease := item.EaseFactor
	modifier := e.settings.IntervalModifier

	switch grade {
	case GradeAgain:
		// Lapse: demote to relearning and remember the interval the item
		// held, so re-graduation can scale it by lapse_new_interval.
		return Result{
			State:         StateRelearning,
			Interval:      Minutes(float64(e.settings.RelearningSteps[0])),
			EaseFactor:    math.Max(MinEaseFactor, ease-0.20),
			Repetitions:   0,
			StepIndex:     0,
			LapseInterval: prevDays,
		}
	case GradeHard:
		return Result{
			State:       StateReview,
			Interval:    Days(float64(e.clampReviewDays(prevDays * 1.2 * modifier))),
			EaseFactor:  math.Max(MinEaseFactor, ease-0.15),
			Repetitions: item.Repetitions,
		}
	case GradeGood:
		return Result{
			State:       StateReview,
			Interval:    Days(float64(e.clampReviewDays(prevDays * ease * modifier))),
			EaseFactor:  ease,
			Repetitions: item.Repetitions + 1,
		}
	default: // GradeEasy
		ease += 0.15
		return Result{
			State:       StateReview,
			Interval:    Days(float64(e.clampReviewDays(prevDays * ease * e.settings.EasyBonus * modifier))),
			EaseFactor:  ease,
			Repetitions: item.Repetitions + 1,
		}
	}
}

// clampReviewDays rounds a review interval to whole days and clamps it to
// [1, maximum_interval]. Rounding to nearest keeps intervals monotonic for
// a fixed ease factor.
func (e *SM2) clampReviewDays(days float64) int {
	rounded := int(math.Round(days))
	if rounded < 1 {
		return 1
	}
	if rounded > e.settings.MaximumInterval {
		return e.settings.MaximumInterval
	}
	return rounded
}
