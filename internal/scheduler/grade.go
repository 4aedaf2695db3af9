package scheduler

import "fmt"

// Grade is the user's self-assessment of recall quality for one review.
//
// The numeric values are part of the wire format and of persisted review
// history. Value 1 is reserved from an earlier grading scale and is not a
// valid grade.
type Grade int

const (
	GradeAgain Grade = 0
	GradeHard  Grade = 2
	GradeGood  Grade = 3
	GradeEasy  Grade = 4
)

// IsValid reports whether g is one of the accepted grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}

// String returns a human-readable name for logging and statistics.
func (g Grade) String() string {
	switch g {
	case GradeAgain:
		return "again"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	}
	return fmt.Sprintf("grade(%d)", int(g))
}
