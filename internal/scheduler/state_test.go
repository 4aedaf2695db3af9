package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_IsValid(t *testing.T) {
	for _, state := range []State{StateNew, StateLearning, StateReview, StateRelearning} {
		assert.True(t, state.IsValid(), state)
	}
	assert.False(t, State("graduated").IsValid())
	assert.False(t, State("").IsValid())
}

func TestState_InSteps(t *testing.T) {
	assert.False(t, StateNew.InSteps())
	assert.True(t, StateLearning.InSteps())
	assert.False(t, StateReview.InSteps())
	assert.True(t, StateRelearning.InSteps())
}

func TestDirection_IsValid(t *testing.T) {
	assert.True(t, DirectionForward.IsValid())
	assert.True(t, DirectionReverse.IsValid())
	assert.False(t, Direction("sideways").IsValid())
}

func TestGrade_IsValid(t *testing.T) {
	for _, grade := range []Grade{GradeAgain, GradeHard, GradeGood, GradeEasy} {
		assert.True(t, grade.IsValid(), grade)
	}
	// Value 1 is reserved from the old grading scale.
	assert.False(t, Grade(1).IsValid())
	assert.False(t, Grade(-1).IsValid())
	assert.False(t, Grade(5).IsValid())
}

func TestGrade_String(t *testing.T) {
	assert.Equal(t, "again", GradeAgain.String())
	assert.Equal(t, "easy", GradeEasy.String())
	assert.Equal(t, "grade(7)", Grade(7).String())
}
