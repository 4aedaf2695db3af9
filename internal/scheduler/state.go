package scheduler

// State is the learning stage of a review item.
type State string

const (
	StateNew        State = "new"
	StateLearning   State = "learning"
	StateReview     State = "review"
	StateRelearning State = "relearning"
)

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning:
		return true
	}
	return false
}

// InSteps reports whether the item is progressing through learning or
// relearning steps, i.e. whether its step index is meaningful.
func (s State) InSteps() bool {
	return s == StateLearning || s == StateRelearning
}

// Direction distinguishes the two review items a card yields at creation.
type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionReverse Direction = "reverse"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionForward || d == DirectionReverse
}
