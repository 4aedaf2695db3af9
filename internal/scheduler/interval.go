package scheduler

import "time"

// IntervalUnit tags an interval as minutes or days. Learning and relearning
// steps are minute-scale; review intervals are day-scale. Carrying the unit
// explicitly avoids unit confusion at the graduation boundary.
type IntervalUnit string

const (
	UnitMinutes IntervalUnit = "minutes"
	UnitDays    IntervalUnit = "days"
)

// Interval is a scheduling interval with an explicit unit.
type Interval struct {
	Amount float64
	Unit   IntervalUnit
}

// Minutes returns a minute-scale interval.
func Minutes(amount float64) Interval {
	return Interval{Amount: amount, Unit: UnitMinutes}
}

// Days returns a day-scale interval.
func Days(amount float64) Interval {
	return Interval{Amount: amount, Unit: UnitDays}
}

// Duration converts the interval to a time.Duration. A day counts as 24 hours.
func (iv Interval) Duration() time.Duration {
	switch iv.Unit {
	case UnitMinutes:
		return time.Duration(iv.Amount * float64(time.Minute))
	case UnitDays:
		return time.Duration(iv.Amount * 24 * float64(time.Hour))
	}
	return 0
}

// InDays returns the interval length expressed in days.
func (iv Interval) InDays() float64 {
	if iv.Unit == UnitMinutes {
		return iv.Amount / (24 * 60)
	}
	return iv.Amount
}
