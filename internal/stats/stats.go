// Package stats aggregates review history into per-period statistics.
package stats

import (
	"fmt"
	"sort"

	"github.com/mnemo-app/mnemo/internal/review"
	"github.com/mnemo-app/mnemo/internal/scheduler"
)

// PeriodStatistics holds review statistics for one month.
type PeriodStatistics struct {
	Period      string // "2025-01"
	Reviews     int    // graded reviews in the period
	NewStudied  int    // reviews of items that were still new
	Graduations int    // transitions into the review state
	Lapses      int    // review-state items graded again
	UniqueItems int    // distinct review items touched
}

// AggregateStatistics holds totals across all periods with global unique counts.
type AggregateStatistics struct {
	Reviews     int
	NewStudied  int
	Graduations int
	Lapses      int
	UniqueItems int // distinct review items, deduplicated across periods
}

// Result holds both per-period and aggregate statistics.
type Result struct {
	Periods   []PeriodStatistics
	Aggregate AggregateStatistics
}

// periodData tracks counts per period before unique sets are resolved.
type periodData struct {
	reviews     int
	newStudied  int
	graduations int
	lapses      int
	uniqueItems map[string]struct{}
}

// Calculate aggregates review history records into monthly statistics.
// Optional year and month filters restrict the range (0 means no filter).
func Calculate(records []review.HistoryRecord, year, month int) Result {
	periods := make(map[string]*periodData)
	globalUnique := make(map[string]struct{})
	var aggregate AggregateStatistics

	for _, record := range records {
		if record.ReviewedAt.IsZero() {
			continue
		}
		recordYear := record.ReviewedAt.Year()
		recordMonth := int(record.ReviewedAt.Month())
		if !matchesFilter(recordYear, recordMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", recordYear, recordMonth)
		data := periods[period]
		if data == nil {
			data = &periodData{uniqueItems: make(map[string]struct{})}
			periods[period] = data
		}

		data.reviews++
		aggregate.Reviews++
		data.uniqueItems[record.ReviewItemID] = struct{}{}
		globalUnique[record.ReviewItemID] = struct{}{}

		if record.BeforeState == scheduler.StateNew {
			data.newStudied++
			aggregate.NewStudied++
		}
		if record.AfterState == scheduler.StateReview && record.BeforeState != scheduler.StateReview {
			data.graduations++
			aggregate.Graduations++
		}
		if record.BeforeState == scheduler.StateReview && record.Grade == scheduler.GradeAgain {
			data.lapses++
			aggregate.Lapses++
		}
	}

	aggregate.UniqueItems = len(globalUnique)

	result := Result{Aggregate: aggregate}
	for period, data := range periods {
		result.Periods = append(result.Periods, PeriodStatistics{
			Period:      period,
			Reviews:     data.reviews,
			NewStudied:  data.newStudied,
			Graduations: data.graduations,
			Lapses:      data.lapses,
			UniqueItems: len(data.uniqueItems),
		})
	}
	sort.Slice(result.Periods, func(i, j int) bool {
		return result.Periods[i].Period < result.Periods[j].Period
	})
	return result
}

func matchesFilter(recordYear, recordMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if recordYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return recordMonth == filterMonth
}
