package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/review"
	"github.com/mnemo-app/mnemo/internal/stats"
)

func newStatsCommand() *cobra.Command {
	var (
		userID string
		year   int
		month  int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review statistics per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year")
			}

			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := review.NewDBHistoryRepository(db).FindAllByUser(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("load review history: %w", err)
			}

			printStatistics(stats.Calculate(records, year, month))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "default", "user to show statistics for")
	cmd.Flags().IntVar(&year, "year", 0, "restrict to a year")
	cmd.Flags().IntVar(&month, "month", 0, "restrict to a month (requires --year)")
	return cmd
}

func printStatistics(result stats.Result) {
	bold := color.New(color.Bold)

	for _, period := range result.Periods {
		bold.Println(period.Period)
		fmt.Printf("  reviews: %d (unique items: %d)\n", period.Reviews, period.UniqueItems)
		fmt.Printf("  new studied: %d, graduations: %d, lapses: %d\n",
			period.NewStudied, period.Graduations, period.Lapses)
	}

	bold.Println("total")
	fmt.Printf("  reviews: %d (unique items: %d)\n", result.Aggregate.Reviews, result.Aggregate.UniqueItems)
	fmt.Printf("  new studied: %d, graduations: %d, lapses: %d\n",
		result.Aggregate.NewStudied, result.Aggregate.Graduations, result.Aggregate.Lapses)
}
