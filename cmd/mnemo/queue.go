package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/review"
	"github.com/mnemo-app/mnemo/internal/scheduler"
	"github.com/mnemo-app/mnemo/internal/settings"
)

func newQueueCommand() *cobra.Command {
	var (
		userID   string
		all      bool
		extraNew int
	)

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the review queue for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			now := time.Now().UTC()

			userSettings, err := settings.NewDBRepository(db, cfg.Scheduler).Get(ctx, userID)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			candidates, err := review.NewDBItemRepository(db).FindQueueCandidates(ctx, userID)
			if err != nil {
				return fmt.Errorf("load queue candidates: %w", err)
			}

			year, month, day := now.Date()
			startOfDay := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			gradedNewToday, err := review.NewDBHistoryRepository(db).CountNewGradedSince(ctx, userID, startOfDay)
			if err != nil {
				return fmt.Errorf("count new items graded today: %w", err)
			}

			queue, stats := scheduler.BuildQueue(candidates, gradedNewToday, userSettings, now, scheduler.QueueOptions{
				All:      all,
				ExtraNew: extraNew,
			})
			printQueue(queue, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "default", "user to build the queue for")
	cmd.Flags().BoolVar(&all, "all", false, "show every item, ignoring due dates and the new-card quota")
	cmd.Flags().IntVar(&extraNew, "extra-new", 0, "allow additional new cards beyond the daily quota")
	return cmd
}

func printQueue(queue []scheduler.QueueItem, stats scheduler.QueueStats) {
	bold := color.New(color.Bold)
	newColor := color.New(color.FgGreen)
	dueColor := color.New(color.FgYellow)

	if _, err := bold.Printf("%d due, %d new (%d new remaining today)\n",
		stats.DueCount, stats.NewCount, stats.NewRemainingToday); err != nil {
		fmt.Printf("%d due, %d new (%d new remaining today)\n",
			stats.DueCount, stats.NewCount, stats.NewRemainingToday)
	}

	for _, item := range queue {
		label := dueColor
		if item.State == scheduler.StateNew {
			label = newColor
		}
		label.Printf("  [%s]", item.State)
		fmt.Printf(" %s", item.Front)
		if item.Category != "" {
			fmt.Printf(" (%s)", item.Category)
		}
		if item.State != scheduler.StateNew {
			fmt.Printf(" due %s", item.DueDate.Format(time.RFC3339))
		}
		fmt.Println()
	}
}
