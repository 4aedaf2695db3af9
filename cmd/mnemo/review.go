package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/client"
	"github.com/mnemo-app/mnemo/internal/scheduler"
)

func newReviewCommand() *cobra.Command {
	var (
		userID    string
		serverURL string
		extraNew  int
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run an interactive review session against a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := client.NewClient(serverURL, userID, 2)
			defer func() { _ = apiClient.Close() }()

			ctx := cmd.Context()
			queue, err := apiClient.GetQueue(ctx, false, extraNew)
			if err != nil {
				return fmt.Errorf("fetch queue: %w", err)
			}
			if len(queue.Queue) == 0 {
				fmt.Println("nothing to review right now")
				return nil
			}

			bold := color.New(color.Bold)
			bold.Printf("%d due, %d new (%d new remaining today)\n\n",
				queue.Stats.DueCount, queue.Stats.NewCount, queue.Stats.NewRemainingToday)

			reader := bufio.NewReader(os.Stdin)
			for i, item := range queue.Queue {
				fmt.Printf("[%d/%d] ", i+1, len(queue.Queue))
				color.New(color.FgCyan).Println(item.Front)
				fmt.Print("press enter to reveal... ")
				if _, err := reader.ReadString('\n'); err != nil {
					return nil
				}
				started := time.Now()

				color.New(color.FgGreen).Printf("  %s\n", item.Back)

				grade, quit := promptGrade(reader)
				if quit {
					fmt.Println("session stopped")
					return nil
				}

				result, err := apiClient.SubmitGrade(ctx, client.GradeRequest{
					ReviewItemID: item.ReviewItemID,
					Grade:        int(grade),
					DurationMs:   int(time.Since(started).Milliseconds()),
				})
				if err != nil {
					return fmt.Errorf("submit grade: %w", err)
				}
				fmt.Printf("  -> %s, next review %s\n\n", result.State, result.NextReview)
			}

			fmt.Println("session complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "default", "user to review as")
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "API server base URL")
	cmd.Flags().IntVar(&extraNew, "extra-new", 0, "allow additional new cards beyond the daily quota")
	return cmd
}

// promptGrade reads a grade from stdin until it gets a valid one.
// q stops the session.
func promptGrade(reader *bufio.Reader) (scheduler.Grade, bool) {
	for {
		fmt.Print("grade [0=again 2=hard 3=good 4=easy q=quit]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, true
		}
		switch strings.TrimSpace(line) {
		case "q":
			return 0, true
		case "0":
			return scheduler.GradeAgain, false
		case "2":
			return scheduler.GradeHard, false
		case "3":
			return scheduler.GradeGood, false
		case "4":
			return scheduler.GradeEasy, false
		}
		fmt.Println("invalid grade")
	}
}
