package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/datasync"
	"github.com/mnemo-app/mnemo/internal/review"
	"github.com/mnemo-app/mnemo/internal/scheduler"
)

func newExportCommand() *cobra.Command {
	var (
		userID    string
		outputDir string
		withPDF   bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cards, review state and history to YAML backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()

			cards, err := card.NewDBRepository(db).FindAllByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("load cards: %w", err)
			}
			candidates, err := review.NewDBItemRepository(db).FindQueueCandidates(ctx, userID)
			if err != nil {
				return fmt.Errorf("load review items: %w", err)
			}
			items := make([]scheduler.ReviewItem, len(candidates))
			for i, c := range candidates {
				items[i] = c.Item
			}
			records, err := review.NewDBHistoryRepository(db).FindAllByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("load review history: %w", err)
			}

			if err := datasync.NewYAMLCardSink(outputDir).WriteAll(cards); err != nil {
				return err
			}
			if err := datasync.NewYAMLItemSink(outputDir).WriteAll(items); err != nil {
				return err
			}
			if err := datasync.NewYAMLHistorySink(outputDir).WriteAll(records); err != nil {
				return err
			}
			fmt.Printf("exported %d cards, %d review items, %d history records to %s\n",
				len(cards), len(items), len(records), outputDir)

			if withPDF {
				pdfPath, err := datasync.WriteDeckSheet(cards, outputDir)
				if err != nil {
					return fmt.Errorf("write deck sheet: %w", err)
				}
				fmt.Printf("deck sheet: %s\n", pdfPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "default", "user to export")
	cmd.Flags().StringVar(&outputDir, "dir", "backup", "output directory")
	cmd.Flags().BoolVar(&withPDF, "pdf", false, "also render a printable deck sheet PDF")
	return cmd
}

func newImportCommand() *cobra.Command {
	var (
		userID string
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cards from a YAML backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			importer := datasync.NewImporter(card.NewDBRepository(db), cmd.OutOrStdout())
			result, err := importer.ImportCards(cmd.Context(), userID, file, datasync.ImportOptions{DryRun: dryRun})
			if err != nil {
				return err
			}
			fmt.Printf("imported %d cards, skipped %d\n", result.CardsNew, result.CardsSkipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "default", "user to import into")
	cmd.Flags().StringVar(&file, "file", "backup/cards.yml", "cards backup file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	return cmd
}
