package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regimenhq/regimen/pkg/importer"
	"github.com/regimenhq/regimen/pkg/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <export.json>",
	Short: "Import a JSON export (supplements, equipment, schedule items, diet)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			return fmt.Errorf("--user is required")
		}
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		summary, err := importer.ImportFile(context.Background(), db, userID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("supplements: %d\nequipment: %d\nschedule items: %d\nskipped: %d\n",
			summary.Supplements, summary.Equipment, summary.ScheduleItems, summary.Skipped)
		if summary.DietApplied {
			fmt.Println("diet settings applied")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("user", "", "User id to import into")
}
