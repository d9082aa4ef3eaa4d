package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regimenhq/regimen/pkg/storage"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Show recent routine versions for a user (default 20)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")
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

		versions, err := db.ListVersions(context.Background(), userID, limit, 0)
		if err != nil {
			return err
		}
		for _, v := range versions {
			ts := v.CreatedAt.Format("2006-01-02 15:04:05")
			fmt.Printf("v%-4d %s  +%d -%d ~%d", v.VersionNumber, ts,
				len(v.Changes.Started), len(v.Changes.Stopped), len(v.Changes.Modified))
			if v.Changes.DietChanged != nil {
				fmt.Printf("  diet %v->%v", v.Changes.DietChanged.From, v.Changes.DietChanged.To)
			}
			if v.Reason != "" {
				fmt.Printf("  (%s)", v.Reason)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.Flags().String("user", "", "User id")
	versionsCmd.Flags().Int("limit", 20, "Number of versions to show")
}
