package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/regimenhq/regimen/internal/server"
	"github.com/regimenhq/regimen/pkg/notify"
	"github.com/regimenhq/regimen/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the regimen API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("listen")
		}
		webhookURL, _ := cmd.Flags().GetString("webhook")
		if webhookURL == "" {
			webhookURL = viper.GetString("webhook_url")
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		return server.New(db, notify.New(webhookURL)).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default :8080)")
	serveCmd.Flags().String("webhook", "", "Webhook URL notified when a new routine version is saved")
}
