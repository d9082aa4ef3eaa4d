package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regimenhq/regimen/pkg/storage"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and API tokens",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a user and print their id and first API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		u, err := db.CreateUser(ctx, args[0])
		if err != nil {
			return err
		}
		token, err := db.CreateToken(ctx, u.ID)
		if err != nil {
			return err
		}
		fmt.Printf("user:  %s\ntoken: %s\n", u.ID, token)
		return nil
	},
}

var userTokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint an additional API token for an existing user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		token, err := db.CreateToken(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userTokenCmd)
}
