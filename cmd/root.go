package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/regimenhq/regimen/internal/utils"
)

var cfgFile string

const (
	LOGO = `	                 _
	 _ __ ___  __ _(_)_ __ ___   ___ _ __
	| '__/ _ \/ _` + "`" + ` | | '_ ` + "`" + ` _ \ / _ \ '_ \
	| | |  __/ (_| | | | | | | |  __/ | | |
	|_|  \___|\__, |_|_| |_| |_|\___|_| |_|
	          |___/
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "regimen",
	Short: "A self-hosted tracker for your health protocol.",
	Long: LOGO + `regimen tracks your supplements, equipment, schedule and diet, and
keeps an immutable version history of every protocol change.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("loglevel")
		utils.SetLogLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.regimen.yaml)")

	// Global flags
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default from config, else ~/.regimen/regimen.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".regimen")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.regimen.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	viper.SetDefault("dbpath", "")
	viper.SetDefault("webhook_url", "")
	viper.SetDefault("listen", ":8080")
}

// resolveDBPath picks the database location: flag, then config, then
// ~/.regimen/regimen.sqlite (directory created on demand).
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("dbpath"); p != "" {
		return p, nil
	}
	if p := viper.GetString("dbpath"); p != "" {
		return p, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".regimen")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "regimen.sqlite"), nil
}
