package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/engage-cli/internal/config"
)

var cfg *config.Config

var (
	flagActivity      string
	flagFirmographics string
	flagContacts      string
)

var rootCmd = &cobra.Command{
	Use:   "engage-cli",
	Short: "Account engagement exploration pipeline",
	Long:  "Loads activity, firmographic, and contact sources, joins them on customer identifiers, and serves filtered engagement views.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if flagActivity != "" {
			cfg.Sources.Activity = flagActivity
		}
		if flagFirmographics != "" {
			cfg.Sources.Firmographics = flagFirmographics
		}
		if flagContacts != "" {
			cfg.Sources.Contacts = flagContacts
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagActivity, "activity", "", "activity source path or URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagFirmographics, "firmographics", "", "firmographic source path or URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagContacts, "contacts", "", "contact source path or URL (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
