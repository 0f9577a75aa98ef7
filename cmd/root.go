package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldlog/geoverify/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geoverify",
	Short: "Geotagged attendance verification",
	Long:  "Checks survey attendance exports against a site registry: each geotagged submission is classified by its distance from the claimed site and rolled up into student, site, and review reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
