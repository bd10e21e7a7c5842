package main

import (
	"github.com/ewagner/gridbatch/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gridbatch",
	Short: "Transform battery fleet measurement snapshots into grid datasets",
	Long: `GridBatch is a CLI tool that processes periodic energy-measurement snapshots.
It cleans raw device readings and derives hourly grid totals with peak
feed-in detection plus per-device lifetime summaries.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}
