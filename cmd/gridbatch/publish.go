package main

import (
	"fmt"
	"time"

	"github.com/ewagner/gridbatch/internal/pipeline"
	"github.com/ewagner/gridbatch/internal/publisher"
	"github.com/spf13/cobra"
)

var (
	publishOutputDir string
	publishLimit     int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish device summaries to MQTT",
	Long:  `Reads the device-summary output of the last run and publishes each device's lifetime totals to the configured MQTT broker.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishOutputDir, "output-dir", "", "Directory containing the output files (overrides config)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of devices to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if publishOutputDir != "" {
		cfg.OutputDir = publishOutputDir
	}

	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	delimiter, err := cfg.GetDelimiter()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	devices, err := pipeline.ReadDevicesFile(cfg.DevicesPath(), delimiter)
	if err != nil {
		return fmt.Errorf("loading device output: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No device summaries to publish")
		return nil
	}

	if publishLimit > 0 && len(devices) > publishLimit {
		devices = devices[:publishLimit]
		fmt.Printf("Limiting to %d devices (--limit flag)\n", publishLimit)
	}

	// Create publisher
	pub, err := publisher.New(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	fmt.Printf("Publishing %d device summaries...\n", len(devices))
	published := 0
	for i, device := range devices {
		fmt.Printf("[%d/%d] Publishing %s (%.2f purchase)... ", i+1, len(devices), device.Serial, device.GridPurchaseTotal)
		if err := pub.PublishDeviceSummary(device); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		fmt.Printf("✓\n")
		published++
	}

	if err := pub.PublishRunSummary(published); err != nil {
		fmt.Printf("Warning: failed to publish run summary: %v\n", err)
	}

	fmt.Printf("\nTotal devices published: %d/%d\n", published, len(devices))
	return nil
}
