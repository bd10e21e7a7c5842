package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ewagner/gridbatch/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	inspectOutputDir string
	inspectTop       int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the outputs of the last pipeline run",
	Long:  `Reads back the hourly and device output files and displays per-date peak feed-in hours and the top devices by grid purchase.`,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectOutputDir, "output-dir", "", "Directory containing the output files (overrides config)")
	inspectCmd.Flags().IntVar(&inspectTop, "top", 10, "Number of devices to display")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if inspectOutputDir != "" {
		cfg.OutputDir = inspectOutputDir
	}

	delimiter, err := cfg.GetDelimiter()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	hourly, err := pipeline.ReadHourlyFile(cfg.HourlyPath(), delimiter)
	if err != nil {
		return fmt.Errorf("loading hourly output: %w", err)
	}

	devices, err := pipeline.ReadDevicesFile(cfg.DevicesPath(), delimiter)
	if err != nil {
		return fmt.Errorf("loading device output: %w", err)
	}

	fmt.Printf("\nPeak Feed-in Hours (%s buckets):\n", humanize.Comma(int64(len(hourly))))
	fmt.Println("----------------------------------------")
	fmt.Printf("%-12s  %5s  %15s\n", "Date", "Hour", "Feed-in Total")
	fmt.Println("----------------------------------------")
	peaks := 0
	for _, b := range hourly {
		if !b.IsPeakFeedinHour {
			continue
		}
		fmt.Printf("%-12s  %5d  %15.2f\n", b.Date, b.Hour, b.GridFeedinTotal)
		peaks++
	}
	if peaks == 0 {
		fmt.Println("No peak hours found")
	}

	fmt.Printf("\nTop Devices by Grid Purchase (%s total):\n", humanize.Comma(int64(len(devices))))
	fmt.Println("----------------------------------------")
	fmt.Printf("%-20s  %12s  %12s\n", "Serial", "Purchase", "Feed-in")
	fmt.Println("----------------------------------------")
	shown := devices
	if inspectTop > 0 && len(shown) > inspectTop {
		shown = shown[:inspectTop]
	}
	for _, d := range shown {
		fmt.Printf("%-20s  %12.2f  %12.2f\n", d.Serial, d.GridPurchaseTotal, d.GridFeedinTotal)
	}
	if len(shown) < len(devices) {
		fmt.Printf("... and %s more\n", humanize.Comma(int64(len(devices)-len(shown))))
	}

	return nil
}
