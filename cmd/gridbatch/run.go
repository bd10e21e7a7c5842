package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ewagner/gridbatch/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	runInput     string
	runOutputDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process one input snapshot into the three output datasets",
	Long: `Reads a delimited measurement snapshot, cleans it, and writes the cleaned
records, the hourly grid totals with peak feed-in flags, and the per-device
summaries. Either all three outputs are published or none are.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "Input snapshot file (overrides config)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "Directory for output files (overrides config)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Pipeline run started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if runInput != "" {
		cfg.Input = runInput
	}
	if runOutputDir != "" {
		cfg.OutputDir = runOutputDir
	}

	delimiter, err := cfg.GetDelimiter()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	paths := pipeline.OutputPaths{
		Cleaned: cfg.CleanedPath(),
		Hourly:  cfg.HourlyPath(),
		Devices: cfg.DevicesPath(),
	}

	fmt.Printf("Processing %s...\n", cfg.GetInput())

	report, err := pipeline.Run(cfg.GetInput(), delimiter, paths)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Read %s rows (%s)\n", humanize.Comma(int64(report.RowsRead)), humanize.Bytes(uint64(report.InputBytes)))
	if report.SkippedNoSerial > 0 {
		fmt.Printf("  - Skipped %s rows without a serial\n", humanize.Comma(int64(report.SkippedNoSerial)))
	}
	if report.Duplicates > 0 {
		fmt.Printf("  - Removed %s duplicate rows\n", humanize.Comma(int64(report.Duplicates)))
	}
	if report.NoEnergyData > 0 {
		fmt.Printf("  - Removed %s rows with no energy data\n", humanize.Comma(int64(report.NoEnergyData)))
	}
	fmt.Printf("✓ Wrote %s cleaned records to %s\n", humanize.Comma(int64(report.CleanedRecords)), paths.Cleaned)
	fmt.Printf("✓ Wrote %s hourly buckets to %s\n", humanize.Comma(int64(report.HourlyBuckets)), paths.Hourly)
	fmt.Printf("✓ Wrote %s device summaries to %s\n", humanize.Comma(int64(report.Devices)), paths.Devices)

	return nil
}
