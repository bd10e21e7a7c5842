package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ewagner/gridbatch/pkg/models"
)

// OutputPaths names the three files a run produces.
type OutputPaths struct {
	Cleaned string
	Hourly  string
	Devices string
}

// Report summarizes one completed run.
type Report struct {
	InputBytes      int64
	RowsRead        int
	SkippedNoSerial int
	Duplicates      int
	NoEnergyData    int
	CleanedRecords  int
	HourlyBuckets   int
	Devices         int
}

// Run executes one full pipeline pass: read the input snapshot, parse,
// clean, aggregate, and write the three outputs. A run either completes
// with all three outputs in place or fails with none: each file is written
// to a temp file in its target directory and the renames happen only after
// every write succeeded.
func Run(input string, delimiter rune, paths OutputPaths) (*Report, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	snap, err := ReadSnapshot(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", input, err)
	}

	cleaned, stats := Clean(snap.Measurements)
	hourly := AggregateHourly(cleaned)
	devices := SummarizeDevices(cleaned)

	if err := writeOutputs(delimiter, paths, cleaned, hourly, devices); err != nil {
		return nil, err
	}

	return &Report{
		InputBytes:      info.Size(),
		RowsRead:        snap.RowsRead,
		SkippedNoSerial: snap.SkippedNoSerial,
		Duplicates:      stats.Duplicates,
		NoEnergyData:    stats.NoEnergyData,
		CleanedRecords:  len(cleaned),
		HourlyBuckets:   len(hourly),
		Devices:         len(devices),
	}, nil
}

// writeOutputs stages all three files as temp files, then publishes them by
// rename. If any stage fails, the temp files are removed and no output path
// is touched. The renames themselves are the one non-atomic window: a crash
// between renames can leave a partial set, which the orchestrating caller
// handles by re-running the snapshot.
func writeOutputs(delimiter rune, paths OutputPaths, cleaned []models.Measurement, hourly []models.HourlyBucket, devices []models.DeviceSummary) error {
	type staged struct {
		tmp   string
		final string
	}
	var files []staged
	cleanup := func() {
		for _, s := range files {
			os.Remove(s.tmp)
		}
	}

	stage := func(final string, write func(f *os.File) error) error {
		dir := filepath.Dir(final)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		f, err := os.CreateTemp(dir, filepath.Base(final)+".tmp-*")
		if err != nil {
			return fmt.Errorf("creating temp output: %w", err)
		}
		files = append(files, staged{tmp: f.Name(), final: final})
		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", final, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", final, err)
		}
		return nil
	}

	if err := stage(paths.Cleaned, func(f *os.File) error {
		return WriteCleaned(f, delimiter, cleaned)
	}); err != nil {
		cleanup()
		return err
	}
	if err := stage(paths.Hourly, func(f *os.File) error {
		return WriteHourly(f, delimiter, hourly)
	}); err != nil {
		cleanup()
		return err
	}
	if err := stage(paths.Devices, func(f *os.File) error {
		return WriteDevices(f, delimiter, devices)
	}); err != nil {
		cleanup()
		return err
	}

	for _, s := range files {
		if err := os.Rename(s.tmp, s.final); err != nil {
			cleanup()
			return fmt.Errorf("publishing %s: %w", s.final, err)
		}
	}
	return nil
}
