package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ewagner/gridbatch/pkg/models"
)

// Read-back of the pipeline's own output files, used by the inspect and
// publish commands.

// ReadHourlyFile loads an hourly aggregation file written by WriteHourly.
func ReadHourlyFile(path string, delimiter rune) ([]models.HourlyBucket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hourly output: %w", err)
	}
	defer f.Close()

	records, err := readRecords(f, delimiter, []string{"date", "hour", "grid_purchase_total", "grid_feedin_total", "is_peak_feedin_hour"})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	buckets := make([]models.HourlyBucket, 0, len(records))
	for _, rec := range records {
		hour, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("parsing hour %q: %w", rec[1], err)
		}
		purchase, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing grid_purchase_total %q: %w", rec[2], err)
		}
		feedin, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing grid_feedin_total %q: %w", rec[3], err)
		}
		peak, err := strconv.ParseBool(rec[4])
		if err != nil {
			return nil, fmt.Errorf("parsing is_peak_feedin_hour %q: %w", rec[4], err)
		}
		buckets = append(buckets, models.HourlyBucket{
			Date:              rec[0],
			Hour:              hour,
			GridPurchaseTotal: purchase,
			GridFeedinTotal:   feedin,
			IsPeakFeedinHour:  peak,
		})
	}
	return buckets, nil
}

// ReadDevicesFile loads a device summary file written by WriteDevices.
func ReadDevicesFile(path string, delimiter rune) ([]models.DeviceSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening device output: %w", err)
	}
	defer f.Close()

	records, err := readRecords(f, delimiter, []string{"serial", "grid_purchase_total", "grid_feedin_total"})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	summaries := make([]models.DeviceSummary, 0, len(records))
	for _, rec := range records {
		purchase, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing grid_purchase_total %q: %w", rec[1], err)
		}
		feedin, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing grid_feedin_total %q: %w", rec[2], err)
		}
		summaries = append(summaries, models.DeviceSummary{
			Serial:            rec[0],
			GridPurchaseTotal: purchase,
			GridFeedinTotal:   feedin,
		})
	}
	return summaries, nil
}

func readRecords(r io.Reader, delimiter rune, wantHeader []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(wantHeader) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}
	for i, name := range wantHeader {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected header %v", header)
		}
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		records = append(records, rec)
	}
}
