package pipeline

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/ewagner/gridbatch/pkg/models"
)

// Floats are serialized with the shortest representation that round-trips,
// so no source precision is lost. Unknown fields serialize as empty, never
// as zero; zero-substitution is an internal summation convention only.

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// WriteCleaned writes the cleaned record set: the input columns plus the
// derived hour. Timestamps are re-serialized as RFC 3339 and the date
// column carries the derived date, not the raw input text.
func WriteCleaned(w io.Writer, delimiter rune, in []models.Measurement) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write([]string{"serial", "timestamp", "date", "grid_purchase", "grid_feedin", "direct_consumption", "hour"}); err != nil {
		return err
	}
	for _, m := range in {
		var ts, date, hour string
		if m.Timestamp != nil {
			ts = m.Timestamp.Format(time.RFC3339)
			date, _ = m.Date()
			h, _ := m.Hour()
			hour = strconv.Itoa(h)
		}
		rec := []string{
			m.Serial,
			ts,
			date,
			formatOptFloat(m.GridPurchase),
			formatOptFloat(m.GridFeedin),
			formatOptFloat(m.DirectConsumption),
			hour,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHourly writes the hourly aggregation with the peak feed-in flag.
func WriteHourly(w io.Writer, delimiter rune, in []models.HourlyBucket) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write([]string{"date", "hour", "grid_purchase_total", "grid_feedin_total", "is_peak_feedin_hour"}); err != nil {
		return err
	}
	for _, b := range in {
		rec := []string{
			b.Date,
			strconv.Itoa(b.Hour),
			formatFloat(b.GridPurchaseTotal),
			formatFloat(b.GridFeedinTotal),
			strconv.FormatBool(b.IsPeakFeedinHour),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDevices writes the per-device lifetime summaries in ranked order.
func WriteDevices(w io.Writer, delimiter rune, in []models.DeviceSummary) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write([]string{"serial", "grid_purchase_total", "grid_feedin_total"}); err != nil {
		return err
	}
	for _, s := range in {
		rec := []string{
			s.Serial,
			formatFloat(s.GridPurchaseTotal),
			formatFloat(s.GridFeedinTotal),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
