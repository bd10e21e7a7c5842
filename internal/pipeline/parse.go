package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ewagner/gridbatch/pkg/models"
)

// requiredColumns must all appear in the input header. Extra columns are
// ignored. The raw date column is required for structural compatibility
// with the upstream snapshot layout but is never used for derivation; the
// timestamp column is the only temporal source of truth.
var requiredColumns = []string{
	"serial",
	"timestamp",
	"date",
	"grid_purchase",
	"grid_feedin",
	"direct_consumption",
}

// timestampLayouts are the layouts the upstream producers emit, tried in
// order. Layouts without a zone are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Snapshot is the parsed form of one input file.
type Snapshot struct {
	Measurements []models.Measurement

	// RowsRead counts data rows in the input, including rejected ones.
	RowsRead int
	// SkippedNoSerial counts rows rejected for an empty serial. A device
	// summary has no meaningful bucket for an unknown device, so such rows
	// are dropped whole instead of producing a partially valid record.
	SkippedNoSerial int
}

// ReadSnapshot reads one delimited input snapshot and parses every row into
// a Measurement. Field-level parse failures never fail a row; they coerce
// the field to unknown. Structural problems (empty input, missing required
// column, ragged rows) fail the whole read.
func ReadSnapshot(r io.Reader, delimiter rune) (*Snapshot, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input is empty, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		snap.RowsRead++
		serial := strings.TrimSpace(rec[cols["serial"]])
		if serial == "" {
			snap.SkippedNoSerial++
			continue
		}
		snap.Measurements = append(snap.Measurements, models.Measurement{
			Serial:            serial,
			Timestamp:         parseTimestamp(rec[cols["timestamp"]]),
			GridPurchase:      parseEnergy(rec[cols["grid_purchase"]]),
			GridFeedin:        parseEnergy(rec[cols["grid_feedin"]]),
			DirectConsumption: parseEnergy(rec[cols["direct_consumption"]]),
		})
	}

	return snap, nil
}

// columnIndex maps column names to their position and verifies the required
// columns are present.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("input header is missing required column %q", name)
		}
	}
	return cols, nil
}

// parseEnergy coerces an energy field. Empty text, non-numeric text, range
// overflow and NaN all become unknown. Negative values pass through
// unchanged; whether they are meaningful domain values or artifacts is
// unresolved upstream, so no validation is applied beyond the parse.
func parseEnergy(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseTimestamp coerces a timestamp field, trying each known layout.
// On failure the whole instant is unknown; date and hour are only ever
// derived from this value, so they become unknown together.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
