package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/ewagner/gridbatch/pkg/models"
)

// CleanStats counts what Clean removed.
type CleanStats struct {
	Duplicates   int
	NoEnergyData int
}

// Clean applies the two snapshot filters, in order: exact-duplicate removal
// (comparison covers every field, unknown markers included; the first
// occurrence wins) and removal of records whose three energy fields are all
// unknown. The relative order of surviving records is preserved, and
// cleaning an already-clean sequence removes nothing further.
func Clean(in []models.Measurement) ([]models.Measurement, CleanStats) {
	var stats CleanStats
	seen := make(map[string]struct{}, len(in))
	out := make([]models.Measurement, 0, len(in))
	for _, m := range in {
		key := dedupKey(m)
		if _, ok := seen[key]; ok {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		if !m.HasEnergyData() {
			stats.NoEnergyData++
			continue
		}
		out = append(out, m)
	}
	return out, stats
}

// dedupKey encodes the full field tuple. Unknown fields get a marker that
// no parsed value can produce, so unknown only collides with unknown.
func dedupKey(m models.Measurement) string {
	var b strings.Builder
	b.WriteString(m.Serial)
	b.WriteByte(0x1f)
	if m.Timestamp != nil {
		b.WriteString(m.Timestamp.Format(time.RFC3339Nano))
	} else {
		b.WriteByte(0x00)
	}
	for _, f := range []*float64{m.GridPurchase, m.GridFeedin, m.DirectConsumption} {
		b.WriteByte(0x1f)
		if f != nil {
			b.WriteString(strconv.FormatFloat(*f, 'g', -1, 64))
		} else {
			b.WriteByte(0x00)
		}
	}
	return b.String()
}
