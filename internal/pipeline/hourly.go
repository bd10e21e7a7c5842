package pipeline

import (
	"sort"

	"github.com/ewagner/gridbatch/pkg/models"
)

type hourKey struct {
	date string
	hour int
}

// AggregateHourly groups cleaned measurements by (date, hour), sums the two
// grid fields (unknown contributes zero, known fields of the same record
// still count), and flags every hour tied for its date's maximum
// grid_feedin_total. Records whose timestamp is unknown have no date or
// hour and are excluded; there is no "unknown" bucket. Output is sorted by
// date then hour.
func AggregateHourly(in []models.Measurement) []models.HourlyBucket {
	totals := make(map[hourKey]*models.HourlyBucket)
	for _, m := range in {
		date, ok := m.Date()
		if !ok {
			continue
		}
		hour, _ := m.Hour()

		k := hourKey{date: date, hour: hour}
		b, ok := totals[k]
		if !ok {
			b = &models.HourlyBucket{Date: date, Hour: hour}
			totals[k] = b
		}
		if m.GridPurchase != nil {
			b.GridPurchaseTotal += *m.GridPurchase
		}
		if m.GridFeedin != nil {
			b.GridFeedinTotal += *m.GridFeedin
		}
	}

	buckets := make([]models.HourlyBucket, 0, len(totals))
	for _, b := range totals {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Date != buckets[j].Date {
			return buckets[i].Date < buckets[j].Date
		}
		return buckets[i].Hour < buckets[j].Hour
	})

	// Peak flag: every bucket matching its date's maximum feed-in is
	// flagged, not just the first.
	maxFeedin := make(map[string]float64)
	for _, b := range buckets {
		if cur, ok := maxFeedin[b.Date]; !ok || b.GridFeedinTotal > cur {
			maxFeedin[b.Date] = b.GridFeedinTotal
		}
	}
	for i := range buckets {
		buckets[i].IsPeakFeedinHour = buckets[i].GridFeedinTotal == maxFeedin[buckets[i].Date]
	}

	return buckets
}
