package pipeline

import (
	"sort"

	"github.com/ewagner/gridbatch/pkg/models"
)

// SummarizeDevices groups cleaned measurements by serial and sums the two
// grid fields per device (unknown contributes zero). The result is ordered
// by grid_purchase_total descending; ties are broken by serial ascending so
// the output is deterministic across runs.
func SummarizeDevices(in []models.Measurement) []models.DeviceSummary {
	totals := make(map[string]*models.DeviceSummary)
	for _, m := range in {
		s, ok := totals[m.Serial]
		if !ok {
			s = &models.DeviceSummary{Serial: m.Serial}
			totals[m.Serial] = s
		}
		if m.GridPurchase != nil {
			s.GridPurchaseTotal += *m.GridPurchase
		}
		if m.GridFeedin != nil {
			s.GridFeedinTotal += *m.GridFeedin
		}
	}

	summaries := make([]models.DeviceSummary, 0, len(totals))
	for _, s := range totals {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].GridPurchaseTotal != summaries[j].GridPurchaseTotal {
			return summaries[i].GridPurchaseTotal > summaries[j].GridPurchaseTotal
		}
		return summaries[i].Serial < summaries[j].Serial
	})

	return summaries
}
