package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewagner/gridbatch/pkg/models"
)

func TestSummarizeDevicesSumsPerSerial(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", fp(5), fp(1), nil),
		measurement(t, "BAT1", "2024-01-01T03:30:00Z", fp(10), fp(2), nil),
		measurement(t, "BAT1", "2024-01-02T03:00:00Z", fp(0), nil, nil),
		measurement(t, "BAT2", "2024-01-01T03:00:00Z", fp(7), fp(9), nil),
	}

	summaries := SummarizeDevices(in)

	require.Len(t, summaries, 2)
	assert.Equal(t, "BAT2", summaries[1].Serial)
	bat1 := summaries[0]
	assert.Equal(t, "BAT1", bat1.Serial)
	assert.Equal(t, 15.0, bat1.GridPurchaseTotal)
	assert.Equal(t, 3.0, bat1.GridFeedinTotal)
}

func TestSummarizeDevicesIncludesUnknownTimestamps(t *testing.T) {
	// Unlike the hourly aggregation, device totals don't need a date.
	in := []models.Measurement{
		measurement(t, "BAT1", "", fp(5), nil, nil),
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", fp(1), nil, nil),
	}

	summaries := SummarizeDevices(in)

	require.Len(t, summaries, 1)
	assert.Equal(t, 6.0, summaries[0].GridPurchaseTotal)
}

func TestSummarizeDevicesOrderedByPurchaseDescending(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", fp(1), nil, nil),
		measurement(t, "BAT2", "2024-01-01T03:00:00Z", fp(9), nil, nil),
		measurement(t, "BAT3", "2024-01-01T03:00:00Z", fp(5), nil, nil),
	}

	summaries := SummarizeDevices(in)

	require.Len(t, summaries, 3)
	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].GridPurchaseTotal, summaries[i].GridPurchaseTotal)
	}
	assert.Equal(t, "BAT2", summaries[0].Serial)
	assert.Equal(t, "BAT1", summaries[2].Serial)
}

func TestSummarizeDevicesTieBrokenBySerialAscending(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT9", "2024-01-01T03:00:00Z", fp(5), nil, nil),
		measurement(t, "BAT2", "2024-01-01T04:00:00Z", fp(5), nil, nil),
		measurement(t, "BAT5", "2024-01-01T05:00:00Z", fp(5), nil, nil),
	}

	summaries := SummarizeDevices(in)

	require.Len(t, summaries, 3)
	assert.Equal(t, "BAT2", summaries[0].Serial)
	assert.Equal(t, "BAT5", summaries[1].Serial)
	assert.Equal(t, "BAT9", summaries[2].Serial)
}

func TestSummarizeDevicesGrandTotalMatchesDirectSum(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", fp(1.5), fp(2), nil),
		measurement(t, "BAT2", "", fp(2.25), nil, nil),
		measurement(t, "BAT3", "2024-01-02T07:00:00Z", nil, fp(4), fp(1)),
		measurement(t, "BAT1", "2024-01-03T09:00:00Z", fp(3), fp(0.5), nil),
	}

	var direct float64
	for _, m := range in {
		if m.GridPurchase != nil {
			direct += *m.GridPurchase
		}
	}

	var grand float64
	for _, s := range SummarizeDevices(in) {
		grand += s.GridPurchaseTotal
	}

	assert.Equal(t, direct, grand)
}
