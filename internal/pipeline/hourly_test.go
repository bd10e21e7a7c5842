package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewagner/gridbatch/pkg/models"
)

func TestAggregateHourlySumsByDateAndHour(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-01T03:10:00Z", fp(5), fp(1), nil),
		measurement(t, "BAT1", "2024-01-01T03:40:00Z", fp(10), fp(2), nil),
		measurement(t, "BAT1", "2024-01-02T03:00:00Z", fp(0), fp(7), nil),
	}

	buckets := AggregateHourly(in)

	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-01-01", buckets[0].Date)
	assert.Equal(t, 3, buckets[0].Hour)
	assert.Equal(t, 15.0, buckets[0].GridPurchaseTotal)
	assert.Equal(t, 3.0, buckets[0].GridFeedinTotal)
	assert.Equal(t, "2024-01-02", buckets[1].Date)
	assert.Equal(t, 0.0, buckets[1].GridPurchaseTotal)
	assert.Equal(t, 7.0, buckets[1].GridFeedinTotal)
}

func TestAggregateHourlyExcludesUnknownTimestamps(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "", fp(5), fp(1), nil),
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", fp(1), fp(1), nil),
	}

	buckets := AggregateHourly(in)

	require.Len(t, buckets, 1)
	assert.Equal(t, 1.0, buckets[0].GridPurchaseTotal)
}

func TestAggregateHourlyUnknownFieldContributesZero(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", nil, fp(4), nil),
		measurement(t, "BAT1", "2024-01-01T03:30:00Z", fp(2), nil, nil),
	}

	buckets := AggregateHourly(in)

	require.Len(t, buckets, 1)
	assert.Equal(t, 2.0, buckets[0].GridPurchaseTotal)
	assert.Equal(t, 4.0, buckets[0].GridFeedinTotal)
}

func TestPeakFeedinFlagPerDate(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", nil, fp(10), nil),
		measurement(t, "BAT1", "2024-01-01T04:00:00Z", nil, fp(30), nil),
		measurement(t, "BAT1", "2024-01-02T05:00:00Z", nil, fp(1), nil),
	}

	buckets := AggregateHourly(in)

	require.Len(t, buckets, 3)
	assert.False(t, buckets[0].IsPeakFeedinHour)
	assert.True(t, buckets[1].IsPeakFeedinHour)
	// A lone hour is its date's maximum.
	assert.True(t, buckets[2].IsPeakFeedinHour)
}

func TestPeakFeedinTiesAllFlagged(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-01T03:00:00Z", nil, fp(30), nil),
		measurement(t, "BAT1", "2024-01-01T04:00:00Z", nil, fp(30), nil),
		measurement(t, "BAT1", "2024-01-01T05:00:00Z", nil, fp(29), nil),
	}

	buckets := AggregateHourly(in)

	require.Len(t, buckets, 3)
	var flagged []int
	for _, b := range buckets {
		if b.IsPeakFeedinHour {
			assert.Equal(t, 30.0, b.GridFeedinTotal)
			flagged = append(flagged, b.Hour)
		}
	}
	assert.Equal(t, []int{3, 4}, flagged)
}

func TestAggregateHourlySortedByDateThenHour(t *testing.T) {
	in := []models.Measurement{
		measurement(t, "BAT1", "2024-01-02T01:00:00Z", fp(1), nil, nil),
		measurement(t, "BAT1", "2024-01-01T23:00:00Z", fp(1), nil, nil),
		measurement(t, "BAT1", "2024-01-01T02:00:00Z", fp(1), nil, nil),
	}

	buckets := AggregateHourly(in)

	require.Len(t, buckets, 3)
	assert.Equal(t, []int{2, 23, 1}, []int{buckets[0].Hour, buckets[1].Hour, buckets[2].Hour})
	assert.Equal(t, "2024-01-01", buckets[0].Date)
	assert.Equal(t, "2024-01-02", buckets[2].Date)
}

func TestAggregateHourlyEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateHourly(nil))
}
