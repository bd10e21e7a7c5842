package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestDateAndHourDeriveFromTimestamp(t *testing.T) {
	ts, err := time.Parse(time.RFC3339, "2024-01-01T23:59:59Z")
	require.NoError(t, err)

	m := Measurement{Serial: "BAT1", Timestamp: &ts}
	date, ok := m.Date()
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", date)
	hour, ok := m.Hour()
	require.True(t, ok)
	assert.Equal(t, 23, hour)

	unknown := Measurement{Serial: "BAT1"}
	_, ok = unknown.Date()
	assert.False(t, ok)
	_, ok = unknown.Hour()
	assert.False(t, ok)
}

func TestHasEnergyData(t *testing.T) {
	assert.False(t, Measurement{Serial: "BAT1"}.HasEnergyData())
	assert.True(t, Measurement{Serial: "BAT1", GridPurchase: fp(0)}.HasEnergyData())
	assert.True(t, Measurement{Serial: "BAT1", DirectConsumption: fp(1)}.HasEnergyData())
}

func TestEqualComparesValuesNotPointers(t *testing.T) {
	ts, err := time.Parse(time.RFC3339, "2024-01-01T03:00:00Z")
	require.NoError(t, err)
	other := ts.Add(time.Second)

	a := Measurement{Serial: "BAT1", Timestamp: &ts, GridPurchase: fp(5)}
	b := Measurement{Serial: "BAT1", Timestamp: &ts, GridPurchase: fp(5)}
	assert.True(t, a.Equal(b))

	b.GridPurchase = nil
	assert.False(t, a.Equal(b))

	b.GridPurchase = fp(5)
	b.Timestamp = &other
	assert.False(t, a.Equal(b))

	b.Timestamp = nil
	assert.False(t, a.Equal(b))
}

func TestEqualTreatsUnknownAsMatchingUnknown(t *testing.T) {
	a := Measurement{Serial: "BAT1"}
	b := Measurement{Serial: "BAT1"}
	assert.True(t, a.Equal(b))
}
