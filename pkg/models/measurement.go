package models

import "time"

// Measurement is a single typed energy reading for one device. Pointer
// fields are nil when the source text could not be coerced into a value
// ("unknown"), which is distinct from a measured zero.
type Measurement struct {
	Serial            string
	Timestamp         *time.Time
	GridPurchase      *float64
	GridFeedin        *float64
	DirectConsumption *float64
}

// Date returns the calendar date (2006-01-02) derived from Timestamp.
// The second return is false when the timestamp is unknown.
func (m Measurement) Date() (string, bool) {
	if m.Timestamp == nil {
		return "", false
	}
	return m.Timestamp.Format("2006-01-02"), true
}

// Hour returns the hour of day (0-23) derived from Timestamp.
// The second return is false when the timestamp is unknown.
func (m Measurement) Hour() (int, bool) {
	if m.Timestamp == nil {
		return 0, false
	}
	return m.Timestamp.Hour(), true
}

// HasEnergyData reports whether at least one of the three energy fields
// holds a known value.
func (m Measurement) HasEnergyData() bool {
	return m.GridPurchase != nil || m.GridFeedin != nil || m.DirectConsumption != nil
}

// Equal reports whether two measurements match on every field. Unknown
// markers count as values: unknown only equals unknown.
func (m Measurement) Equal(o Measurement) bool {
	return m.Serial == o.Serial &&
		timeEqual(m.Timestamp, o.Timestamp) &&
		floatEqual(m.GridPurchase, o.GridPurchase) &&
		floatEqual(m.GridFeedin, o.GridFeedin) &&
		floatEqual(m.DirectConsumption, o.DirectConsumption)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func floatEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// HourlyBucket is one aggregated row per (date, hour) pair. Totals sum the
// grid fields of all cleaned measurements in that hour, unknowns
// contributing zero.
type HourlyBucket struct {
	Date              string
	Hour              int
	GridPurchaseTotal float64
	GridFeedinTotal   float64
	IsPeakFeedinHour  bool
}

// DeviceSummary is the lifetime total of the grid fields for one device.
type DeviceSummary struct {
	Serial            string
	GridPurchaseTotal float64
	GridFeedinTotal   float64
}
