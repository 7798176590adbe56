package env

import (
	"testing"
	"time"
)

func TestAggregateReadingsAverages(t *testing.T) {
	ts1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts2 := ts1.Add(5 * time.Minute)

	readings := []ProviderReading{
		{ProviderName: "a", Timestamp: ts1, TemperatureC: 24, HumidityPct: 40, PM25: 10, PM10: 30, NO2: 8, CO2: 300},
		{ProviderName: "b", Timestamp: ts2, TemperatureC: 26, HumidityPct: 60, PM25: 20, PM10: 50, NO2: 12, CO2: 340},
	}

	snap := AggregateReadings(RegionDelta, readings)

	if snap.Region != RegionDelta {
		t.Fatalf("region = %q, want %q", snap.Region, RegionDelta)
	}
	if snap.TemperatureC != 25 {
		t.Fatalf("temperature = %v, want 25", snap.TemperatureC)
	}
	if snap.PM25 != 15 {
		t.Fatalf("pm25 = %v, want 15", snap.PM25)
	}
	if !snap.Timestamp.Equal(ts2) {
		t.Fatalf("timestamp = %v, want newest %v", snap.Timestamp, ts2)
	}
	if len(snap.Providers) != 2 {
		t.Fatalf("providers = %d, want 2", len(snap.Providers))
	}
}

// A provider that reports only pollutants must not drag the averages of the
// fields it does not measure towards zero.
func TestAggregateReadingsSkipsUnmeasuredFields(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	readings := []ProviderReading{
		{ProviderName: "sensors", Timestamp: ts, TemperatureC: 30, HumidityPct: 50, PM25: 10, PM10: 20, NO2: 5, CO2: 310},
		{ProviderName: "openaq", Timestamp: ts, PM25: 30, PM10: 40},
	}

	snap := AggregateReadings(RegionSinai, readings)

	if snap.TemperatureC != 30 {
		t.Fatalf("temperature = %v, want 30 (only one provider measured it)", snap.TemperatureC)
	}
	if snap.PM25 != 20 {
		t.Fatalf("pm25 = %v, want 20 (average of both providers)", snap.PM25)
	}
	if snap.CO2 != 310 {
		t.Fatalf("co2 = %v, want 310", snap.CO2)
	}
}

func TestAggregateReadingsEmpty(t *testing.T) {
	snap := AggregateReadings(RegionRedSea, nil)
	if snap.Region != RegionRedSea {
		t.Fatalf("region = %q, want %q", snap.Region, RegionRedSea)
	}
	if snap.Timestamp.IsZero() {
		t.Fatal("expected a non-zero timestamp for an empty aggregation")
	}
}
