package query

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/HassanBassiouny/AQLLM/internal/env"
)

// testSnapshots returns one snapshot per region with fixed, distinct values.
// Greater Cairo is the most polluted region, North Coast the cleanest.
func testSnapshots() []env.Snapshot {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	data := []struct {
		region             env.Region
		pm25, pm10         float64
		no2, co2           float64
		temp, humidity     float64
	}{
		{env.RegionRedSea, 9, 20, 7, 300, 28, 37},
		{env.RegionDelta, 27, 60, 22, 340, 25.5, 60},
		{env.RegionGreaterCairo, 56, 110, 63, 510, 25, 40},
		{env.RegionSinai, 11, 24, 5, 280, 30, 31},
		{env.RegionNewValley, 24, 52, 9, 340, 33, 21},
		{env.RegionUpperEgypt, 23, 49, 13, 315, 31, 25},
		{env.RegionNorthCoast, 8, 19, 5, 300, 25, 69},
		{env.RegionCanalCities, 17, 40, 21, 355, 27, 51},
	}

	snaps := make([]env.Snapshot, 0, len(data))
	for _, d := range data {
		snaps = append(snaps, env.Snapshot{
			Region:       d.region,
			Timestamp:    ts,
			PM25:         d.pm25,
			PM10:         d.pm10,
			NO2:          d.no2,
			CO2:          d.co2,
			TemperatureC: d.temp,
			HumidityPct:  d.humidity,
		})
	}
	return snaps
}

func TestAnswerComparisonAllRegions(t *testing.T) {
	q := Parse("Compare air quality across all regions")
	if q.Intent != IntentComparison {
		t.Fatalf("intent = %q, want %q", q.Intent, IntentComparison)
	}

	resp := Answer(q, testSnapshots())

	if resp.Metric != env.MetricAQI {
		t.Fatalf("metric = %q, want %q", resp.Metric, env.MetricAQI)
	}
	if len(resp.Table) != 8 {
		t.Fatalf("table has %d rows, want 8", len(resp.Table))
	}
	// Ranked: the most polluted region first.
	if resp.Table[0].Region != env.RegionGreaterCairo {
		t.Fatalf("top row region = %q, want %q", resp.Table[0].Region, env.RegionGreaterCairo)
	}
	for i := 1; i < len(resp.Table); i++ {
		if resp.Table[i].Value > resp.Table[i-1].Value {
			t.Fatalf("table not ranked at index %d: %v > %v", i, resp.Table[i].Value, resp.Table[i-1].Value)
		}
	}
	if !strings.Contains(resp.Text, string(env.RegionGreaterCairo)) {
		t.Fatalf("text does not mention the highest region: %q", resp.Text)
	}
}

func TestAnswerMetricLookupWithRegion(t *testing.T) {
	q := Parse("What is the temperature in Greater Cairo?")
	resp := Answer(q, testSnapshots())

	if resp.Intent != IntentMetricLookup {
		t.Fatalf("intent = %q, want %q", resp.Intent, IntentMetricLookup)
	}
	if resp.Region != env.RegionGreaterCairo {
		t.Fatalf("region = %q, want %q", resp.Region, env.RegionGreaterCairo)
	}
	if len(resp.Table) != 1 {
		t.Fatalf("table has %d rows, want 1", len(resp.Table))
	}
	if resp.Table[0].Value != 25 {
		t.Fatalf("value = %v, want 25", resp.Table[0].Value)
	}
}

func TestAnswerMetricLookupWithoutRegion(t *testing.T) {
	q := Parse("show me humidity readings")
	resp := Answer(q, testSnapshots())

	if resp.Intent != IntentMetricLookup {
		t.Fatalf("intent = %q, want %q", resp.Intent, IntentMetricLookup)
	}
	if len(resp.Table) != 8 {
		t.Fatalf("table has %d rows, want 8 (one per region)", len(resp.Table))
	}
	for _, row := range resp.Table {
		if row.Metric != env.MetricHumidity {
			t.Fatalf("row metric = %q, want %q", row.Metric, env.MetricHumidity)
		}
	}
}

func TestAnswerHealthGuidanceFallsBackToWorstRegion(t *testing.T) {
	q := Parse("Health recommendations for sensitive groups")
	if q.HasRegion {
		t.Fatalf("unexpected region resolution: %q", q.Region)
	}

	resp := Answer(q, testSnapshots())

	if resp.Intent != IntentHealthGuidance {
		t.Fatalf("intent = %q, want %q", resp.Intent, IntentHealthGuidance)
	}
	// Greater Cairo has the worst AQI in the fixture.
	if resp.Region != env.RegionGreaterCairo {
		t.Fatalf("region = %q, want worst region %q", resp.Region, env.RegionGreaterCairo)
	}
	sev := env.SeverityForAQI(resp.Table[0].Value)
	if !strings.Contains(resp.Text, string(sev)) {
		t.Fatalf("text does not contain severity %q: %q", sev, resp.Text)
	}
	if !strings.Contains(resp.Text, sev.Guidance()) {
		t.Fatalf("text does not contain guidance for %q: %q", sev, resp.Text)
	}
}

func TestAnswerHealthGuidanceForRegion(t *testing.T) {
	q := Parse("Is it safe to exercise outdoors on the North Coast?")
	resp := Answer(q, testSnapshots())

	if resp.Intent != IntentHealthGuidance {
		t.Fatalf("intent = %q, want %q", resp.Intent, IntentHealthGuidance)
	}
	if resp.Region != env.RegionNorthCoast {
		t.Fatalf("region = %q, want %q", resp.Region, env.RegionNorthCoast)
	}
}

func TestAnswerRankingDirection(t *testing.T) {
	snaps := testSnapshots()

	best := Answer(Parse("Which region has the best air quality?"), snaps)
	if best.Table[0].Region != env.RegionNorthCoast {
		t.Fatalf("best-first ranking starts with %q, want %q", best.Table[0].Region, env.RegionNorthCoast)
	}

	worst := Answer(Parse("Which region has the worst air quality?"), snaps)
	if worst.Table[0].Region != env.RegionGreaterCairo {
		t.Fatalf("worst-first ranking starts with %q, want %q", worst.Table[0].Region, env.RegionGreaterCairo)
	}
}

func TestAnswerGeneralDescriptionFallback(t *testing.T) {
	q := Parse("asdkjfh random nonsense")
	if q.Intent != IntentGeneralDescription {
		t.Fatalf("intent = %q, want %q", q.Intent, IntentGeneralDescription)
	}

	resp := Answer(q, testSnapshots())

	if len(resp.Table) != 8 {
		t.Fatalf("table has %d rows, want 8", len(resp.Table))
	}
	if !strings.Contains(resp.Text, "could not match") {
		t.Fatalf("fallback text missing unresolved note: %q", resp.Text)
	}
	for _, region := range []env.Region{env.RegionRedSea, env.RegionGreaterCairo, env.RegionSinai} {
		if !strings.Contains(resp.Text, string(region)) {
			t.Fatalf("narrative missing region %q: %q", region, resp.Text)
		}
	}
}

func TestAnswerEmptyReadings(t *testing.T) {
	questions := []string{
		"Compare air quality across all regions",
		"What is the temperature in Greater Cairo?",
		"Health recommendations for sensitive groups",
		"Which region has the worst air quality?",
		"asdkjfh random nonsense",
	}

	for _, text := range questions {
		t.Run(text, func(t *testing.T) {
			resp := Answer(Parse(text), nil)
			if !resp.NoData {
				t.Fatalf("expected NoData response for %q", text)
			}
			if resp.Text != noDataText {
				t.Fatalf("text = %q, want fixed no-data text", resp.Text)
			}
			if len(resp.Table) != 0 {
				t.Fatalf("expected empty table, got %d rows", len(resp.Table))
			}
		})
	}
}

func TestAnswerIdempotent(t *testing.T) {
	snaps := testSnapshots()
	q := Parse("Compare pm2.5 across regions")

	first := Answer(q, snaps)
	second := Answer(q, snaps)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Answer is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnswerDoesNotMutateSnapshots(t *testing.T) {
	snaps := testSnapshots()
	want := testSnapshots()

	Answer(Parse("Which region has the best air quality?"), snaps)

	if !reflect.DeepEqual(snaps, want) {
		t.Fatal("Answer mutated its input snapshots")
	}
}
