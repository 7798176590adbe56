package env

import (
	"context"
	"time"
)

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into a Snapshot. Fields a provider does not
// measure are left at zero and skipped during aggregation.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	HumidityPct  float64
	PM25         float64
	PM10         float64
	NO2          float64
	CO2          float64
}

// Provider abstracts an environmental data source (e.g. the mock sensor
// network, OpenAQ).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, region Region) (ProviderReading, error)
}

// Store is the contract the snapshot stores must satisfy.
type Store interface {
	SaveSnapshot(region Region, snapshot Snapshot) error
	Latest(region Region) (Snapshot, error)
	Range(region Region, from, to time.Time) ([]Snapshot, error)

	// LatestAll returns the most recent snapshot for every region that has
	// data, in no particular order.
	LatestAll() ([]Snapshot, error)
}
