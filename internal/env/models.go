package env

import (
	"errors"
	"strings"
	"time"
)

// Region is one of the fixed Egyptian zones we monitor.
type Region string

const (
	RegionRedSea       Region = "Red Sea"
	RegionDelta        Region = "Delta"
	RegionGreaterCairo Region = "Greater Cairo"
	RegionSinai        Region = "Sinai"
	RegionNewValley    Region = "New Valley"
	RegionUpperEgypt   Region = "Upper Egypt"
	RegionNorthCoast   Region = "North Coast"
	RegionCanalCities  Region = "Canal Cities"
)

// ErrUnknownRegion is returned when a string does not name a monitored region.
var ErrUnknownRegion = errors.New("unknown region")

// AllRegions returns every monitored region in a fixed order.
func AllRegions() []Region {
	return []Region{
		RegionRedSea,
		RegionDelta,
		RegionGreaterCairo,
		RegionSinai,
		RegionNewValley,
		RegionUpperEgypt,
		RegionNorthCoast,
		RegionCanalCities,
	}
}

// ParseRegion resolves a canonical region name, case-insensitively.
func ParseRegion(s string) (Region, error) {
	for _, r := range AllRegions() {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", ErrUnknownRegion
}

// Context returns a short description of the region's environmental character,
// used in narrative responses.
func (r Region) Context() string {
	switch r {
	case RegionRedSea:
		return "coastal region with tourism and shipping activity; sea breezes generally keep air quality good"
	case RegionDelta:
		return "agricultural region with high population density; particulates are often elevated by farming activity"
	case RegionGreaterCairo:
		return "urban metropolitan area with heavy traffic and industry; typically the most polluted region"
	case RegionSinai:
		return "desert region with little industrial activity; air quality is good apart from dust storms"
	case RegionNewValley:
		return "desert oasis with agricultural activity and moderate, seasonal pollution"
	case RegionUpperEgypt:
		return "southern region of mixed urban and rural areas; conditions vary by location and season"
	case RegionNorthCoast:
		return "Mediterranean coastal region with good air quality influenced by sea breezes"
	case RegionCanalCities:
		return "urban areas along the Suez Canal with shipping and industrial emissions"
	default:
		return ""
	}
}

// Metric is a measured (or derived) environmental quantity.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricPM25        Metric = "pm25"
	MetricPM10        Metric = "pm10"
	MetricNO2         Metric = "no2"
	MetricCO2         Metric = "co2"
	MetricAQI         Metric = "aqi"
)

// DefaultMetric is used when a query does not name a metric.
const DefaultMetric = MetricAQI

// AllMetrics returns every metric in a fixed order.
func AllMetrics() []Metric {
	return []Metric{
		MetricTemperature,
		MetricHumidity,
		MetricPM25,
		MetricPM10,
		MetricNO2,
		MetricCO2,
		MetricAQI,
	}
}

// Unit returns the display unit for a metric.
func (m Metric) Unit() string {
	switch m {
	case MetricTemperature:
		return "°C"
	case MetricHumidity:
		return "%"
	case MetricPM25, MetricPM10, MetricNO2:
		return "µg/m³"
	case MetricCO2:
		return "ppm"
	default:
		return ""
	}
}

// Snapshot is the aggregated view of one region's sensors at a point in time.
type Snapshot struct {
	Region    Region    `json:"region"`
	Timestamp time.Time `json:"timestamp"` // always UTC

	TemperatureC float64 `json:"temperatureC"`
	HumidityPct  float64 `json:"humidityPercent"`
	PM25         float64 `json:"pm25"`
	PM10         float64 `json:"pm10"`
	NO2          float64 `json:"no2"`
	CO2          float64 `json:"co2"`

	// Providers contributing to this snapshot.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// Value returns the snapshot's value for the given metric.
// MetricAQI is derived from the particulate readings.
func (s Snapshot) Value(m Metric) float64 {
	switch m {
	case MetricTemperature:
		return s.TemperatureC
	case MetricHumidity:
		return s.HumidityPct
	case MetricPM25:
		return s.PM25
	case MetricPM10:
		return s.PM10
	case MetricNO2:
		return s.NO2
	case MetricCO2:
		return s.CO2
	case MetricAQI:
		return s.AQI()
	default:
		return 0
	}
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}
