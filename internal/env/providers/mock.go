package providers

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/HassanBassiouny/AQLLM/internal/env"
)

// baseline holds the typical sensor readings for one region. Values reflect
// the character of each zone: Greater Cairo is the most polluted, the coastal
// regions the cleanest.
type baseline struct {
	pm25, pm10, no2, co2, temp, humidity float64
}

var regionBaselines = map[env.Region]baseline{
	env.RegionRedSea:       {pm25: 9, pm10: 20, no2: 7, co2: 300, temp: 28, humidity: 37},
	env.RegionDelta:        {pm25: 27, pm10: 60, no2: 22, co2: 340, temp: 25.5, humidity: 60},
	env.RegionGreaterCairo: {pm25: 56, pm10: 110, no2: 63, co2: 510, temp: 25, humidity: 40},
	env.RegionSinai:        {pm25: 11, pm10: 24, no2: 5, co2: 280, temp: 30, humidity: 31},
	env.RegionNewValley:    {pm25: 24, pm10: 52, no2: 9, co2: 340, temp: 33, humidity: 21},
	env.RegionUpperEgypt:   {pm25: 23, pm10: 49, no2: 13, co2: 315, temp: 31, humidity: 25},
	env.RegionNorthCoast:   {pm25: 8, pm10: 19, no2: 5, co2: 300, temp: 25, humidity: 69},
	env.RegionCanalCities:  {pm25: 17, pm10: 40, no2: 21, co2: 355, temp: 27, humidity: 51},
}

// MockSensorProvider generates plausible readings around fixed per-region
// baselines. It stands in for the real sensor network when no outbound data
// source is configured, and never fails.
type MockSensorProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewMockSensorProvider() *MockSensorProvider {
	return &MockSensorProvider{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (p *MockSensorProvider) Name() string {
	return "mock-sensors"
}

func (p *MockSensorProvider) Fetch(_ context.Context, region env.Region) (env.ProviderReading, error) {
	base, ok := regionBaselines[region]
	if !ok {
		return env.ProviderReading{}, env.ErrUnknownRegion
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Jitter each value within ±15% of baseline (±8% for temperature and
	// a third of that for CO2, which drifts slowly).
	jitter := func(v, frac float64) float64 {
		return v * (1 + (p.rng.Float64()*2-1)*frac)
	}

	r := env.ProviderReading{
		ProviderName: p.Name(),
		Timestamp:    p.now(),
		TemperatureC: jitter(base.temp, 0.08),
		HumidityPct:  clamp(jitter(base.humidity, 0.15), 10, 95),
		PM25:         max1(jitter(base.pm25, 0.15)),
		PM10:         max1(jitter(base.pm10, 0.15)),
		NO2:          max1(jitter(base.no2, 0.15)),
		CO2:          clamp(jitter(base.co2, 0.05), 250, 2000),
	}
	return r, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max1(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}
