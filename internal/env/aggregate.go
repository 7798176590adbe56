package env

import "time"

// AggregateReadings combines multiple provider readings into a single Snapshot.
// Each field is averaged over the providers that reported it; a zero value is
// treated as "not measured" (OpenAQ, for instance, reports pollutants only).
func AggregateReadings(region Region, readings []ProviderReading) Snapshot {
	if len(readings) == 0 {
		return Snapshot{
			Region:    region,
			Timestamp: time.Now().UTC(),
		}
	}

	avg := func(pick func(ProviderReading) float64) float64 {
		var sum float64
		var n int
		for _, r := range readings {
			if v := pick(r); v != 0 {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}

	providers := make([]ProviderContribution, 0, len(readings))
	var newestTS time.Time
	for _, r := range readings {
		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}
	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	return Snapshot{
		Region:       region,
		Timestamp:    newestTS,
		TemperatureC: avg(func(r ProviderReading) float64 { return r.TemperatureC }),
		HumidityPct:  avg(func(r ProviderReading) float64 { return r.HumidityPct }),
		PM25:         avg(func(r ProviderReading) float64 { return r.PM25 }),
		PM10:         avg(func(r ProviderReading) float64 { return r.PM10 }),
		NO2:          avg(func(r ProviderReading) float64 { return r.NO2 }),
		CO2:          avg(func(r ProviderReading) float64 { return r.CO2 }),
		Providers:    providers,
	}
}
