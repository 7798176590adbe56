package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/HassanBassiouny/AQLLM/internal/env"
)

// regionCoords maps each region to a representative measurement point.
var regionCoords = map[env.Region][2]float64{
	env.RegionRedSea:       {27.2579, 33.8116}, // Hurghada
	env.RegionDelta:        {30.7865, 31.0004}, // Tanta
	env.RegionGreaterCairo: {30.0444, 31.2357}, // Cairo
	env.RegionSinai:        {27.9158, 34.3299}, // Sharm El Sheikh
	env.RegionNewValley:    {25.4390, 30.5586}, // Kharga
	env.RegionUpperEgypt:   {25.6872, 32.6396}, // Luxor
	env.RegionNorthCoast:   {31.2001, 29.9187}, // Alexandria
	env.RegionCanalCities:  {30.5965, 32.2715}, // Ismailia
}

// OpenAQProvider fetches pollutant measurements from the OpenAQ API. It only
// reports pollutants; temperature and humidity come from other providers.
type OpenAQProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenAQProvider(client *http.Client, apiKey string) *OpenAQProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openaq",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenAQProvider{
		name:    "openaq",
		apiKey:  apiKey,
		baseURL: "https://api.openaq.org/v2/latest",
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenAQProvider) Name() string {
	return p.name
}

func (p *OpenAQProvider) Fetch(ctx context.Context, region env.Region) (env.ProviderReading, error) {
	if p.apiKey == "" {
		return env.ProviderReading{}, fmt.Errorf("openaq api key is not configured")
	}

	coords, ok := regionCoords[region]
	if !ok {
		return env.ProviderReading{}, env.ErrUnknownRegion
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("coordinates", fmt.Sprintf("%f,%f", coords[0], coords[1]))
		values.Set("radius", "25000")
		values.Set("limit", "10")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-Key", p.apiKey)
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return env.ProviderReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Measurements []struct {
				Parameter   string  `json:"parameter"`
				Value       float64 `json:"value"`
				LastUpdated string  `json:"lastUpdated"`
			} `json:"measurements"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return env.ProviderReading{}, err
	}

	r := env.ProviderReading{
		ProviderName: p.name,
		Timestamp:    time.Now().UTC(),
	}

	// Average each pollutant over the stations near the region's point.
	sums := map[string]float64{}
	counts := map[string]int{}
	var newest time.Time
	for _, res := range payload.Results {
		for _, m := range res.Measurements {
			if m.Value < 0 {
				continue
			}
			sums[m.Parameter] += m.Value
			counts[m.Parameter]++
			if ts, err := time.Parse(time.RFC3339, m.LastUpdated); err == nil && ts.After(newest) {
				newest = ts
			}
		}
	}

	if len(counts) == 0 {
		return env.ProviderReading{}, fmt.Errorf("openaq returned no measurements near %s", region)
	}
	if !newest.IsZero() {
		r.Timestamp = newest.UTC()
	}

	avg := func(param string) float64 {
		if counts[param] == 0 {
			return 0
		}
		return sums[param] / float64(counts[param])
	}
	r.PM25 = avg("pm25")
	r.PM10 = avg("pm10")
	r.NO2 = avg("no2")
	r.CO2 = avg("co2")

	return r, nil
}
