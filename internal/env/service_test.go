package env_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HassanBassiouny/AQLLM/internal/env"
	"github.com/HassanBassiouny/AQLLM/internal/store"
)

type stubProvider struct {
	name    string
	reading env.ProviderReading
	err     error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(_ context.Context, region env.Region) (env.ProviderReading, error) {
	if p.err != nil {
		return env.ProviderReading{}, p.err
	}
	r := p.reading
	r.ProviderName = p.name
	return r, nil
}

func TestServiceSampleAndStoreAggregates(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memStore := store.NewMemoryStore(10, 0)

	svc := env.NewService(memStore, []env.Provider{
		&stubProvider{name: "a", reading: env.ProviderReading{Timestamp: ts, PM25: 10, TemperatureC: 24}},
		&stubProvider{name: "b", reading: env.ProviderReading{Timestamp: ts, PM25: 20, TemperatureC: 26}},
	})

	if err := svc.SampleAndStore(context.Background(), env.RegionDelta); err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	snap, err := svc.Latest(env.RegionDelta)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if snap.PM25 != 15 {
		t.Fatalf("pm25 = %v, want 15", snap.PM25)
	}
	if len(snap.Providers) != 2 {
		t.Fatalf("providers = %d, want 2", len(snap.Providers))
	}
}

func TestServiceToleratesPartialProviderFailure(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memStore := store.NewMemoryStore(10, 0)

	svc := env.NewService(memStore, []env.Provider{
		&stubProvider{name: "ok", reading: env.ProviderReading{Timestamp: ts, PM25: 12}},
		&stubProvider{name: "broken", err: errors.New("connection refused")},
	})

	if err := svc.SampleAndStore(context.Background(), env.RegionSinai); err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	snap, err := svc.Latest(env.RegionSinai)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if snap.PM25 != 12 {
		t.Fatalf("pm25 = %v, want the single successful reading", snap.PM25)
	}
}

func TestServiceKeepsLastGoodSnapshotWhenAllProvidersFail(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memStore := store.NewMemoryStore(10, 0)
	memStore.SaveSnapshot(env.RegionRedSea, env.Snapshot{Region: env.RegionRedSea, Timestamp: ts, PM25: 9})

	svc := env.NewService(memStore, []env.Provider{
		&stubProvider{name: "broken", err: errors.New("timeout")},
	})

	if err := svc.SampleAndStore(context.Background(), env.RegionRedSea); err != nil {
		t.Fatalf("sample returned error: %v", err)
	}

	snap, err := svc.Latest(env.RegionRedSea)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if snap.PM25 != 9 {
		t.Fatalf("pm25 = %v, want the previous snapshot preserved", snap.PM25)
	}
}

func TestServiceRequiresProviders(t *testing.T) {
	svc := env.NewService(store.NewMemoryStore(10, 0), nil)
	if err := svc.SampleAndStore(context.Background(), env.RegionDelta); err == nil {
		t.Fatal("expected error with no providers configured")
	}
}
