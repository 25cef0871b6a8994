package screener

import (
	"reflect"
	"testing"
)

func waveCandidate(symbol string, fdv float64, vol float64, tx int, ageHours float64) *Candidate {
	c := baseCandidate()
	c.Symbol = symbol
	c.PoolID = "pool-" + symbol
	c.FDVUSD = fp(fdv)
	c.Volume24hUSD = fp(vol)
	c.BuyCount24h, c.SellCount24h = tx, 0
	c.AgeHours = fp(ageHours)
	return c
}

func TestHotPrefixWave(t *testing.T) {
	cfg := testConfig(t)

	batch := []*Candidate{
		waveCandidate("DOGE1", 250000, 40000, 150, 3),
		waveCandidate("DOGE2", 260000, 42000, 160, 3),
		waveCandidate("DOGEX", 270000, 38000, 140, 3),
		waveCandidate("PEPE", 250000, 5000, 50, 3),
	}

	groups := AssignWaves(batch, cfg)

	for _, c := range batch[:3] {
		if c.WaveKey != "prefix:doge" {
			t.Errorf("%s WaveKey = %q, want prefix:doge", c.Symbol, c.WaveKey)
		}
	}
	if batch[3].WaveKey == "prefix:doge" {
		t.Errorf("unrelated candidate joined the wave: %q", batch[3].WaveKey)
	}
	if batch[3].WaveKey != "bucket:2-6h|fdv1" {
		t.Errorf("fallback WaveKey = %q, want bucket:2-6h|fdv1", batch[3].WaveKey)
	}

	if len(groups) == 0 || groups[0].Key != "prefix:doge" {
		t.Fatalf("top group = %+v, want prefix:doge first", groups)
	}
	if len(groups[0].Members) != 3 {
		t.Errorf("top group has %d members, want 3", len(groups[0].Members))
	}

	top := TopWaveKeys(groups, cfg.Waves.TopWaves)
	if !top["prefix:doge"] {
		t.Error("prefix:doge should be a top wave")
	}
}

func TestHotSuffixWhenPrefixesDiffer(t *testing.T) {
	cfg := testConfig(t)

	// Prefixes "moon" and "goon" occur once each; the shared suffix "ninu"
	// occurs twice and becomes the wave key.
	batch := []*Candidate{
		waveCandidate("MOONINU", 250000, 40000, 150, 3),
		waveCandidate("GOONINU", 260000, 42000, 160, 3),
	}
	AssignWaves(batch, cfg)

	for _, c := range batch {
		if c.WaveKey != "suffix:ninu" {
			t.Errorf("%s WaveKey = %q, want suffix:ninu", c.Symbol, c.WaveKey)
		}
	}
}

func TestShortSymbolUsesBucket(t *testing.T) {
	cfg := testConfig(t)

	batch := []*Candidate{
		waveCandidate("OK", 250000, 40000, 150, 1),
	}
	AssignWaves(batch, cfg)

	if batch[0].WaveKey != "bucket:0-2h|fdv1" {
		t.Errorf("WaveKey = %q, want bucket:0-2h|fdv1", batch[0].WaveKey)
	}
}

func TestBucketEdges(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		age  *float64
		fdv  *float64
		want string
	}{
		{"young low fdv", fp(1), fp(100000), "bucket:0-2h|fdv0"},
		{"mid band", fp(5), fp(500000), "bucket:2-6h|fdv1"},
		{"older high fdv", fp(10), fp(2000000), "bucket:6-12h|fdv2"},
		{"oldest top band", fp(20), fp(5000000), "bucket:12-24h|fdv3"},
		{"unknown age", nil, fp(500000), "bucket:age-unknown|fdv1"},
		{"unknown fdv", fp(1), nil, "bucket:0-2h|fdv-unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := waveCandidate("ZZ", 0, 1000, 10, 0)
			c.AgeHours = tt.age
			c.FDVUSD = tt.fdv
			AssignWaves([]*Candidate{c}, cfg)
			if c.WaveKey != tt.want {
				t.Errorf("WaveKey = %q, want %q", c.WaveKey, tt.want)
			}
		})
	}
}

func TestWaveDeterminism(t *testing.T) {
	cfg := testConfig(t)

	build := func() []*Candidate {
		return []*Candidate{
			waveCandidate("DOGE1", 250000, 40000, 150, 3),
			waveCandidate("DOGE2", 260000, 42000, 160, 3),
			waveCandidate("MOONINU", 250000, 40000, 150, 3),
			waveCandidate("STARINU", 900000, 70000, 300, 1),
			waveCandidate("PEPE", 250000, 5000, 50, 3),
		}
	}

	first := AssignWaves(build(), cfg)
	firstKeys := make([]string, len(first))
	for i, g := range first {
		firstKeys[i] = g.Key
	}

	for i := 0; i < 5; i++ {
		again := AssignWaves(build(), cfg)
		keys := make([]string, len(again))
		for j, g := range again {
			keys[j] = g.Key
		}
		if !reflect.DeepEqual(keys, firstKeys) {
			t.Fatalf("ranking changed between runs: %v vs %v", keys, firstKeys)
		}
	}
}

func TestGroupScore(t *testing.T) {
	cfg := testConfig(t)

	batch := []*Candidate{
		waveCandidate("DOGE1", 250000, 100000, 200, 3),
		waveCandidate("DOGE2", 250000, 100000, 200, 3),
	}
	groups := AssignWaves(batch, cfg)

	// 2 members + 200000/100000 + 400/200 = 6
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Score != 6 {
		t.Errorf("group score = %v, want 6", groups[0].Score)
	}
}
