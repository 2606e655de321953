package montecarlo

import (
	"math"
	"testing"
)

func TestPointInCircle(t *testing.T) {
	tbl := []struct {
		x        float64
		y        float64
		expected bool
	}{
		{0, 0, true},
		{0.5, 0.5, true},
		{-0.99, 0, true},
		{1, 0, false},
		{0.8, -0.8, false},
		{-1, -1, false},
	}
	for _, tt := range tbl {
		p := Point{X: tt.x, Y: tt.y}
		if p.InCircle() != tt.expected {
			t.Fatalf("InCircle for (%v,%v) should be %v", tt.x, tt.y, tt.expected)
		}
	}
}

func TestEstimate(t *testing.T) {
	const tolerance = 1e-5
	tbl := []struct {
		inCircle   uint64
		total      uint64
		est        float64
		errPercent float64
	}{
		{0, 4, 0, 100},
		{1, 4, 1, 68.169011},
		{2, 4, 2, 36.338023},
		{3, 4, 3, 4.507034},
		{4, 4, 4, 27.323954},
	}
	for _, tt := range tbl {
		est, errPct := Estimate(tt.inCircle, tt.total)
		if math.Abs(est-tt.est) > tolerance {
			t.Fatalf("estimate for %d/%d is %v, expected %v", tt.inCircle, tt.total, est, tt.est)
		}
		if math.Abs(errPct-tt.errPercent) > tolerance {
			t.Fatalf("percent error for %d/%d is %v, expected %v", tt.inCircle, tt.total, errPct, tt.errPercent)
		}
	}
}

func TestTotalPoints(t *testing.T) {
	c := Config{Workers: 4, PointsPerWorker: 32768}
	if n := c.TotalPoints(); n != 262144 {
		t.Fatalf("total points is %d, expected 262144", n)
	}
}

func TestConfigValidation(t *testing.T) {
	bad := []Config{
		{Workers: 0, PointsPerWorker: 10},
		{Workers: 1, PointsPerWorker: 0},
		{Workers: -1, PointsPerWorker: 10},
	}
	for _, cfg := range bad {
		if _, err := Monitor(cfg); err == nil {
			t.Fatalf("Monitor accepted invalid config %+v", cfg)
		}
		if _, err := Sequential(cfg); err == nil {
			t.Fatalf("Sequential accepted invalid config %+v", cfg)
		}
		if _, err := Parallel(cfg); err == nil {
			t.Fatalf("Parallel accepted invalid config %+v", cfg)
		}
	}
}
