package astro

import (
	"math"
	"testing"
	"time"
)

var whitegate = Observer{LatDeg: 51.8268, LonDeg: -8.2321, ElevM: 20}

func TestAirmass(t *testing.T) {
	tests := []struct {
		name   string
		altDeg float64
		want   float64
		tol    float64
	}{
		{name: "zenith", altDeg: 90, want: 1.0, tol: 0.001},
		{name: "45 degrees", altDeg: 45, want: 1.41, tol: 0.02},
		{name: "30 degrees", altDeg: 30, want: 2.0, tol: 0.02},
		{name: "10 degrees", altDeg: 10, want: 5.6, tol: 0.2},
		{name: "horizon", altDeg: 0, want: AirmassSentinel, tol: 0},
		{name: "below horizon", altDeg: -5, want: AirmassSentinel, tol: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Airmass(tt.altDeg)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Airmass(%v) = %v, want %v ± %v", tt.altDeg, got, tt.want, tt.tol)
			}
		})
	}
}

func TestAirmassMonotonic(t *testing.T) {
	prev := Airmass(90)
	for alt := 89.0; alt > 0; alt-- {
		m := Airmass(alt)
		if m < prev {
			t.Fatalf("airmass decreased from %v to %v at alt %v", prev, m, alt)
		}
		prev = m
	}
}

func TestSunAltitudeDayNight(t *testing.T) {
	// Local solar noon in mid June: the sun is clearly up at 51.8° N.
	noon := time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)
	if alt := whitegate.SunAltDeg(noon); alt < 40 {
		t.Errorf("midsummer noon sun altitude = %.1f, want > 40", alt)
	}

	// Solar midnight in mid June: down, but not astronomically dark at
	// this latitude (never below -18 near solstice).
	midnight := time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC)
	alt := whitegate.SunAltDeg(midnight)
	if alt > -5 || alt < -18 {
		t.Errorf("midsummer midnight sun altitude = %.1f, want in (-18, -5)", alt)
	}

	// Midwinter midnight is well into astronomical night.
	winter := time.Date(2025, 12, 15, 1, 0, 0, 0, time.UTC)
	if alt := whitegate.SunAltDeg(winter); alt > -18 {
		t.Errorf("midwinter midnight sun altitude = %.1f, want <= -18", alt)
	}
}

func TestComputeMoonPhaseRange(t *testing.T) {
	// Phase fraction stays in [0,1] across a full synodic month.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 30; d++ {
		s := whitegate.Compute(start.AddDate(0, 0, d), nil, nil)
		if s.MoonPhaseFrac < 0 || s.MoonPhaseFrac > 1 {
			t.Fatalf("day %d: phase fraction %v out of [0,1]", d, s.MoonPhaseFrac)
		}
	}
}

func TestComputeKnownFullMoon(t *testing.T) {
	// 2025-03-14 06:55 UTC was a full moon.
	s := whitegate.Compute(time.Date(2025, 3, 14, 6, 55, 0, 0, time.UTC), nil, nil)
	if s.MoonPhaseFrac < 0.97 {
		t.Errorf("full moon phase fraction = %v, want >= 0.97", s.MoonPhaseFrac)
	}

	// 2025-03-29 was a new moon.
	s = whitegate.Compute(time.Date(2025, 3, 29, 11, 0, 0, 0, time.UTC), nil, nil)
	if s.MoonPhaseFrac > 0.03 {
		t.Errorf("new moon phase fraction = %v, want <= 0.03", s.MoonPhaseFrac)
	}
}

func TestComputeTarget(t *testing.T) {
	// Polaris: RA 2h31m ≈ 37.95°, Dec +89.26°. Its altitude from any
	// northern site stays within a degree of the site latitude.
	ra, dec := 37.95, 89.26
	s := whitegate.Compute(time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC), &ra, &dec)
	if s.Target == nil {
		t.Fatal("Target = nil, want computed body")
	}
	if math.Abs(s.Target.AltDeg-whitegate.LatDeg) > 1.5 {
		t.Errorf("Polaris altitude = %.2f, want ≈ %.2f", s.Target.AltDeg, whitegate.LatDeg)
	}
	if s.MoonTargetSepDeg == nil {
		t.Fatal("MoonTargetSepDeg = nil, want separation")
	}
	if *s.MoonTargetSepDeg < 0 || *s.MoonTargetSepDeg > 180 {
		t.Errorf("separation = %v, want in [0,180]", *s.MoonTargetSepDeg)
	}
}

func TestComputeNoTarget(t *testing.T) {
	s := whitegate.Compute(time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC), nil, nil)
	if s.Target != nil || s.MoonTargetSepDeg != nil {
		t.Error("expected nil target geometry without target coordinates")
	}
}

func TestComputeDeterministic(t *testing.T) {
	at := time.Date(2025, 10, 13, 23, 0, 0, 0, time.UTC)
	a := whitegate.Compute(at, nil, nil)
	b := whitegate.Compute(at, nil, nil)
	if a != b {
		t.Errorf("Compute not deterministic: %+v != %+v", a, b)
	}
}
