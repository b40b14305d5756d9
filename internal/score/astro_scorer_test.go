package score

import (
	"math"
	"testing"
	"time"

	"github.com/lox/whitegate/internal/astro"
	"github.com/lox/whitegate/internal/config"
	"github.com/lox/whitegate/internal/models"
	"github.com/lox/whitegate/internal/units"
)

func testScorer() AstroScorer {
	cfg := config.Default(time.UTC)
	return AstroScorer{Weights: cfg.Astro, BaselineSQM: cfg.BaselineSQM}
}

func moonDown() astro.Sample {
	return astro.Sample{
		Sun:  astro.Body{AltDeg: -30},
		Moon: astro.Body{AltDeg: -10},
	}
}

func TestAstroScoreHourCompositeWeights(t *testing.T) {
	rec := models.HourlyRecord{
		CloudTotal:   units.Ptr(0),   // 100
		VisibilityKm: units.Ptr(25),  // 100
		TempC:        units.Ptr(12),  // spread 8 -> 100
		DewPointC:    units.Ptr(4),
		WindSpeedMS:  units.Ptr(1), // 100
		PrecipMM:     units.Ptr(0), // 100
	}
	got := testScorer().ScoreHour(rec, moonDown())

	// Baseline 20.8 interpolates to 89.5; all else scores 100:
	// 0.8*100 + 0.2*89.5 = 97.9
	if math.Abs(got.Score-97.9) > 1e-9 {
		t.Errorf("composite = %v, want 97.9", got.Score)
	}
	if got.SQM != 20.8 {
		t.Errorf("SQM = %v, want baseline", got.SQM)
	}
	if got.Airmass != 1.0 {
		t.Errorf("airmass without target = %v, want 1.0", got.Airmass)
	}
	if len(got.Components) != 6 {
		t.Errorf("components = %d, want 6", len(got.Components))
	}
}

func TestAstroScoreHourAllMissing(t *testing.T) {
	got := testScorer().ScoreHour(models.HourlyRecord{}, moonDown())

	// 0.40*50 + 0.10*60 + 0.15*60 + 0.10*60 + 0.05*85 + 0.20*89.5 = 63.15
	if math.Abs(got.Score-63.15) > 1e-9 {
		t.Errorf("all-missing composite = %v, want 63.15", got.Score)
	}
	if got.Score < 0 || got.Score > 100 {
		t.Errorf("composite %v out of range", got.Score)
	}
}

func TestAstroScoreHourTargetAirmass(t *testing.T) {
	sep := 60.0
	sample := astro.Sample{
		Sun:              astro.Body{AltDeg: -25},
		Moon:             astro.Body{AltDeg: 30},
		MoonPhaseFrac:    0.5,
		Target:           &astro.Body{AltDeg: 45},
		MoonTargetSepDeg: &sep,
	}
	got := testScorer().ScoreHour(models.HourlyRecord{}, sample)

	want := astro.Airmass(45)
	if got.Airmass != want {
		t.Errorf("airmass = %v, want %v", got.Airmass, want)
	}
	if got.SQM >= 20.8 || got.SQM < 17 {
		t.Errorf("moon-up SQM = %v, want in [17, 20.8)", got.SQM)
	}
}

func TestAstroScoreHourDeterministic(t *testing.T) {
	rec := models.HourlyRecord{
		CloudLow:     units.Ptr(20),
		CloudMid:     units.Ptr(10),
		VisibilityKm: units.Ptr(18),
		TempC:        units.Ptr(9),
		DewPointC:    units.Ptr(6),
		WindSpeedMS:  units.Ptr(3.2),
		WindGustMS:   units.Ptr(9.1),
		PrecipMM:     units.Ptr(0.01),
	}
	a := testScorer().ScoreHour(rec, moonDown())
	b := testScorer().ScoreHour(rec, moonDown())
	if a.Score != b.Score || a.FogRisk != b.FogRisk || a.SQM != b.SQM {
		t.Errorf("scoring not deterministic: %+v vs %+v", a, b)
	}
	for k, v := range a.Components {
		if b.Components[k] != v {
			t.Errorf("component %s differs: %v vs %v", k, v, b.Components[k])
		}
	}
}
