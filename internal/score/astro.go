package score

import (
	"fmt"
	"math"

	"github.com/lox/whitegate/internal/astro"
	"github.com/lox/whitegate/internal/config"
	"github.com/lox/whitegate/internal/models"
)

// Component names of the astro composite, used for limiting-factor
// aggregation and report notes.
const (
	CompClouds     = "clouds"
	CompVisibility = "visibility"
	CompDewSpread  = "dewspread"
	CompWind       = "wind"
	CompPrecip     = "precip"
	CompBrightness = "brightness"
)

// AstroComponents lists the named components in report order.
var AstroComponents = []string{
	CompClouds, CompBrightness, CompDewSpread, CompVisibility, CompWind, CompPrecip,
}

// HourQuality is the scored result for one hour: the clamped composite plus
// the per-factor breakdown that aggregation and rendering consume.
type HourQuality struct {
	Record models.HourlyRecord

	Score      float64
	Components map[string]float64
	Notes      map[string]string

	FogRisk int
	SQM     float64
	Airmass float64
}

// AstroScorer combines the astro sub-scores into the nightly composite.
type AstroScorer struct {
	Weights     config.AstroWeights
	BaselineSQM float64
}

// ScoreHour scores one hourly record given its geometry sample.
func (a AstroScorer) ScoreHour(h models.HourlyRecord, g astro.Sample) HourQuality {
	clouds := CloudScore(h)
	vis := VisibilityScore(h)
	dew, spread := DewSpreadScore(h)
	wind := WindScore(h)
	precip := PrecipScore(h)
	fog := FogRisk(spread, h.WindSpeedMS, h.VisibilityKm)

	x := 1.0
	if g.Target != nil {
		x = astro.Airmass(math.Max(0, g.Target.AltDeg))
	}

	sqm, bright := Brightness(a.BaselineSQM, g.MoonPhaseFrac, g.Moon.AltDeg, g.MoonTargetSepDeg, x)

	composite := a.Weights.Clouds*clouds.Value +
		a.Weights.Visibility*vis.Value +
		a.Weights.DewSpread*dew.Value +
		a.Weights.Wind*wind.Value +
		a.Weights.Precip*precip.Value +
		a.Weights.Brightness*bright.Value

	brightNote := fmt.Sprintf("%s, moon_alt=%.0f°, illum=%d%%",
		bright.Note, g.Moon.AltDeg, int(math.Round(g.MoonPhaseFrac*100)))
	if g.MoonTargetSepDeg != nil {
		brightNote += fmt.Sprintf(", sep=%.0f°", *g.MoonTargetSepDeg)
	}

	return HourQuality{
		Record: h,
		Score:  clamp(composite, 0, 100),
		Components: map[string]float64{
			CompClouds:     clouds.Value,
			CompVisibility: vis.Value,
			CompDewSpread:  dew.Value,
			CompWind:       wind.Value,
			CompPrecip:     precip.Value,
			CompBrightness: bright.Value,
		},
		Notes: map[string]string{
			CompClouds:     clouds.Note,
			CompVisibility: vis.Note,
			CompDewSpread:  dew.Note,
			CompWind:       wind.Note,
			CompPrecip:     precip.Note,
			CompBrightness: brightNote,
		},
		FogRisk: fog,
		SQM:     sqm,
		Airmass: x,
	}
}

// Classify maps a composite score to the astro vocabulary.
func Classify(score, great, ok float64) string {
	switch {
	case score >= great:
		return "GREAT"
	case score >= ok:
		return "OK"
	default:
		return "POOR"
	}
}

// ClassifyFishing maps a composite score to the fishing vocabulary using
// the same cut points.
func ClassifyFishing(score, good, fair float64) string {
	switch {
	case score >= good:
		return "GOOD"
	case score >= fair:
		return "FAIR"
	default:
		return "POOR"
	}
}
