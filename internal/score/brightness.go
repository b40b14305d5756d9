package score

import (
	"fmt"
	"math"
)

// sqmKnots maps estimated sky darkness (mag/arcsec²) to a 0-100 score by
// piecewise-linear interpolation, clamped at both ends.
var sqmKnots = [5][2]float64{
	{17.5, 10},
	{18.5, 35},
	{19.5, 60},
	{20.5, 85},
	{21.5, 100},
}

func interpSQM(x float64) float64 {
	if x <= sqmKnots[0][0] {
		return sqmKnots[0][1]
	}
	if x >= sqmKnots[len(sqmKnots)-1][0] {
		return sqmKnots[len(sqmKnots)-1][1]
	}
	for i := 0; i < len(sqmKnots)-1; i++ {
		x0, y0 := sqmKnots[i][0], sqmKnots[i][1]
		x1, y1 := sqmKnots[i+1][0], sqmKnots[i+1][1]
		if x >= x0 && x <= x1 {
			t := (x - x0) / (x1 - x0)
			return y0 + t*(y1-y0)
		}
	}
	return 60
}

// Brightness estimates sky darkness from lunar geometry and scores it.
//
// With the moon below the horizon the darkness is the site baseline.
// Otherwise the moon subtracts up to 2.5 mag depending on phase, altitude,
// separation from the target (nil = no target, no separation attenuation)
// and target airmass; the estimate is bounded to [17,22] mag/arcsec².
func Brightness(baselineSQM, phaseFrac, moonAltDeg float64, sepDeg *float64, targetAirmass float64) (sqm float64, s SubScore) {
	if moonAltDeg <= 0 {
		sqm = baselineSQM
	} else {
		alt := math.Max(0, math.Sin(moonAltDeg*math.Pi/180))
		sepTerm := 1.0
		if sepDeg != nil {
			sepTerm = 1 / (1 + math.Pow(*sepDeg/40, 2))
		}
		x := math.Max(1, targetAirmass)
		deltaMag := 2.5 * math.Min(1, phaseFrac*alt*sepTerm/math.Pow(x, 0.7))
		sqm = clamp(baselineSQM-deltaMag, 17, 22)
	}
	return sqm, SubScore{Value: interpSQM(sqm), Note: fmt.Sprintf("SQM≈%.2f", sqm)}
}
