// Package score turns hourly forecast records into 0-100 quality scores.
//
// Every factor function is total: missing or malformed input yields a
// documented neutral score and a "factor=unknown" note, never an error.
// That keeps the composite scorer runnable over the sparse field coverage
// real providers return.
package score

import (
	"fmt"
	"math"

	"github.com/lox/whitegate/internal/models"
)

// SubScore is one factor's contribution: a 0-100 value and a short
// human-readable annotation for the report.
type SubScore struct {
	Value float64
	Note  string
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// CloudScore scores cloud cover. Tiered cover weights low/mid/high at
// 0.6/0.3/0.1 (a missing tier substitutes the total, or zero); with only a
// total, score is 100-total. Neutral 50 when nothing is reported.
func CloudScore(h models.HourlyRecord) SubScore {
	tierOr := func(tier *float64) float64 {
		if tier != nil {
			return *tier
		}
		if h.CloudTotal != nil {
			return *h.CloudTotal
		}
		return 0
	}

	if h.CloudLow != nil || h.CloudMid != nil || h.CloudHigh != nil {
		v := 0.6*tierOr(h.CloudLow) + 0.3*tierOr(h.CloudMid) + 0.1*tierOr(h.CloudHigh)
		return SubScore{Value: math.Max(0, 100-v), Note: fmt.Sprintf("clouds=%.0f%%", v)}
	}
	if h.CloudTotal != nil {
		return SubScore{Value: math.Max(0, 100-*h.CloudTotal), Note: fmt.Sprintf("clouds=%.0f%%", *h.CloudTotal)}
	}
	return SubScore{Value: 50, Note: "clouds=unknown"}
}

// VisibilityScore maps visibility linearly from [5,25] km onto [0,100].
// Neutral 60 when missing.
func VisibilityScore(h models.HourlyRecord) SubScore {
	if h.VisibilityKm == nil {
		return SubScore{Value: 60, Note: "vis=unknown"}
	}
	vis := *h.VisibilityKm
	s := (vis - 5) / (25 - 5) * 100
	return SubScore{Value: clamp(s, 0, 100), Note: fmt.Sprintf("vis=%.1fkm", vis)}
}

// DewSpreadScore maps the temperature-dewpoint spread linearly from
// [0,8] °C onto [0,100], returning the raw spread for fog-risk scoring.
// Neutral 60 and nil spread when either input is missing.
func DewSpreadScore(h models.HourlyRecord) (SubScore, *float64) {
	if h.TempC == nil || h.DewPointC == nil {
		return SubScore{Value: 60, Note: "ΔT=unknown"}, nil
	}
	spread := *h.TempC - *h.DewPointC
	s := clamp(spread/8*100, 0, 100)
	return SubScore{Value: s, Note: fmt.Sprintf("ΔT=%.1f°C", spread)}, &spread
}

// WindScore is a step function of wind speed with a gust penalty.
// Neutral 60 when speed is missing.
func WindScore(h models.HourlyRecord) SubScore {
	if h.WindSpeedMS == nil {
		return SubScore{Value: 60, Note: "wind=unknown"}
	}
	ws := *h.WindSpeedMS
	var s float64
	switch {
	case ws <= 2:
		s = 100
	case ws <= 5:
		s = 75
	case ws <= 8:
		s = 45
	case ws <= 12:
		s = 25
	default:
		s = 10
	}
	note := fmt.Sprintf("wind=%.1fm/s", ws)
	if h.WindGustMS != nil && *h.WindGustMS > 8 {
		s -= 10
		note += fmt.Sprintf(", gust=%.1f", *h.WindGustMS)
	}
	return SubScore{Value: math.Max(0, s), Note: note}
}

// PrecipScore is a step function of hourly precipitation.
// Neutral 85 when missing.
func PrecipScore(h models.HourlyRecord) SubScore {
	if h.PrecipMM == nil {
		return SubScore{Value: 85, Note: "precip=unknown"}
	}
	p := *h.PrecipMM
	switch {
	case p == 0:
		return SubScore{Value: 100, Note: "precip=0"}
	case p <= 0.05:
		return SubScore{Value: 80, Note: fmt.Sprintf("precip=%.2fmm", p)}
	case p <= 0.2:
		return SubScore{Value: 50, Note: fmt.Sprintf("precip=%.2fmm", p)}
	default:
		return SubScore{Value: 10, Note: fmt.Sprintf("precip=%.2fmm", p)}
	}
}

// FogRisk estimates fog probability 0-100 (higher = riskier, not a quality
// score) from dew spread, wind and visibility. Any missing input simply
// contributes no risk.
func FogRisk(spreadC, windMS, visKm *float64) int {
	risk := 0.0
	if spreadC != nil {
		switch s := *spreadC; {
		case s <= 1:
			risk += 0.6
		case s <= 3:
			risk += 0.35
		case s <= 5:
			risk += 0.15
		}
	}
	if windMS != nil {
		switch w := *windMS; {
		case w <= 1.5:
			risk += 0.25
		case w <= 3:
			risk += 0.10
		}
	}
	if visKm != nil {
		switch v := *visKm; {
		case v < 5:
			risk += 0.25
		case v < 10:
			risk += 0.10
		}
	}
	return int(math.Round(math.Min(1, risk) * 100))
}
