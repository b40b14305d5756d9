package score

import (
	"fmt"
	"math"
	"time"

	"github.com/lox/whitegate/internal/config"
	"github.com/lox/whitegate/internal/models"
)

// Fishing component names.
const (
	FishWind     = "wind"
	FishClouds   = "clouds"
	FishPrecip   = "precip"
	FishPressure = "pressure"
	FishHumidity = "humidity"
	FishWave     = "wave"
	FishSeaTemp  = "seatemp"
	FishTide     = "tide"
)

// FishWindScore uses the fishing wind tiers, which reward light-but-not-dead
// air more finely than the astro tiers. Gusts over 10 m/s cost 10 points.
// Neutral 60 when missing.
func FishWindScore(ws, gust *float64) SubScore {
	if ws == nil {
		return SubScore{Value: 60, Note: "wind:?"}
	}
	w := *ws
	var base float64
	switch {
	case w <= 2:
		base = 100
	case w <= 4:
		base = 90
	case w <= 6:
		base = 75
	case w <= 8:
		base = 55
	case w <= 12:
		base = 35
	default:
		base = 15
	}
	note := fmt.Sprintf("wind=%.1fm/s", w)
	if gust != nil {
		if *gust > 10 {
			base -= 10
		}
		note += fmt.Sprintf(", gust=%.1f", *gust)
	}
	return SubScore{Value: math.Max(0, base), Note: note}
}

// FishCloudScore peaks at 50% cover: overcast flattens light, bare sun
// spooks fish. Neutral 60 when missing.
func FishCloudScore(total *float64) SubScore {
	if total == nil {
		return SubScore{Value: 60, Note: "cloud:?"}
	}
	t := *total
	s := math.Max(0, 100-math.Abs(t-50)*1.2)
	return SubScore{Value: s, Note: fmt.Sprintf("cloud=%d%%", int(math.Round(t)))}
}

// FishPrecipScore tolerates drizzle better than the astro variant.
// Neutral 80 when missing.
func FishPrecipScore(mm *float64) SubScore {
	if mm == nil {
		return SubScore{Value: 80, Note: "rain:?"}
	}
	p := *mm
	switch {
	case p == 0:
		return SubScore{Value: 100, Note: "rain=0"}
	case p <= 0.2:
		return SubScore{Value: 70, Note: fmt.Sprintf("rain=%.2fmm", p)}
	default:
		return SubScore{Value: 30, Note: fmt.Sprintf("rain=%.2fmm", p)}
	}
}

// PressureTrendScore compares the current pressure against the reading
// three hours earlier; a stable barometer scores best. Neutral 60 when
// either reading is missing.
func PressureTrendScore(now, prev3h *float64) SubScore {
	if now == nil || prev3h == nil {
		return SubScore{Value: 60, Note: "ΔP:?"}
	}
	dp := *now - *prev3h
	var s float64
	switch {
	case dp >= -2 && dp <= 2:
		s = 85
	case dp >= -4 && dp <= 4:
		s = 70
	default:
		s = 45
	}
	return SubScore{Value: s, Note: fmt.Sprintf("ΔP=%+.1f hPa/3h", dp)}
}

// HumidityScore scores relative humidity, best inside [40,85]%.
// Neutral 70 when missing.
func HumidityScore(rh *float64) SubScore {
	if rh == nil {
		return SubScore{Value: 70, Note: "rh:?"}
	}
	h := *rh
	var s float64
	switch {
	case h >= 40 && h <= 85:
		s = 85
	case h >= 30 && h <= 90:
		s = 70
	default:
		s = 55
	}
	return SubScore{Value: s, Note: fmt.Sprintf("rh=%d%%", int(math.Round(h)))}
}

// WaveScore blends wave height (0.6) and period (0.4). Without direct wave
// data it falls back to a wind-derived proxy, and to neutral 70 with no
// wind either.
func WaveScore(heightM, periodS, windMS *float64) SubScore {
	if heightM == nil && periodS == nil {
		if windMS == nil {
			return SubScore{Value: 70, Note: "wave:?"}
		}
		w := *windMS
		var s float64
		switch {
		case w <= 6:
			s = 65
		case w <= 10:
			s = 45
		default:
			s = 25
		}
		return SubScore{Value: s, Note: fmt.Sprintf("wave≈(wind %.1fm/s)", w)}
	}

	h := 0.8
	if heightM != nil {
		h = *heightM
	}
	t := 7.0
	if periodS != nil {
		t = *periodS
	}

	var sh float64
	switch {
	case h <= 0.5:
		sh = 100
	case h <= 0.8:
		sh = 85
	case h <= 1.2:
		sh = 70
	case h <= 1.8:
		sh = 45
	default:
		sh = 20
	}
	var st float64
	switch {
	case t < 5:
		st = 60
	case t <= 10:
		st = 85
	default:
		st = 75
	}
	return SubScore{Value: 0.6*sh + 0.4*st, Note: fmt.Sprintf("wave=%.1fm/%.0fs", h, t)}
}

// SeaTempScore scores sea surface temperature for inshore species.
// Neutral 70 when missing.
func SeaTempScore(tC *float64) SubScore {
	if tC == nil {
		return SubScore{Value: 70, Note: "SST:?"}
	}
	t := *tC
	var s float64
	switch {
	case t > 17:
		s = 95
	case t >= 10:
		s = 85
	case t >= 8:
		s = 60
	default:
		s = 45
	}
	return SubScore{Value: s, Note: fmt.Sprintf("SST=%.1f°C", t)}
}

// Tide phase rate thresholds, m/h.
const slackRate = 0.03

// TidePhase classifies the height rate of change.
func TidePhase(rateMH float64) string {
	switch {
	case rateMH > slackRate:
		return "flood"
	case rateMH < -slackRate:
		return "ebb"
	default:
		return "slack"
	}
}

// TideScore scores tidal movement at the given UTC instant. Moving water
// scores best, flooding gets a small bonus, slack is penalised, and an
// approaching extreme within two hours adds a timing bonus (low tides more
// than highs). Neutral 60 without a height series.
func TideScore(atUTC time.Time, tide models.TideData) SubScore {
	if len(tide.Heights) == 0 {
		return SubScore{Value: 60, Note: "tide:?"}
	}

	// Bracketing samples around the target time give the rate estimate.
	idx := len(tide.Heights) - 1
	for i, h := range tide.Heights {
		if !h.Time.Before(atUTC) {
			idx = i
			break
		}
	}
	i0 := idx - 1
	if i0 < 0 {
		i0 = 0
	}
	i1 := idx + 1
	if i1 > len(tide.Heights)-1 {
		i1 = len(tide.Heights) - 1
	}
	h0, h1 := tide.Heights[i0], tide.Heights[i1]
	dtH := h1.Time.Sub(h0.Time).Hours()
	if dtH == 0 {
		dtH = 1
	}
	rate := (h1.Height - h0.Height) / dtH
	phase := TidePhase(rate)

	var next *models.TideExtreme
	for i := range tide.Extremes {
		if !tide.Extremes[i].Time.Before(atUTC) {
			next = &tide.Extremes[i]
			break
		}
	}
	nextLab := "next:?"
	var hNext float64
	if next != nil {
		hNext = math.Abs(next.Time.Sub(atUTC).Hours())
		nextLab = fmt.Sprintf("next %s in %.1fh", stringsLower(next.Type), hNext)
	}

	sMove := math.Min(100, 40+math.Min(60, math.Abs(rate)*300))
	sPhase := 0.0
	if rate > slackRate {
		sPhase = 5
	}
	sSlack := 0.0
	if phase == "slack" {
		sSlack = -15
	}
	timing := 0.0
	if next != nil && hNext <= 2 {
		if next.Type == models.ExtremeHigh {
			timing = 6
		} else {
			timing = 10
		}
	}

	s := clamp(sMove+sPhase+sSlack+timing, 0, 100)
	return SubScore{Value: s, Note: fmt.Sprintf("tide=%s %+.2f m/h, %s", phase, rate, nextLab)}
}

func stringsLower(t models.ExtremeType) string {
	if t == models.ExtremeHigh {
		return "high"
	}
	return "low"
}

// Marine holds the optional direct marine observations (wave height/period,
// sea temperature) that override the wind-derived proxies.
type Marine struct {
	WaveHeightM *float64
	WavePeriodS *float64
	SeaTempC    *float64
}

// FishingScorer combines the fishing sub-scores into a composite.
type FishingScorer struct {
	Weights config.FishingWeights
}

// FishingHour is one scored hour of the fishing outlook.
type FishingHour struct {
	Record models.HourlyRecord
	Score  float64
	Notes  string
}

// dawnDuskBonus is added when the sun sits in the feeding band around
// sunrise/sunset.
const dawnDuskBonus = 6.0

// ScoreHour scores one hour. prevPressure is the pressure three hours
// earlier (nil when unavailable); sunAltDeg drives the dawn/dusk bonus.
func (f FishingScorer) ScoreHour(h models.HourlyRecord, prevPressure *float64, marine Marine, tide models.TideData, sunAltDeg float64) FishingHour {
	wind := FishWindScore(h.WindSpeedMS, h.WindGustMS)
	cloud := FishCloudScore(h.CloudTotal)
	rain := FishPrecipScore(h.PrecipMM)
	press := PressureTrendScore(h.PressureHPa, prevPressure)
	hum := HumidityScore(h.HumidityPct)
	wave := WaveScore(marine.WaveHeightM, marine.WavePeriodS, h.WindSpeedMS)
	sst := SeaTempScore(marine.SeaTempC)
	td := TideScore(h.Time.UTC(), tide)

	bonus := 0.0
	if sunAltDeg > -12 && sunAltDeg < 6 {
		bonus = dawnDuskBonus
	}

	composite := f.Weights.Wind*wind.Value +
		f.Weights.Clouds*cloud.Value +
		f.Weights.Precip*rain.Value +
		f.Weights.Pressure*press.Value +
		f.Weights.Humidity*hum.Value +
		f.Weights.Wave*wave.Value +
		f.Weights.SeaTemp*sst.Value +
		f.Weights.Tide*td.Value +
		bonus

	return FishingHour{
		Record: h,
		Score:  clamp(composite, 0, 100),
		Notes: wind.Note + "; " + cloud.Note + "; " + rain.Note + "; " +
			press.Note + "; " + wave.Note + "; " + sst.Note + "; " + td.Note,
	}
}
