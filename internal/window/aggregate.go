package window

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lox/whitegate/internal/score"
)

// BestSlot is the best contiguous fixed-length run inside a window.
type BestSlot struct {
	Start time.Time
	End   time.Time
	Mean  float64
}

// NightSummary aggregates one dark window's scored hours.
type NightSummary struct {
	Window

	Score    float64 // mean composite, 1 decimal
	Class    string
	Limiting string // three lowest factor averages, ascending
	Best     *BestSlot

	FogPeak     int
	SQMMean     float64 // 2 decimals
	AirmassMean float64 // 2 decimals
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Aggregate summarises the scored hours that fall inside w (inclusive
// bounds). Returns false when no hours land in the window; such windows
// are dropped from the report rather than emitted empty.
func Aggregate(w Window, scored []score.HourQuality, slotHours int, great, ok float64) (NightSummary, bool) {
	var hrs []score.HourQuality
	for _, h := range scored {
		if w.Contains(h.Record.Time) {
			hrs = append(hrs, h)
		}
	}
	if len(hrs) == 0 {
		return NightSummary{}, false
	}

	scores := make([]float64, len(hrs))
	for i, h := range hrs {
		scores[i] = h.Score
	}
	nightScore := round1(mean(scores))

	s := NightSummary{
		Window:   w,
		Score:    nightScore,
		Class:    score.Classify(nightScore, great, ok),
		Limiting: limitingFactors(hrs),
		Best:     bestSlot(hrs, slotHours),
	}

	fogPeak := 0
	var sqms, airmasses []float64
	for _, h := range hrs {
		if h.FogRisk > fogPeak {
			fogPeak = h.FogRisk
		}
		sqms = append(sqms, h.SQM)
		airmasses = append(airmasses, h.Airmass)
	}
	s.FogPeak = fogPeak
	s.SQMMean = round2(mean(sqms))
	s.AirmassMean = round2(mean(airmasses))

	return s, true
}

// limitingFactors averages each named component over the window and
// formats the three lowest, ascending. Ties keep the canonical component
// order, so output is deterministic.
func limitingFactors(hrs []score.HourQuality) string {
	type avg struct {
		name  string
		order int
		value float64
	}
	avgs := make([]avg, 0, len(score.AstroComponents))
	for i, name := range score.AstroComponents {
		sum := 0.0
		for _, h := range hrs {
			sum += h.Components[name]
		}
		avgs = append(avgs, avg{name: name, order: i, value: sum / float64(len(hrs))})
	}
	sort.Slice(avgs, func(i, j int) bool {
		if avgs[i].value != avgs[j].value {
			return avgs[i].value < avgs[j].value
		}
		return avgs[i].order < avgs[j].order
	})

	parts := make([]string, 0, 3)
	for _, a := range avgs[:3] {
		parts = append(parts, fmt.Sprintf("%s:%d", a.name, int(math.Round(a.value))))
	}
	return strings.Join(parts, ", ")
}

// bestSlot slides a fixed-length window over consecutive hours and keeps
// the position with the strictly greatest mean; on ties the earliest slot
// wins. Returns nil when the window holds fewer hours than the slot.
func bestSlot(hrs []score.HourQuality, slotHours int) *BestSlot {
	if slotHours <= 0 || len(hrs) < slotHours {
		return nil
	}
	var best *BestSlot
	bestMean := -1.0
	for i := 0; i+slotHours <= len(hrs); i++ {
		seg := hrs[i : i+slotHours]
		sum := 0.0
		for _, h := range seg {
			sum += h.Score
		}
		m := sum / float64(slotHours)
		if m > bestMean {
			bestMean = m
			best = &BestSlot{
				Start: seg[0].Record.Time,
				End:   seg[len(seg)-1].Record.Time,
				Mean:  m,
			}
		}
	}
	return best
}
