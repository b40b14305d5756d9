// Package report assembles the JSON payloads behind the three cards. A
// payload is built fresh each run from already-scored data; the only
// non-deterministic fields are the generated-at timestamps, which the
// caller injects.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lox/whitegate/internal/window"
)

const (
	fmtDay  = "Mon 02 Jan"
	fmtDT   = "Mon 02 Jan 15:04"
	fmtTime = "15:04"
	fmtBest = "2006-01-02 15:04"
)

// Target identifies the optional fixed deep-sky target.
type Target struct {
	RA  string `json:"ra"`
	Dec string `json:"dec"`
}

// Night is one dark window in the astro payload.
type Night struct {
	Label      string  `json:"label"`
	Start      string  `json:"start"` // ISO 8601, site zone
	End        string  `json:"end"`
	StartLocal string  `json:"start_local"` // HH:MM for the card
	EndLocal   string  `json:"end_local"`
	Score      float64 `json:"score"`
	Class      string  `json:"class"`
	Worst      string  `json:"worst"`
	Best2H     string  `json:"best2h,omitempty"`
	Notes      string  `json:"notes"`
}

// AstroPayload is the astro card document.
type AstroPayload struct {
	GeneratedAt      string  `json:"generated_at"` // UTC ISO 8601
	GeneratedAtLocal string  `json:"generated_at_local"`
	Location         string  `json:"location"`
	Nights           []Night `json:"nights"`
	BaselineSQM      float64 `json:"baseline_sqm"`
	Target           *Target `json:"target"`
}

// BuildAstro turns aggregated night summaries into the astro payload.
// Nights sort chronologically by start unless sortByScore is set, which
// orders them best-first instead.
func BuildAstro(now time.Time, loc *time.Location, location string, summaries []window.NightSummary, baselineSQM float64, target *Target, sortByScore bool) AstroPayload {
	ordered := make([]window.NightSummary, len(summaries))
	copy(ordered, summaries)
	if sortByScore {
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })
	} else {
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start.Before(ordered[j].Start) })
	}

	nights := make([]Night, 0, len(ordered))
	for _, s := range ordered {
		n := Night{
			Label:      s.Label,
			Start:      s.Start.Format(time.RFC3339),
			End:        s.End.Format(time.RFC3339),
			StartLocal: s.Start.Format(fmtTime),
			EndLocal:   s.End.Format(fmtTime),
			Score:      s.Score,
			Class:      s.Class,
			Worst:      s.Limiting,
			Notes: fmt.Sprintf("%s • fog≤%d%%, SQM≈%v, airmass≈%v",
				s.Limiting, s.FogPeak, s.SQMMean, s.AirmassMean),
		}
		if s.Best != nil {
			n.Best2H = fmt.Sprintf("%s → %s (avg %.1f)",
				s.Best.Start.Format(fmtBest), s.Best.End.Format(fmtBest), s.Best.Mean)
		}
		nights = append(nights, n)
	}

	return AstroPayload{
		GeneratedAt:      now.UTC().Format(time.RFC3339),
		GeneratedAtLocal: now.In(loc).Format(fmtDT),
		Location:         location,
		Nights:           nights,
		BaselineSQM:      baselineSQM,
		Target:           target,
	}
}

// FishingWindow is one recommended slot row in the fishing payload.
type FishingWindow struct {
	DayLabel string `json:"day_label"`
	Start    string `json:"start"` // HH:MM
	End      string `json:"end"`
	Score    int    `json:"score"`
	Class    string `json:"cls"`
	Targets  string `json:"targets"`
	Details  string `json:"details"`
}

// FishingPayload is the fishing card document.
type FishingPayload struct {
	GeneratedAtLocal string          `json:"generated_at_local"`
	Windows          []FishingWindow `json:"windows"`
}

// BuildFishing turns ranked daily fishing windows into the fishing payload.
func BuildFishing(now time.Time, loc *time.Location, wins []window.FishingWindow) FishingPayload {
	rows := make([]FishingWindow, 0, len(wins))
	for _, w := range wins {
		rows = append(rows, FishingWindow{
			DayLabel: w.Start.Format(fmtDay),
			Start:    w.Start.Format(fmtTime),
			End:      w.End.Format(fmtTime),
			Score:    int(math.Round(w.Score)),
			Class:    w.Class,
			Targets:  w.Targets,
			Details:  w.Details,
		})
	}
	return FishingPayload{
		GeneratedAtLocal: now.In(loc).Format(fmtDT),
		Windows:          rows,
	}
}
