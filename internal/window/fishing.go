package window

import (
	"sort"
	"strings"
	"time"

	"github.com/lox/whitegate/internal/score"
)

// FishingWindow is one recommended two-hour slot.
type FishingWindow struct {
	Day     time.Time // start of the slot's calendar day, local
	Start   time.Time
	End     time.Time // last hour start + 59 min, matching the card display
	Score   float64   // mean composite over the slot
	Class   string
	Targets string
	Details string
}

// speciesByMonth suggests likely inshore species for the Cork coast.
var speciesByMonth = map[time.Month][]string{
	time.January:   {"flounder", "whiting", "codling (boat)"},
	time.February:  {"flounder", "whiting", "codling (boat)"},
	time.March:     {"flounder", "pollack (some)", "early bass (odd)"},
	time.April:     {"bass", "pollack", "wrasse"},
	time.May:       {"bass", "pollack", "wrasse", "mackerel (first)"},
	time.June:      {"bass", "pollack", "wrasse", "mackerel", "garfish", "mullet"},
	time.July:      {"bass", "pollack", "wrasse", "mackerel", "garfish", "mullet"},
	time.August:    {"bass", "pollack", "wrasse", "mackerel", "garfish", "mullet"},
	time.September: {"bass", "pollack", "wrasse", "mackerel (tail)", "mullet"},
	time.October:   {"bass", "pollack", "wrasse (tail)", "mackerel (odd)"},
	time.November:  {"bass", "pollack (boat)", "flounder", "codling (start)"},
	time.December:  {"flounder", "bass (odd)", "codling (boat)"},
}

// SpeciesTargets returns the suggested targets line for a month.
func SpeciesTargets(m time.Month) string {
	sp := speciesByMonth[m]
	if len(sp) == 0 {
		return "—"
	}
	return strings.Join(sp, ", ")
}

// TopDailyWindows groups scored hours by local calendar day and returns,
// per day in date order, the topN slot-hour windows ranked by mean score
// descending. Ties keep the earlier slot.
func TopDailyWindows(hours []score.FishingHour, slotHours, topN int, great, ok float64) []FishingWindow {
	byDay := map[string][]score.FishingHour{}
	var dayKeys []string
	for _, h := range hours {
		key := h.Record.Time.Format("2006-01-02")
		if _, seen := byDay[key]; !seen {
			dayKeys = append(dayKeys, key)
		}
		byDay[key] = append(byDay[key], h)
	}
	sort.Strings(dayKeys)

	var out []FishingWindow
	for _, key := range dayKeys {
		hrs := byDay[key]
		sort.SliceStable(hrs, func(i, j int) bool {
			return hrs[i].Record.Time.Before(hrs[j].Record.Time)
		})

		type slot struct {
			mean    float64
			start   time.Time
			end     time.Time
			details string
		}
		var slots []slot
		for i := 0; i+slotHours <= len(hrs); i++ {
			seg := hrs[i : i+slotHours]
			sum := 0.0
			notes := make([]string, 0, slotHours)
			for _, h := range seg {
				sum += h.Score
				notes = append(notes, h.Notes)
			}
			slots = append(slots, slot{
				mean:    sum / float64(slotHours),
				start:   seg[0].Record.Time,
				end:     seg[len(seg)-1].Record.Time.Add(59 * time.Minute),
				details: strings.Join(notes, "; "),
			})
		}
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].mean > slots[j].mean })
		if len(slots) > topN {
			slots = slots[:topN]
		}

		month := hrs[0].Record.Time.Month()
		targets := SpeciesTargets(month)
		day := hrs[0].Record.Time.Truncate(24 * time.Hour)
		for _, s := range slots {
			out = append(out, FishingWindow{
				Day:     day,
				Start:   s.start,
				End:     s.end,
				Score:   s.mean,
				Class:   score.ClassifyFishing(s.mean, great, ok),
				Targets: targets,
				Details: s.details,
			})
		}
	}
	return out
}
