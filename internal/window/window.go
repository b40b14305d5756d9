// Package window derives labeled time windows from hourly records: the
// astronomically dark stretches of each night, and the best short fishing
// slots of each day.
package window

import (
	"sort"
	"time"

	"github.com/lox/whitegate/internal/models"
)

// Window is one contiguous qualifying run after buffer trimming.
type Window struct {
	Start time.Time
	End   time.Time
	Label string
}

const labelFormat = "Mon 02 Jan"

// Builder emits dark windows from an hourly forecast. An hour qualifies
// when the predicate reports true (solar altitude at or below the dark
// threshold); runs are trimmed by the twilight buffers and dropped when
// trimming collapses them.
type Builder struct {
	StartBufferH float64
	EndBufferH   float64
}

// Nights scans hours in ascending time order and emits one window per
// contiguous qualifying run. The raw end of a run is the last qualifying
// sample, not the first non-qualifying one. A run still open at the end of
// input is flushed.
func (b Builder) Nights(hours []models.HourlyRecord, isDark func(models.HourlyRecord) bool) []Window {
	sorted := make([]models.HourlyRecord, len(hours))
	copy(sorted, hours)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var wins []Window
	inDark := false
	var startAt, prevAt time.Time

	emit := func(rawStart, rawEnd time.Time) {
		start := rawStart.Add(time.Duration(b.StartBufferH * float64(time.Hour)))
		end := rawEnd.Add(-time.Duration(b.EndBufferH * float64(time.Hour)))
		if start.Before(end) {
			wins = append(wins, Window{Start: start, End: end, Label: start.Format(labelFormat)})
		}
	}

	for _, h := range sorted {
		if h.Time.IsZero() {
			continue
		}
		// Duplicate timestamps add nothing to run detection.
		if !prevAt.IsZero() && h.Time.Equal(prevAt) {
			continue
		}
		dark := isDark(h)

		if dark && !inDark {
			inDark = true
			startAt = h.Time
		}
		if inDark && !dark {
			end := prevAt
			if end.IsZero() {
				end = h.Time
			}
			emit(startAt, end)
			inDark = false
		}
		prevAt = h.Time
	}

	if inDark && !startAt.IsZero() && !prevAt.IsZero() {
		emit(startAt, prevAt)
	}
	return wins
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
