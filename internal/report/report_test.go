package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/whitegate/internal/models"
	"github.com/lox/whitegate/internal/units"
	"github.com/lox/whitegate/internal/window"
)

func sampleSummaries() []window.NightSummary {
	n1Start := time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC)
	n2Start := time.Date(2025, 3, 2, 21, 0, 0, 0, time.UTC)
	return []window.NightSummary{
		{
			Window:   window.Window{Start: n1Start, End: n1Start.Add(7 * time.Hour), Label: "Sat 01 Mar"},
			Score:    68.4,
			Class:    "OK",
			Limiting: "clouds:41, brightness:62, dewspread:70",
			Best: &window.BestSlot{
				Start: n1Start.Add(2 * time.Hour),
				End:   n1Start.Add(3 * time.Hour),
				Mean:  74.5,
			},
			FogPeak:     12,
			SQMMean:     20.41,
			AirmassMean: 1.0,
		},
		{
			Window:      window.Window{Start: n2Start, End: n2Start.Add(6 * time.Hour), Label: "Sun 02 Mar"},
			Score:       81.0,
			Class:       "GREAT",
			Limiting:    "brightness:55, visibility:78, wind:82",
			FogPeak:     3,
			SQMMean:     20.77,
			AirmassMean: 1.0,
		},
	}
}

func TestBuildAstro(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)
	got := BuildAstro(now, time.UTC, "Whitegate, Co. Cork, IE", sampleSummaries(), 20.8, nil, false)

	assert.Equal(t, "2025-03-01T14:30:00Z", got.GeneratedAt)
	assert.Equal(t, "Sat 01 Mar 14:30", got.GeneratedAtLocal)
	assert.Equal(t, "Whitegate, Co. Cork, IE", got.Location)
	assert.Equal(t, 20.8, got.BaselineSQM)
	assert.Nil(t, got.Target)

	require.Len(t, got.Nights, 2)
	first := got.Nights[0]
	assert.Equal(t, "Sat 01 Mar", first.Label)
	assert.Equal(t, "2025-03-01T21:00:00Z", first.Start)
	assert.Equal(t, "21:00", first.StartLocal)
	assert.Equal(t, "04:00", first.EndLocal)
	assert.Equal(t, 68.4, first.Score)
	assert.Equal(t, "2025-03-01 23:00 → 2025-03-02 00:00 (avg 74.5)", first.Best2H)
	assert.Equal(t, "clouds:41, brightness:62, dewspread:70 • fog≤12%, SQM≈20.41, airmass≈1", first.Notes)

	// No best slot recorded for the second night.
	assert.Empty(t, got.Nights[1].Best2H)
}

func TestBuildAstroSortOrders(t *testing.T) {
	now := time.Now()
	chrono := BuildAstro(now, time.UTC, "x", sampleSummaries(), 20.8, nil, false)
	require.Len(t, chrono.Nights, 2)
	assert.Equal(t, "Sat 01 Mar", chrono.Nights[0].Label)

	byScore := BuildAstro(now, time.UTC, "x", sampleSummaries(), 20.8, nil, true)
	assert.Equal(t, "Sun 02 Mar", byScore.Nights[0].Label)
	assert.Equal(t, 81.0, byScore.Nights[0].Score)
}

func TestBuildAstroIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)
	a, err := json.Marshal(BuildAstro(now, time.UTC, "x", sampleSummaries(), 20.8, nil, false))
	require.NoError(t, err)
	b, err := json.Marshal(BuildAstro(now, time.UTC, "x", sampleSummaries(), 20.8, nil, false))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBuildFishing(t *testing.T) {
	start := time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC)
	wins := []window.FishingWindow{
		{
			Start:   start,
			End:     start.Add(time.Hour + 59*time.Minute),
			Score:   87.5,
			Class:   "GOOD",
			Targets: "bass, pollack, wrasse, mackerel, garfish, mullet",
			Details: "wind=3.0m/s; tide=flood +0.40 m/h",
		},
	}

	now := time.Date(2025, 6, 10, 5, 0, 0, 0, time.UTC)
	got := BuildFishing(now, time.UTC, wins)
	assert.Equal(t, "Tue 10 Jun 05:00", got.GeneratedAtLocal)
	require.Len(t, got.Windows, 1)

	w := got.Windows[0]
	assert.Equal(t, "Tue 10 Jun", w.DayLabel)
	assert.Equal(t, "06:00", w.Start)
	assert.Equal(t, "07:59", w.End)
	assert.Equal(t, 88, w.Score) // rounded for display
	assert.Equal(t, "GOOD", w.Class)
}

func TestBuildWeather(t *testing.T) {
	days := []models.DailyRecord{
		{
			Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			TempMinC:    units.Ptr(4.26),
			TempMaxC:    units.Ptr(11.84),
			CloudTotal:  units.Ptr(72.4),
			PrecipMM:    units.Ptr(1.26),
			WindSpeedMS: units.Ptr(5.2),
			Summary:     "Rain showers",
		},
		{
			Date:    time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			Summary: "Partly cloudy",
		},
	}

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	got := BuildWeather(now, time.UTC, "Whitegate — 7-Day Weather", days, 7)
	assert.Equal(t, "Whitegate — 7-Day Weather", got.Title)
	require.Len(t, got.Rows, 2)

	r := got.Rows[0]
	assert.Equal(t, "Sat 01 Mar", r.Date)
	assert.Equal(t, 4.3, *r.TempMin)
	assert.Equal(t, 11.8, *r.TempMax)
	assert.Equal(t, 72, *r.Cloud)
	assert.Equal(t, 1.3, *r.Precip)
	assert.Equal(t, 19, *r.WindKmh) // 5.2 m/s -> 18.72 km/h
	assert.Equal(t, "🌧️", r.Emoji)

	// Missing fields stay null in the payload.
	r2 := got.Rows[1]
	assert.Nil(t, r2.TempMin)
	assert.Nil(t, r2.WindKmh)
	assert.Equal(t, "🌤️", r2.Emoji)
}

func TestBuildWeatherLimit(t *testing.T) {
	var days []models.DailyRecord
	for i := 0; i < 10; i++ {
		days = append(days, models.DailyRecord{Date: time.Date(2025, 3, 1+i, 0, 0, 0, 0, time.UTC)})
	}
	got := BuildWeather(time.Now(), time.UTC, "x", days, 7)
	assert.Len(t, got.Rows, 7)
}

func TestEmoji(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunny", "☀️"},
		{"Mostly clear", "☀️"},
		{"Partly sunny", "☀️"}, // sun wins over partly
		{"Partly cloudy", "🌤️"},
		{"Overcast, cloudy", "☁️"},
		{"Light drizzle", "🌧️"},
		{"Thunderstorm", "⛈️"},
		{"Snow showers", "🌨️"},
		{"Fog", "🌫️"},
		{"", "·"},
		{"volcanic ash", "·"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Emoji(tt.in), "Emoji(%q)", tt.in)
	}
}
