package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/whitegate/internal/report"
)

func TestAstroCard(t *testing.T) {
	p := report.AstroPayload{
		GeneratedAtLocal: "Sat 01 Mar 14:30",
		Location:         "Whitegate, Co. Cork, IE",
		Nights: []report.Night{
			{
				Label:      "Sat 01 Mar",
				StartLocal: "21:00",
				EndLocal:   "04:00",
				Score:      68.4,
				Class:      "OK",
				Worst:      "clouds:41, brightness:62, dewspread:70",
				Best2H:     "2025-03-01 23:00 → 2025-03-02 00:00 (avg 74.5)",
				Notes:      "clouds:41, brightness:62, dewspread:70 • fog≤12%, SQM≈20.41, airmass≈1",
			},
			{Label: "Sun 02 Mar", StartLocal: "21:00", EndLocal: "03:00", Score: 81.0, Class: "GREAT"},
		},
		BaselineSQM: 20.8,
	}

	html, err := New().AstroCard(p)
	require.NoError(t, err)

	assert.Contains(t, html, "Astrophotography Outlook")
	assert.Contains(t, html, "Updated Sat 01 Mar 14:30")
	assert.Contains(t, html, `<span class="badge OK">OK</span>`)
	assert.Contains(t, html, `<span class="badge GREAT">GREAT</span>`)
	assert.Contains(t, html, "<strong>68</strong>") // display score rounds
	assert.Contains(t, html, "avg 74.5")
	assert.Contains(t, html, "astro-card-size")
	// Missing best slot renders as a dash.
	assert.Contains(t, html, "—")
}

func TestAstroCardEmpty(t *testing.T) {
	html, err := New().AstroCard(report.AstroPayload{GeneratedAtLocal: "x"})
	require.NoError(t, err)
	assert.Contains(t, html, "No dark windows")
}

func TestWeatherCard(t *testing.T) {
	tmin, tmax := 4.3, 11.8
	cloud, wind := 72, 19
	precip := 1.3
	p := report.WeatherPayload{
		GeneratedAtLocal: "Sat 01 Mar 09:00",
		Title:            "Whitegate — 7-Day Weather",
		Rows: []report.WeatherRow{
			{Date: "Sat 01 Mar", TempMin: &tmin, TempMax: &tmax, Cloud: &cloud, Precip: &precip, WindKmh: &wind, Emoji: "🌧️", Summary: "Rain showers"},
			{Date: "Sun 02 Mar", Emoji: "·"},
		},
	}

	html, err := New().WeatherCard(p, "weather-whitegate-size")
	require.NoError(t, err)

	assert.Contains(t, html, "Whitegate — 7-Day Weather")
	assert.Contains(t, html, "4.3°")
	assert.Contains(t, html, "72%")
	assert.Contains(t, html, ">19<")
	assert.Contains(t, html, "weather-whitegate-size")
	// Nil fields render as dashes, one per missing cell.
	assert.GreaterOrEqual(t, strings.Count(html, "—"), 5)
}

func TestFishingCard(t *testing.T) {
	p := report.FishingPayload{
		GeneratedAtLocal: "Tue 10 Jun 05:00",
		Windows: []report.FishingWindow{
			{
				DayLabel: "Tue 10 Jun",
				Start:    "06:00",
				End:      "07:59",
				Score:    88,
				Class:    "GOOD",
				Targets:  "bass, pollack, wrasse",
				Details:  "wind=3.0m/s; tide=flood +0.40 m/h",
			},
		},
	}

	withTides, err := New().FishingCard(p, true)
	require.NoError(t, err)
	assert.Contains(t, withTides, "Fishing Forecast")
	assert.Contains(t, withTides, "06:00–07:59")
	assert.Contains(t, withTides, `<span class="badge GOOD">GOOD</span>`)
	assert.Contains(t, withTides, "tides via WorldTides")

	noTides, err := New().FishingCard(p, false)
	require.NoError(t, err)
	assert.Contains(t, noTides, "tides (no key)")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards", "astro.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteJSONAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fishing.json")

	payload := report.FishingPayload{GeneratedAtLocal: "x"}
	require.NoError(t, WriteJSONAtomic(path, payload))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got report.FishingPayload
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "x", got.GeneratedAtLocal)
	assert.Empty(t, got.Windows)
}
