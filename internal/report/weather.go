package report

import (
	"math"
	"strings"
	"time"

	"github.com/lox/whitegate/internal/models"
)

// WeatherRow is one day in the 7-day weather card.
type WeatherRow struct {
	Date    string   `json:"date"`
	TempMin *float64 `json:"tmin"` // 1 decimal
	TempMax *float64 `json:"tmax"`
	Cloud   *int     `json:"cloud"` // %
	Precip  *float64 `json:"precip"`
	WindKmh *int     `json:"wind_kmh"`
	Icon    string   `json:"icon"`
	Emoji   string   `json:"emoji"`
	Summary string   `json:"summary"`
}

// WeatherPayload is one location's daily-summary card document.
type WeatherPayload struct {
	GeneratedAtLocal string       `json:"generated_at_local"`
	Rows             []WeatherRow `json:"rows"`
	Title            string       `json:"title"`
}

// Emoji maps a forecast summary or icon name to a display glyph. Unknown
// conditions get a neutral dot rather than a wrong icon.
func Emoji(name string) string {
	s := strings.ToLower(name)
	switch {
	case s == "":
		return "·"
	case strings.Contains(s, "clear") || strings.Contains(s, "sun"):
		return "☀️"
	case strings.Contains(s, "partly") || strings.Contains(s, "few"):
		return "🌤️"
	case strings.Contains(s, "cloud"):
		return "☁️"
	case strings.Contains(s, "rain") || strings.Contains(s, "drizzle"):
		return "🌧️"
	case strings.Contains(s, "thunder") || strings.Contains(s, "storm"):
		return "⛈️"
	case strings.Contains(s, "snow") || strings.Contains(s, "sleet"):
		return "🌨️"
	case strings.Contains(s, "fog") || strings.Contains(s, "mist") || strings.Contains(s, "haze"):
		return "🌫️"
	}
	return "·"
}

// BuildWeather maps up to limit daily records into the weather payload.
func BuildWeather(now time.Time, loc *time.Location, title string, days []models.DailyRecord, limit int) WeatherPayload {
	if len(days) > limit {
		days = days[:limit]
	}
	rows := make([]WeatherRow, 0, len(days))
	for _, d := range days {
		row := WeatherRow{
			Date:    d.Date.Format(fmtDay),
			Icon:    d.Icon,
			Summary: d.Summary,
		}
		if d.TempMinC != nil {
			v := math.Round(*d.TempMinC*10) / 10
			row.TempMin = &v
		}
		if d.TempMaxC != nil {
			v := math.Round(*d.TempMaxC*10) / 10
			row.TempMax = &v
		}
		if d.CloudTotal != nil {
			v := int(math.Round(*d.CloudTotal))
			row.Cloud = &v
		}
		if d.PrecipMM != nil {
			v := math.Round(*d.PrecipMM*10) / 10
			row.Precip = &v
		}
		if d.WindSpeedMS != nil {
			v := int(math.Round(*d.WindSpeedMS * 3.6))
			row.WindKmh = &v
		}
		name := d.Summary
		if name == "" {
			name = d.Icon
		}
		row.Emoji = Emoji(name)
		rows = append(rows, row)
	}
	return WeatherPayload{
		GeneratedAtLocal: now.In(loc).Format(fmtDT),
		Rows:             rows,
		Title:            title,
	}
}
