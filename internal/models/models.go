package models

import "time"

// HourlyRecord is one forecast sample for the site. Fields the provider
// did not return stay nil; scoring falls back to per-factor neutral values
// rather than failing.
type HourlyRecord struct {
	Time time.Time // zone-aware local time

	CloudLow   *float64 // %
	CloudMid   *float64 // %
	CloudHigh  *float64 // %
	CloudTotal *float64 // %

	VisibilityKm *float64
	TempC        *float64
	DewPointC    *float64
	WindSpeedMS  *float64
	WindGustMS   *float64
	PrecipMM     *float64
	PressureHPa  *float64
	HumidityPct  *float64

	Summary string
}

// DailyRecord is one day of the summary forecast used by the weather card.
type DailyRecord struct {
	Date time.Time

	TempMinC    *float64
	TempMaxC    *float64
	CloudTotal  *float64 // %
	PrecipMM    *float64
	WindSpeedMS *float64

	Icon    string
	Summary string
}

// TideHeight is one sample of the hourly tidal height series.
type TideHeight struct {
	Time   time.Time // UTC
	Height float64   // metres
}

// ExtremeType marks a tidal turning point.
type ExtremeType string

const (
	ExtremeHigh ExtremeType = "High"
	ExtremeLow  ExtremeType = "Low"
)

// TideExtreme is a high- or low-tide turning point.
type TideExtreme struct {
	Time   time.Time // UTC
	Type   ExtremeType
	Height float64 // metres
}

// TideData carries both series from the tide provider. A zero value (no
// provider key configured, or the fetch failed) is valid input everywhere;
// tide scoring then falls back to its neutral score.
type TideData struct {
	Heights  []TideHeight
	Extremes []TideExtreme
}
