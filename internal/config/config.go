// Package config holds the immutable per-run configuration for the outlook
// pipeline. It is constructed once in cmd and passed down; no package reads
// globals. Validate rejects programmer errors eagerly, before any per-hour
// work runs.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// AstroWeights are the per-factor weights of the astrophotography composite.
// They must sum to 1.0.
type AstroWeights struct {
	Clouds     float64
	Visibility float64
	DewSpread  float64
	Wind       float64
	Precip     float64
	Brightness float64
}

// FishingWeights are the per-factor weights of the fishing composite.
// They must sum to 1.0; the dawn/dusk bonus is additive on top.
type FishingWeights struct {
	Wind     float64
	Clouds   float64
	Precip   float64
	Pressure float64
	Humidity float64
	Wave     float64
	SeaTemp  float64
	Tide     float64
}

// Target is an optional fixed observing target (J2000 coordinates).
type Target struct {
	Name   string
	RADeg  float64
	DecDeg float64
}

// Config is the full pipeline configuration.
type Config struct {
	// Site
	Latitude  float64
	Longitude float64 // degrees east
	Elevation float64 // metres
	Location  *time.Location
	SiteName  string

	Target *Target

	// Dark-window shaping
	SunsetBufferH  float64
	SunriseBufferH float64
	DarkAltitudeDeg float64 // solar altitude at or below which an hour is dark

	// Brightness model
	BaselineSQM float64

	// Scoring
	Astro   AstroWeights
	Fishing FishingWeights

	// Aggregation
	BestSlotHours  int
	GreatThreshold float64
	OKThreshold    float64

	// Report ordering: false = chronological, true = score descending.
	SortByScore bool
}

// Default returns the canonical configuration for the Whitegate site.
func Default(loc *time.Location) Config {
	return Config{
		Latitude:  51.8268,
		Longitude: -8.2321,
		Elevation: 20,
		Location:  loc,
		SiteName:  "Whitegate, Co. Cork, IE",

		SunsetBufferH:   1.0,
		SunriseBufferH:  1.0,
		DarkAltitudeDeg: -18.0,

		BaselineSQM: 20.8,

		Astro: AstroWeights{
			Clouds:     0.40,
			Visibility: 0.10,
			DewSpread:  0.15,
			Wind:       0.10,
			Precip:     0.05,
			Brightness: 0.20,
		},
		Fishing: FishingWeights{
			Wind:     0.25,
			Clouds:   0.08,
			Precip:   0.08,
			Pressure: 0.08,
			Humidity: 0.05,
			Wave:     0.20,
			SeaTemp:  0.06,
			Tide:     0.20,
		},

		BestSlotHours:  2,
		GreatThreshold: 75,
		OKThreshold:    60,
	}
}

const weightTolerance = 1e-6

func (w AstroWeights) sum() float64 {
	return w.Clouds + w.Visibility + w.DewSpread + w.Wind + w.Precip + w.Brightness
}

func (w FishingWeights) sum() float64 {
	return w.Wind + w.Clouds + w.Precip + w.Pressure + w.Humidity + w.Wave + w.SeaTemp + w.Tide
}

// Validate checks the configuration for programmer errors. It must be
// called before the pipeline runs.
func (c Config) Validate() error {
	if c.Location == nil {
		return errors.New("config: location (time zone) is required")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("config: latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("config: longitude %v out of range", c.Longitude)
	}
	if c.SunsetBufferH < 0 || c.SunriseBufferH < 0 {
		return errors.New("config: twilight buffers must be non-negative")
	}
	if s := c.Astro.sum(); math.Abs(s-1.0) > weightTolerance {
		return fmt.Errorf("config: astro weights sum to %.4f, want 1.0", s)
	}
	if s := c.Fishing.sum(); math.Abs(s-1.0) > weightTolerance {
		return fmt.Errorf("config: fishing weights sum to %.4f, want 1.0", s)
	}
	if c.BestSlotHours <= 0 {
		return fmt.Errorf("config: best slot length %d must be positive", c.BestSlotHours)
	}
	if c.GreatThreshold <= c.OKThreshold {
		return fmt.Errorf("config: thresholds out of order (%.1f <= %.1f)", c.GreatThreshold, c.OKThreshold)
	}
	return nil
}
