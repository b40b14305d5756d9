// Package build runs the full card pipeline: gather provider data (or
// replay the last stored snapshots), score, window, and write the JSON
// and HTML artifacts for each card.
package build

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lox/whitegate/internal/astro"
	"github.com/lox/whitegate/internal/config"
	"github.com/lox/whitegate/internal/ingest"
	"github.com/lox/whitegate/internal/metrics"
	"github.com/lox/whitegate/internal/models"
	"github.com/lox/whitegate/internal/render"
	"github.com/lox/whitegate/internal/report"
	"github.com/lox/whitegate/internal/score"
	"github.com/lox/whitegate/internal/store"
	"github.com/lox/whitegate/internal/window"
)

// Cork City centre, for the second weather card.
const (
	corkLat = 51.8985
	corkLon = -8.4756
)

const (
	tideLookbackH = 6
	tideDays      = 7
	weatherDays   = 7
	topWindows    = 3
)

// Builder wires the pipeline. Store is optional; without it snapshots
// are not persisted and offline mode is unavailable.
type Builder struct {
	Config  config.Config
	Weather *ingest.Meteosource
	Tides   *ingest.WorldTides
	Store   *store.Store
	OutDir  string

	// Offline rebuilds from the latest stored snapshots instead of
	// calling the providers.
	Offline bool

	// Marine observations override the wind-derived wave/SST proxies.
	Marine     score.Marine
	HasTideKey bool

	renderer *render.Renderer
}

type inputs struct {
	hours     []models.HourlyRecord
	siteDaily []models.DailyRecord
	corkDaily []models.DailyRecord
	tide      models.TideData
}

// Run executes one full build at the given wall-clock instant.
func (b *Builder) Run(now time.Time) error {
	started := time.Now()
	defer func() {
		metrics.BuildDuration.Observe(time.Since(started).Seconds())
	}()

	if b.renderer == nil {
		b.renderer = render.New()
	}

	in, err := b.gather(now)
	if err != nil {
		return err
	}

	if err := b.buildAstro(now, in.hours); err != nil {
		metrics.BuildRunsTotal.WithLabelValues("astro", "error").Inc()
		return err
	}
	metrics.BuildRunsTotal.WithLabelValues("astro", "ok").Inc()

	if err := b.buildWeather(now, in.siteDaily, in.corkDaily); err != nil {
		metrics.BuildRunsTotal.WithLabelValues("weather", "error").Inc()
		return err
	}
	metrics.BuildRunsTotal.WithLabelValues("weather", "ok").Inc()

	if err := b.buildFishing(now, in.hours, in.tide); err != nil {
		metrics.BuildRunsTotal.WithLabelValues("fishing", "error").Inc()
		return err
	}
	metrics.BuildRunsTotal.WithLabelValues("fishing", "ok").Inc()

	return nil
}

func (b *Builder) gather(now time.Time) (inputs, error) {
	if b.Offline {
		return b.gatherOffline()
	}

	cfg := b.Config
	var in inputs

	hours, rawHourly, err := b.Weather.FetchHourly(cfg.Latitude, cfg.Longitude)
	if err != nil {
		return in, fmt.Errorf("hourly forecast: %w", err)
	}
	in.hours = hours
	b.snapshot("meteosource", "hourly", rawHourly)

	siteDaily, rawSite, err := b.Weather.FetchDaily(cfg.Latitude, cfg.Longitude)
	if err != nil {
		return in, fmt.Errorf("daily forecast: %w", err)
	}
	in.siteDaily = siteDaily
	b.snapshot("meteosource", "daily-whitegate", rawSite)

	corkDaily, rawCork, err := b.Weather.FetchDaily(corkLat, corkLon)
	if err != nil {
		return in, fmt.Errorf("daily forecast (cork): %w", err)
	}
	in.corkDaily = corkDaily
	b.snapshot("meteosource", "daily-cork", rawCork)

	// Start the tide series behind now so rate estimation always has a
	// previous sample.
	tideStart := now.UTC().Truncate(time.Hour).Add(-tideLookbackH * time.Hour)
	tide, rawTides, err := b.Tides.Fetch(cfg.Latitude, cfg.Longitude, tideStart, tideDays)
	if err != nil {
		// Tides degrade to the neutral score; the cards still build.
		log.Printf("build: tide fetch failed, continuing without: %v", err)
	} else {
		in.tide = tide
		if len(rawTides) == 2 {
			b.snapshot("worldtides", "heights", rawTides[0])
			b.snapshot("worldtides", "extremes", rawTides[1])
		}
	}

	return in, nil
}

func (b *Builder) gatherOffline() (inputs, error) {
	var in inputs
	if b.Store == nil {
		return in, fmt.Errorf("offline build requires a snapshot store")
	}
	loc := b.Config.Location

	hourly, fetchedAt, err := b.Store.LatestSnapshot("meteosource", "hourly")
	if err != nil {
		return in, fmt.Errorf("load hourly snapshot: %w", err)
	}
	if hourly == nil {
		return in, fmt.Errorf("no hourly snapshot stored; run online first")
	}
	log.Printf("build: offline, hourly snapshot from %s", fetchedAt.Format(time.RFC3339))

	if in.hours, err = ingest.ParseHourly(hourly, loc); err != nil {
		return in, fmt.Errorf("parse hourly snapshot: %w", err)
	}

	if body, _, err := b.Store.LatestSnapshot("meteosource", "daily-whitegate"); err == nil && body != nil {
		if in.siteDaily, err = ingest.ParseDaily(body, loc); err != nil {
			return in, fmt.Errorf("parse daily snapshot: %w", err)
		}
	}
	if body, _, err := b.Store.LatestSnapshot("meteosource", "daily-cork"); err == nil && body != nil {
		if in.corkDaily, err = ingest.ParseDaily(body, loc); err != nil {
			return in, fmt.Errorf("parse daily snapshot (cork): %w", err)
		}
	}

	heights, _, hErr := b.Store.LatestSnapshot("worldtides", "heights")
	extremes, _, eErr := b.Store.LatestSnapshot("worldtides", "extremes")
	if hErr == nil && eErr == nil && heights != nil && extremes != nil {
		tide, err := ingest.ParseTides(heights, extremes)
		if err != nil {
			return in, fmt.Errorf("parse tide snapshots: %w", err)
		}
		in.tide = tide
	}

	return in, nil
}

func (b *Builder) snapshot(provider, endpoint, payload string) {
	if b.Store == nil || payload == "" {
		return
	}
	if _, err := b.Store.SaveSnapshot(provider, endpoint, []byte(payload)); err != nil {
		log.Printf("build: snapshot %s/%s: %v", provider, endpoint, err)
	}
}

func (b *Builder) observer() astro.Observer {
	return astro.Observer{
		LatDeg: b.Config.Latitude,
		LonDeg: b.Config.Longitude,
		ElevM:  b.Config.Elevation,
	}
}

func (b *Builder) buildAstro(now time.Time, hours []models.HourlyRecord) error {
	cfg := b.Config
	obs := b.observer()

	var ra, dec *float64
	var target *report.Target
	if cfg.Target != nil {
		ra, dec = &cfg.Target.RADeg, &cfg.Target.DecDeg
		target = &report.Target{
			RA:  strconv.FormatFloat(cfg.Target.RADeg, 'f', -1, 64),
			Dec: strconv.FormatFloat(cfg.Target.DecDeg, 'f', -1, 64),
		}
	}

	scorer := score.AstroScorer{Weights: cfg.Astro, BaselineSQM: cfg.BaselineSQM}
	scored := make([]score.HourQuality, 0, len(hours))
	for _, h := range hours {
		scored = append(scored, scorer.ScoreHour(h, obs.Compute(h.Time, ra, dec)))
	}

	isDark := func(h models.HourlyRecord) bool {
		return obs.SunAltDeg(h.Time) <= cfg.DarkAltitudeDeg
	}
	wins := window.Builder{StartBufferH: cfg.SunsetBufferH, EndBufferH: cfg.SunriseBufferH}.Nights(hours, isDark)

	var summaries []window.NightSummary
	for _, w := range wins {
		if s, ok := window.Aggregate(w, scored, cfg.BestSlotHours, cfg.GreatThreshold, cfg.OKThreshold); ok {
			summaries = append(summaries, s)
		}
	}
	metrics.WindowsEmitted.WithLabelValues("astro").Add(float64(len(summaries)))
	log.Printf("build: astro, %d dark windows from %d hours", len(summaries), len(hours))

	payload := report.BuildAstro(now, cfg.Location, cfg.SiteName, summaries, cfg.BaselineSQM, target, cfg.SortByScore)
	html, err := b.renderer.AstroCard(payload)
	if err != nil {
		return err
	}

	dir := filepath.Join(b.OutDir, "astro")
	if err := render.WriteJSONAtomic(filepath.Join(dir, "astro.json"), payload); err != nil {
		return err
	}
	return render.WriteFileAtomic(filepath.Join(dir, "card.html"), []byte(html))
}

func (b *Builder) buildWeather(now time.Time, site, cork []models.DailyRecord) error {
	loc := b.Config.Location
	dir := filepath.Join(b.OutDir, "weather")

	cards := []struct {
		name        string
		title       string
		days        []models.DailyRecord
		messageType string
	}{
		{"whitegate", "Whitegate — 7-Day Weather", site, "weather-whitegate-size"},
		{"cork", "Cork — 7-Day Weather", cork, "weather-cork-size"},
	}

	for _, c := range cards {
		payload := report.BuildWeather(now, loc, c.title, c.days, weatherDays)
		html, err := b.renderer.WeatherCard(payload, c.messageType)
		if err != nil {
			return err
		}
		if err := render.WriteJSONAtomic(filepath.Join(dir, c.name+".json"), payload); err != nil {
			return err
		}
		if err := render.WriteFileAtomic(filepath.Join(dir, c.name+".html"), []byte(html)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildFishing(now time.Time, hours []models.HourlyRecord, tide models.TideData) error {
	cfg := b.Config
	obs := b.observer()
	scorer := score.FishingScorer{Weights: cfg.Fishing}

	byTime := make(map[time.Time]models.HourlyRecord, len(hours))
	for _, h := range hours {
		byTime[h.Time] = h
	}

	scored := make([]score.FishingHour, 0, len(hours))
	for _, h := range hours {
		var prevPressure *float64
		if prev, ok := byTime[h.Time.Add(-3*time.Hour)]; ok {
			prevPressure = prev.PressureHPa
		}
		scored = append(scored, scorer.ScoreHour(h, prevPressure, b.Marine, tide, obs.SunAltDeg(h.Time)))
	}

	wins := window.TopDailyWindows(scored, cfg.BestSlotHours, topWindows, cfg.GreatThreshold, cfg.OKThreshold)
	metrics.WindowsEmitted.WithLabelValues("fishing").Add(float64(len(wins)))
	log.Printf("build: fishing, %d windows from %d hours", len(wins), len(hours))

	payload := report.BuildFishing(now, cfg.Location, wins)
	html, err := b.renderer.FishingCard(payload, b.HasTideKey)
	if err != nil {
		return err
	}

	dir := filepath.Join(b.OutDir, "fishing")
	if err := render.WriteJSONAtomic(filepath.Join(dir, "fishing.json"), payload); err != nil {
		return err
	}
	return render.WriteFileAtomic(filepath.Join(dir, "card.html"), []byte(html))
}
