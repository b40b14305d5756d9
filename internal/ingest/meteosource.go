// Package ingest fetches forecast and tide data from the external
// providers. It is the only package that does I/O ahead of scoring; the
// core pipeline consumes the materialized model slices and never sees a
// provider payload.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/whitegate/internal/httputil"
	"github.com/lox/whitegate/internal/metrics"
	"github.com/lox/whitegate/internal/models"
	"github.com/lox/whitegate/internal/units"
)

const meteosourceBase = "https://www.meteosource.com/api/v1/flexi/point"

// Meteosource is a point-forecast client for the flexi tier.
type Meteosource struct {
	apiKey string
	client *http.Client
	loc    *time.Location
}

func NewMeteosource(apiKey string, loc *time.Location) *Meteosource {
	return &Meteosource{
		apiKey: apiKey,
		client: httputil.NewClient(),
		loc:    loc,
	}
}

// Hourly timestamps come back zone-naive in the requested timezone.
const meteosourceTimeLayout = "2006-01-02T15:04:05"

type hourlyResponse struct {
	Hourly struct {
		Data []hourlyEntry `json:"data"`
	} `json:"hourly"`
}

type hourlyEntry struct {
	Date       string `json:"date"`
	Weather    string `json:"weather"`
	Summary    string `json:"summary"`
	CloudCover struct {
		Total  any `json:"total"`
		Low    any `json:"low"`
		Middle any `json:"middle"`
		High   any `json:"high"`
	} `json:"cloud_cover"`
	Visibility  any `json:"visibility"`
	Temperature any `json:"temperature"`
	DewPoint    any `json:"dew_point"`
	Wind        struct {
		Speed any `json:"speed"`
		Gusts any `json:"gusts"`
	} `json:"wind"`
	Precipitation struct {
		Total any `json:"total"`
	} `json:"precipitation"`
	Pressure any `json:"pressure"`
	Humidity any `json:"humidity"`
}

// FetchHourly returns the hourly point forecast for the site, plus the
// raw payload for snapshotting.
func (m *Meteosource) FetchHourly(lat, lon float64) ([]models.HourlyRecord, string, error) {
	body, err := m.get("hourly", lat, lon)
	if err != nil {
		return nil, "", err
	}
	records, err := ParseHourly(body, m.loc)
	if err != nil {
		return nil, string(body), err
	}
	return records, string(body), nil
}

func ParseHourly(body []byte, loc *time.Location) ([]models.HourlyRecord, error) {
	var data hourlyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	var records []models.HourlyRecord
	for _, e := range data.Hourly.Data {
		at, err := time.ParseInLocation(meteosourceTimeLayout, e.Date, loc)
		if err != nil {
			continue
		}
		summary := e.Summary
		if summary == "" {
			summary = e.Weather
		}
		records = append(records, models.HourlyRecord{
			Time:         at,
			CloudLow:     units.Float(e.CloudCover.Low),
			CloudMid:     units.Float(e.CloudCover.Middle),
			CloudHigh:    units.Float(e.CloudCover.High),
			CloudTotal:   units.Float(e.CloudCover.Total),
			VisibilityKm: units.Float(e.Visibility),
			TempC:        units.Float(e.Temperature),
			DewPointC:    units.Float(e.DewPoint),
			WindSpeedMS:  units.Float(e.Wind.Speed),
			WindGustMS:   units.Float(e.Wind.Gusts),
			PrecipMM:     units.Float(e.Precipitation.Total),
			PressureHPa:  units.Float(e.Pressure),
			HumidityPct:  units.Float(e.Humidity),
			Summary:      summary,
		})
	}
	return records, nil
}

type dailyResponse struct {
	Daily struct {
		Data []dailyEntry `json:"data"`
	} `json:"daily"`
}

type dailyEntry struct {
	Day     string `json:"day"`
	Icon    any    `json:"icon"`
	Summary string `json:"summary"`
	AllDay  struct {
		Weather    string `json:"weather"`
		Icon       any    `json:"icon"`
		TempMin    any    `json:"temperature_min"`
		TempMax    any    `json:"temperature_max"`
		CloudCover struct {
			Total any `json:"total"`
		} `json:"cloud_cover"`
		Precipitation struct {
			Total any `json:"total"`
		} `json:"precipitation"`
		Wind struct {
			Speed any `json:"speed"`
		} `json:"wind"`
	} `json:"all_day"`
}

// FetchDaily returns the daily summary forecast for a location, plus the
// raw payload for snapshotting.
func (m *Meteosource) FetchDaily(lat, lon float64) ([]models.DailyRecord, string, error) {
	body, err := m.get("daily", lat, lon)
	if err != nil {
		return nil, "", err
	}
	records, err := ParseDaily(body, m.loc)
	if err != nil {
		return nil, string(body), err
	}
	return records, string(body), nil
}

func ParseDaily(body []byte, loc *time.Location) ([]models.DailyRecord, error) {
	var data dailyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	var records []models.DailyRecord
	for _, e := range data.Daily.Data {
		day, err := time.ParseInLocation("2006-01-02", e.Day, loc)
		if err != nil {
			continue
		}
		summary := e.Summary
		if summary == "" {
			summary = e.AllDay.Weather
		}
		icon := iconName(e.AllDay.Icon)
		if icon == "" {
			icon = iconName(e.Icon)
		}
		records = append(records, models.DailyRecord{
			Date:        day,
			TempMinC:    units.Float(e.AllDay.TempMin),
			TempMaxC:    units.Float(e.AllDay.TempMax),
			CloudTotal:  units.Float(e.AllDay.CloudCover.Total),
			PrecipMM:    units.Float(e.AllDay.Precipitation.Total),
			WindSpeedMS: units.Float(e.AllDay.Wind.Speed),
			Icon:        icon,
			Summary:     summary,
		})
	}
	return records, nil
}

// iconName tolerates both string and numeric icon identifiers.
func iconName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%d", int(t))
	}
	return ""
}

func (m *Meteosource) get(section string, lat, lon float64) ([]byte, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("sections", section)
	q.Set("timezone", m.loc.String())
	q.Set("language", "en")
	q.Set("units", "metric")
	q.Set("key", m.apiKey)
	reqURL := meteosourceBase + "?" + q.Encode()

	var body []byte
	operation := func() error {
		started := time.Now()
		resp, err := m.client.Get(reqURL)
		if err != nil {
			metrics.ProviderCallsTotal.WithLabelValues("meteosource", section, "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch %s: %w", section, err))
		}
		defer resp.Body.Close()
		metrics.ProviderLatency.WithLabelValues("meteosource", section).Observe(time.Since(started).Seconds())
		metrics.ProviderCallsTotal.WithLabelValues("meteosource", section, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", section, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return body, nil
}
