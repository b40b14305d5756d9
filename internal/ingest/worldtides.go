package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/whitegate/internal/httputil"
	"github.com/lox/whitegate/internal/metrics"
	"github.com/lox/whitegate/internal/models"
)

const worldTidesBase = "https://www.worldtides.info/api"

// WorldTides fetches tidal heights and extremes. Without an API key the
// client degrades to empty tide data so the fishing pipeline still runs,
// falling back to neutral tide scores.
type WorldTides struct {
	apiKey string
	client *http.Client
}

func NewWorldTides(apiKey string) *WorldTides {
	return &WorldTides{
		apiKey: apiKey,
		client: httputil.NewClient(),
	}
}

type tidesResponse struct {
	Heights []struct {
		DT     int64   `json:"dt"`
		Height float64 `json:"height"`
	} `json:"heights"`
	Extremes []struct {
		DT     int64   `json:"dt"`
		Type   string  `json:"type"`
		Height float64 `json:"height"`
	} `json:"extremes"`
}

// Fetch returns both series starting at start for the given span. The
// hourly step keeps provider credit usage low. Raw payloads (heights then
// extremes) are returned for snapshotting.
func (w *WorldTides) Fetch(lat, lon float64, start time.Time, days int) (models.TideData, []string, error) {
	if w.apiKey == "" {
		return models.TideData{}, nil, nil
	}
	lengthS := days * 86400

	extBody, err := w.get("extremes", lat, lon, start, lengthS, 0)
	if err != nil {
		return models.TideData{}, nil, err
	}
	heightBody, err := w.get("heights", lat, lon, start, lengthS, 3600)
	if err != nil {
		return models.TideData{}, nil, err
	}

	data, err := ParseTides(heightBody, extBody)
	if err != nil {
		return models.TideData{}, nil, err
	}
	return data, []string{string(heightBody), string(extBody)}, nil
}

func ParseTides(heightBody, extBody []byte) (models.TideData, error) {
	var ext, hts tidesResponse
	if err := json.Unmarshal(extBody, &ext); err != nil {
		return models.TideData{}, fmt.Errorf("unmarshal extremes: %w", err)
	}
	if err := json.Unmarshal(heightBody, &hts); err != nil {
		return models.TideData{}, fmt.Errorf("unmarshal heights: %w", err)
	}

	var data models.TideData
	for _, h := range hts.Heights {
		data.Heights = append(data.Heights, models.TideHeight{
			Time:   time.Unix(h.DT, 0).UTC(),
			Height: h.Height,
		})
	}
	for _, e := range ext.Extremes {
		data.Extremes = append(data.Extremes, models.TideExtreme{
			Time:   time.Unix(e.DT, 0).UTC(),
			Type:   models.ExtremeType(e.Type),
			Height: e.Height,
		})
	}
	sort.Slice(data.Heights, func(i, j int) bool { return data.Heights[i].Time.Before(data.Heights[j].Time) })
	sort.Slice(data.Extremes, func(i, j int) bool { return data.Extremes[i].Time.Before(data.Extremes[j].Time) })

	return data, nil
}

func (w *WorldTides) get(kind string, lat, lon float64, start time.Time, lengthS, stepS int) ([]byte, error) {
	q := url.Values{}
	q.Set(kind, "")
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("start", fmt.Sprintf("%d", start.Unix()))
	q.Set("length", fmt.Sprintf("%d", lengthS))
	if stepS > 0 {
		q.Set("step", fmt.Sprintf("%d", stepS))
	}
	q.Set("key", w.apiKey)
	reqURL := worldTidesBase + "?" + q.Encode()

	var body []byte
	operation := func() error {
		started := time.Now()
		resp, err := w.client.Get(reqURL)
		if err != nil {
			metrics.ProviderCallsTotal.WithLabelValues("worldtides", kind, "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch %s: %w", kind, err))
		}
		defer resp.Body.Close()
		metrics.ProviderLatency.WithLabelValues("worldtides", kind).Observe(time.Since(started).Seconds())
		metrics.ProviderCallsTotal.WithLabelValues("worldtides", kind, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", kind, resp.StatusCode, string(b)))
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
