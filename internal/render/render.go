// Package render produces the embeddable HTML cards and writes card
// artifacts atomically so a half-written file is never served.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/lox/whitegate/internal/report"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the card templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"roundScore": func(v float64) int {
			return int(math.Round(v))
		},
		"dash": func(s string) string {
			if s == "" {
				return "—"
			}
			return s
		},
		"dashFloat": func(p *float64) string {
			if p == nil {
				return "—"
			}
			return strconv.FormatFloat(*p, 'f', -1, 64)
		},
		"dashInt": func(p *int) string {
			if p == nil {
				return "—"
			}
			return strconv.Itoa(*p)
		},
		"degrees": func(p *float64) string {
			if p == nil {
				return "—"
			}
			return strconv.FormatFloat(*p, 'f', -1, 64) + "°"
		},
		"percent": func(p *int) string {
			if p == nil {
				return "—"
			}
			return strconv.Itoa(*p) + "%"
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

type Renderer struct {
	t *template.Template
}

func New() *Renderer {
	return &Renderer{t: newTemplates()}
}

// Each card posts its height under its own message type so embedding
// pages can resize the iframes independently.
const (
	astroMessageType   = "astro-card-size"
	fishingMessageType = "fishing-card-size"
)

type astroCardData struct {
	Payload     report.AstroPayload
	MessageType string
}

func (r *Renderer) AstroCard(p report.AstroPayload) (string, error) {
	return r.execute("astro.html", astroCardData{Payload: p, MessageType: astroMessageType})
}

type weatherCardData struct {
	Payload     report.WeatherPayload
	MessageType string
}

// WeatherCard renders one location's daily card. messageType
// distinguishes the Whitegate and Cork cards to the embedding page.
func (r *Renderer) WeatherCard(p report.WeatherPayload, messageType string) (string, error) {
	return r.execute("weather.html", weatherCardData{Payload: p, MessageType: messageType})
}

type fishingCardData struct {
	Payload     report.FishingPayload
	MessageType string
	HasTides    bool
}

func (r *Renderer) FishingCard(p report.FishingPayload, hasTides bool) (string, error) {
	return r.execute("fishing.html", fishingCardData{Payload: p, MessageType: fishingMessageType, HasTides: hasTides})
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
