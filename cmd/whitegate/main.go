package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/whitegate/internal/api"
	"github.com/lox/whitegate/internal/build"
	"github.com/lox/whitegate/internal/config"
	"github.com/lox/whitegate/internal/ingest"
	"github.com/lox/whitegate/internal/score"
	"github.com/lox/whitegate/internal/store"
	"github.com/lox/whitegate/internal/units"
)

var cli struct {
	MeteosourceKey string `env:"METEOSOURCE_API_KEY" help:"Meteosource API key (flexi tier)."`
	WorldTidesKey  string `env:"WORLD_TIDES_KEY" help:"WorldTides API key; tides degrade to neutral without it."`

	// Marine overrides until a marine API is wired.
	WaveHeight string `env:"WAVE_H" help:"Override wave height (metres)."`
	WavePeriod string `env:"WAVE_T" help:"Override wave period (seconds)."`
	SeaTemp    string `env:"SEA_TEMP" help:"Override sea temperature (°C)."`

	DB          string `default:"data/whitegate.db" help:"Path to the sqlite snapshot database."`
	Out         string `default:"dist" help:"Output directory for card artifacts."`
	Timezone    string `default:"Europe/Dublin" help:"Site time zone."`
	SortByScore bool   `help:"Order astro nights best-first instead of chronologically."`

	Build buildCmd `cmd:"" default:"1" help:"Build all cards once and exit."`
	Serve serveCmd `cmd:"" help:"Serve built cards and rebuild on an interval."`
}

type app struct {
	builder *build.Builder
	store   *store.Store
}

type buildCmd struct {
	Offline bool `help:"Rebuild from the latest stored snapshots without calling providers."`
}

func (c *buildCmd) Run(a *app) error {
	a.builder.Offline = c.Offline
	return a.builder.Run(time.Now())
}

type serveCmd struct {
	Port     string        `default:"8080" help:"HTTP listen port."`
	Interval time.Duration `default:"1h" help:"Rebuild interval."`
}

func (c *serveCmd) Run(a *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.builder.Run(time.Now()); err != nil {
		log.Printf("serve: initial build failed: %v", err)
	}

	go func() {
		ticker := time.NewTicker(c.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.builder.Run(time.Now()); err != nil {
					log.Printf("serve: rebuild failed: %v", err)
				}
			}
		}
	}()

	log.Printf("serving cards on :%s", c.Port)
	return api.NewServer(c.Port, a.builder.OutDir).Run(ctx)
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("whitegate"),
		kong.Description("Nightly astrophotography, weather and fishing outlook cards for Whitegate, Co. Cork."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	loc, err := time.LoadLocation(cli.Timezone)
	if err != nil {
		log.Fatalf("load timezone %s: %v", cli.Timezone, err)
	}

	cfg := config.Default(loc)
	cfg.SortByScore = cli.SortByScore
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	builder := &build.Builder{
		Config:  cfg,
		Weather: ingest.NewMeteosource(cli.MeteosourceKey, loc),
		Tides:   ingest.NewWorldTides(cli.WorldTidesKey),
		Store:   st,
		OutDir:  cli.Out,
		Marine: score.Marine{
			WaveHeightM: units.Float(cli.WaveHeight),
			WavePeriodS: units.Float(cli.WavePeriod),
			SeaTempC:    units.Float(cli.SeaTemp),
		},
		HasTideKey: cli.WorldTidesKey != "",
	}

	err = kctx.Run(&app{builder: builder, store: st})
	kctx.FatalIfErrorf(err)
}
