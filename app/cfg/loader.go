package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./oncofeed.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://feeds.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Ingestion configuration
	FetchTimeout    int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Feed fetch timeout in seconds"`
	RefreshInterval int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"1800" description:"Interval in seconds before a feed is due for refresh"`
	WorkerCount     int `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for feed processing"`
	TickInterval    int `long:"tick-interval" env:"TICK_INTERVAL" default:"60" description:"Scheduler tick interval in seconds"`

	// Enrichment configuration
	EnrichmentAPIKey string `long:"enrichment-api-key" env:"COHERE_API_KEY" description:"Cohere API key for article enrichment (optional, fallback summaries when unset)"`
	EnrichmentModel  string `long:"enrichment-model" env:"ENRICHMENT_MODEL" default:"command-r" description:"Model used for article enrichment"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"OncoFeed/1.0 (+https://github.com/oncofeed/oncofeed)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		Port:             raw.Port,
		BaseUrl:          raw.BaseUrl,
		APIAccessKey:     raw.APIAccessKey,
		FetchTimeout:     raw.FetchTimeout,
		RefreshInterval:  raw.RefreshInterval,
		WorkerCount:      raw.WorkerCount,
		TickInterval:     raw.TickInterval,
		EnrichmentAPIKey: raw.EnrichmentAPIKey,
		EnrichmentModel:  raw.EnrichmentModel,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
