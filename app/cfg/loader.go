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
	// Catalog data paths
	CatalogFile   string `long:"catalog-file" env:"CATALOG_FILE" default:"./data/products.json" description:"Path to the persisted catalog JSON file"`
	ReportFile    string `long:"report-file" env:"REPORT_FILE" default:"./data/sync-report.txt" description:"Path to the sync report output file"`
	CategoriesDir string `long:"categories-dir" env:"CATEGORIES_DIR" default:"./categories" description:"Directory containing category source configuration files"`
	DBPath        string `long:"db-path" env:"DB_PATH" default:"./data/catalog-sync.db" description:"Path to the run history SQLite database"`
	LogDir        string `long:"log-dir" env:"LOG_DIR" default:"./logs" description:"Directory for run log files"`

	// Normalization settings
	CurrencySymbol string `long:"currency-symbol" env:"CURRENCY_SYMBOL" default:"$" description:"Currency symbol applied to every catalog entry"`
	ContactPhone   string `long:"contact-phone" env:"CONTACT_PHONE" default:"998900000000" description:"Phone number used in generated contact links (required)" required:"true"`
	Greeting       string `long:"greeting" env:"GREETING" default:"Hello! I am interested in %s" description:"Greeting template for contact links, %s is replaced with the product name"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve mode)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	Serve        bool   `long:"serve" env:"SERVE" description:"Run as a server with scheduled syncs instead of a one-shot sync"`
	SyncInterval int    `long:"sync-interval" env:"SYNC_INTERVAL" default:"3600" description:"Interval between scheduled syncs in seconds (serve mode)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Catalog Sync/1.0" description:"User agent string for HTTP requests"`
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
		CatalogFile:    raw.CatalogFile,
		ReportFile:     raw.ReportFile,
		CategoriesDir:  raw.CategoriesDir,
		DBPath:         raw.DBPath,
		LogDir:         raw.LogDir,
		CurrencySymbol: raw.CurrencySymbol,
		ContactPhone:   raw.ContactPhone,
		Greeting:       raw.Greeting,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		Serve:          raw.Serve,
		SyncInterval:   raw.SyncInterval,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
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
