package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Manifest  ManifestConfig  `mapstructure:"manifest"`
	Viewport  ViewportConfig  `mapstructure:"viewport"`
	Compose   ComposeConfig   `mapstructure:"compose"`
	Terrain   TerrainConfig   `mapstructure:"terrain"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type ManifestConfig struct {
	URL             string `mapstructure:"url"`
	FetchTimeout    int    `mapstructure:"fetch_timeout"`
	RefreshMinutes  int    `mapstructure:"refresh_minutes"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	PrefetchAll     bool   `mapstructure:"prefetch_all"`
}

// ViewportConfig is the deployment's interaction profile: pan padding
// around the manifest bounds and the allowed zoom range. Fixed per
// deployment, never computed.
type ViewportConfig struct {
	PadDegrees  float64 `mapstructure:"pad_degrees"`
	MinZoom     float64 `mapstructure:"min_zoom"`
	MaxZoom     float64 `mapstructure:"max_zoom"`
	InitialZoom float64 `mapstructure:"initial_zoom"`
	Pitch       float64 `mapstructure:"pitch"`
}

type ComposeConfig struct {
	MaskEnabled   bool   `mapstructure:"mask_enabled"`
	FacilityStyle string `mapstructure:"facility_style"`
	ReportingYear int    `mapstructure:"reporting_year"`
}

type TerrainConfig struct {
	ElevationTiles string `mapstructure:"elevation_tiles"`
	TextureTiles   string `mapstructure:"texture_tiles"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("manifest.url", "")
	v.SetDefault("manifest.fetch_timeout", 30)
	v.SetDefault("manifest.refresh_minutes", 0)
	v.SetDefault("manifest.cache_ttl_seconds", 300)
	v.SetDefault("manifest.prefetch_all", false)
	v.SetDefault("viewport.pad_degrees", 0.5)
	v.SetDefault("viewport.min_zoom", 5)
	v.SetDefault("viewport.max_zoom", 15)
	v.SetDefault("viewport.initial_zoom", 6.8)
	v.SetDefault("viewport.pitch", 45)
	v.SetDefault("compose.mask_enabled", true)
	v.SetDefault("compose.facility_style", "icon")
	v.SetDefault("compose.reporting_year", 2023)
	v.SetDefault("terrain.elevation_tiles", "https://s3.amazonaws.com/elevation-tiles-prod/terrarium/{z}/{x}/{y}.png")
	v.SetDefault("terrain.texture_tiles", "https://basemaps.cartocdn.com/dark_all/{z}/{x}/{y}.png")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GHGDECK_MANIFEST_URL → manifest.url
	v.SetEnvPrefix("GHGDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Manifest.URL == "" {
		errs = append(errs, "manifest.url is required")
	}
	if c.Manifest.FetchTimeout <= 0 {
		errs = append(errs, "manifest.fetch_timeout must be positive")
	}
	if c.Viewport.PadDegrees < 0 {
		errs = append(errs, "viewport.pad_degrees must not be negative")
	}
	if c.Viewport.MinZoom >= c.Viewport.MaxZoom {
		errs = append(errs, fmt.Sprintf("viewport zoom range [%v, %v] is empty", c.Viewport.MinZoom, c.Viewport.MaxZoom))
	}
	if c.Compose.FacilityStyle != "circle" && c.Compose.FacilityStyle != "icon" {
		errs = append(errs, fmt.Sprintf("compose.facility_style must be circle or icon, got %q", c.Compose.FacilityStyle))
	}
	if !strings.Contains(c.Terrain.ElevationTiles, "{z}") {
		errs = append(errs, "terrain.elevation_tiles must be a {z}/{x}/{y} template")
	}
	if !strings.Contains(c.Terrain.TextureTiles, "{z}") {
		errs = append(errs, "terrain.texture_tiles must be a {z}/{x}/{y} template")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
