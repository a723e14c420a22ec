// Package config loads runtime settings from a .env file and SATFINDER_*
// environment variables. Command-line flags override the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/pointing"
)

// Environment variable names.
const (
	EnvLatitude      = "SATFINDER_LAT"
	EnvLongitude     = "SATFINDER_LON"
	EnvAltitude      = "SATFINDER_ALT_M"
	EnvSatellite     = "SATFINDER_SATELLITE"
	EnvProfile       = "SATFINDER_PROFILE"
	EnvTier          = "SATFINDER_TIER"
	EnvLegacyAzimuth = "SATFINDER_LEGACY_AZIMUTH"
	EnvFrequency     = "SATFINDER_FREQ_GHZ"
	EnvAzTolerance   = "SATFINDER_AZ_TOLERANCE"
	EnvElTolerance   = "SATFINDER_EL_TOLERANCE"
	EnvMinElevation  = "SATFINDER_MIN_ELEVATION"
	EnvSignalWindow  = "SATFINDER_SIGNAL_WINDOW"
	EnvCatalogFile   = "SATFINDER_CATALOG"
	EnvRecordsDir    = "SATFINDER_RECORDS_DIR"
	EnvListen        = "SATFINDER_LISTEN"
	EnvLogLevel      = "SATFINDER_LOG_LEVEL"
)

// DefaultSatellite is targeted when none is configured.
const DefaultSatellite = "Nilesat 201"

// AppConfig holds every runtime setting.
type AppConfig struct {
	Observer  astro.GeoPosition
	Satellite string `validate:"required"`

	Profile       pointing.Profile
	Tier          pointing.Tier
	LegacyAzimuth bool

	// FrequencyGHz of 0 selects each satellite's band default.
	FrequencyGHz float64 `validate:"gte=0,lte=100"`

	AzimuthTolerance   float64 `validate:"gt=0,lte=45"`
	ElevationTolerance float64 `validate:"gt=0,lte=45"`
	MinElevation       float64 `validate:"gte=0,lte=90"`

	// SignalWindow is how many signal samples the session keeps for
	// obstacle detection.
	SignalWindow int `validate:"gte=5,lte=10000"`

	CatalogFile string
	RecordsDir  string
	Listen      string `validate:"required"`
	LogLevel    string `validate:"omitempty,oneof=debug info warn warning error"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *AppConfig {
	return &AppConfig{
		Satellite:          DefaultSatellite,
		Profile:            pointing.Standard,
		Tier:               pointing.TierCorrected,
		AzimuthTolerance:   guidance.DefaultAzimuthTolerance,
		ElevationTolerance: guidance.DefaultElevationTolerance,
		MinElevation:       catalog.DefaultMinElevationDeg,
		SignalWindow:       20,
		RecordsDir:         ".",
		Listen:             ":8080",
		LogLevel:           "info",
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then builds the configuration from it. A missing
// default .env file is not an error.
func Load(envFiles ...string) (*AppConfig, error) {
	explicit := len(envFiles) > 0
	if !explicit {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a getenv-style lookup.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := Defaults()
	var err error

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvLatitude, &cfg.Observer.LatitudeDeg},
		{EnvLongitude, &cfg.Observer.LongitudeDeg},
		{EnvAltitude, &cfg.Observer.AltitudeM},
		{EnvFrequency, &cfg.FrequencyGHz},
		{EnvAzTolerance, &cfg.AzimuthTolerance},
		{EnvElTolerance, &cfg.ElevationTolerance},
		{EnvMinElevation, &cfg.MinElevation},
	}
	for _, f := range floats {
		if err := parseFloat(getenv, f.key, f.dst); err != nil {
			return nil, err
		}
	}

	if v := getenv(EnvSignalWindow); v != "" {
		if cfg.SignalWindow, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvSignalWindow, err)
		}
	}
	if v := getenv(EnvLegacyAzimuth); v != "" {
		if cfg.LegacyAzimuth, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLegacyAzimuth, err)
		}
	}
	if v := getenv(EnvProfile); v != "" {
		if cfg.Profile, err = pointing.ParseProfile(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvProfile, err)
		}
	}
	if v := getenv(EnvTier); v != "" {
		if cfg.Tier, err = pointing.ParseTier(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTier, err)
		}
	}

	cfg.Satellite = getenvDefault(getenv, EnvSatellite, cfg.Satellite)
	cfg.CatalogFile = getenvDefault(getenv, EnvCatalogFile, cfg.CatalogFile)
	cfg.RecordsDir = getenvDefault(getenv, EnvRecordsDir, cfg.RecordsDir)
	cfg.Listen = getenvDefault(getenv, EnvListen, cfg.Listen)
	cfg.LogLevel = strings.ToLower(getenvDefault(getenv, EnvLogLevel, cfg.LogLevel))

	return cfg, nil
}

// Validate checks ranges. It is called after flags have been applied.
func (c *AppConfig) Validate() error {
	if err := c.Observer.Validate(); err != nil {
		return err
	}
	return astro.ValidateStruct(c)
}

// PointingOptions derives geometry options.
func (c *AppConfig) PointingOptions() pointing.Options {
	opts := pointing.Options{Tier: c.Tier, Profile: c.Profile, Azimuth: pointing.AzimuthStandard}
	if c.LegacyAzimuth {
		opts.Azimuth = pointing.AzimuthLegacy
	}
	return opts
}

// GuidanceOptions derives lock tolerances.
func (c *AppConfig) GuidanceOptions() guidance.Options {
	return guidance.Options{
		AzimuthTolerance:   c.AzimuthTolerance,
		ElevationTolerance: c.ElevationTolerance,
	}
}

// Catalog returns the configured catalog: CatalogFile when set, otherwise
// the built-in reference list.
func (c *AppConfig) Catalog() (*catalog.Catalog, error) {
	if c.CatalogFile == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(c.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return catalog.Load(f)
}

func parseFloat(getenv func(string) string, key string, dst *float64) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func getenvDefault(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}
