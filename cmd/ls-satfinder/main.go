// Command ls-satfinder computes dish pointing angles for geostationary
// satellites and guides an installer onto the signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/config"
	"github.com/litescript/ls-satfinder/internal/logging"
	"github.com/litescript/ls-satfinder/internal/pointing"
)

// Persistent flags. Zero values leave the environment setting in place.
var (
	envFile     string
	flagLat     float64
	flagLon     float64
	flagAlt     float64
	flagSat     string
	flagProfile string
	flagTier    string
	flagLegacy  bool
	flagFreq    float64
	flagCatalog string
	flagLog     string
	jsonOutput  bool
)

// Loaded by the root command before any subcommand runs.
var (
	cfg    *config.AppConfig
	logger *logging.Logger
	cat    *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "ls-satfinder",
	Short: "Point a satellite dish at a geostationary satellite",
	Long: `ls-satfinder computes azimuth, elevation and LNB skew for geostationary
TV satellites, predicts link quality, and guides an installer onto the
target from live orientation readings.

Settings come from a .env file and SATFINDER_* environment variables and
can be overridden with flags.

Examples:
  ls-satfinder point --lat 30.04 --lon 31.24 --satellite "Nilesat 201"
  ls-satfinder visible --lat 51.5 --lon -0.13
  ls-satfinder guide --simulate
  ls-satfinder serve --listen :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", "", "load settings from this .env file (default: .env if present)")
	pf.Float64Var(&flagLat, "lat", 0, "observer latitude in degrees, north positive")
	pf.Float64Var(&flagLon, "lon", 0, "observer longitude in degrees, east positive")
	pf.Float64Var(&flagAlt, "alt", 0, "observer altitude in meters")
	pf.StringVarP(&flagSat, "satellite", "s", "", "target satellite name")
	pf.StringVar(&flagProfile, "profile", "", "atmospheric profile (standard, hot-humid, cold-dry, rainy, foggy)")
	pf.StringVar(&flagTier, "tier", "", "precision tier (basic, corrected)")
	pf.BoolVar(&flagLegacy, "legacy-azimuth", false, "use the legacy azimuth convention")
	pf.Float64Var(&flagFreq, "freq", 0, "downlink frequency in GHz (default: satellite band)")
	pf.StringVar(&flagCatalog, "catalog", "", "JSON satellite catalog file (default: built-in list)")
	pf.StringVar(&flagLog, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&jsonOutput, "json", false, "write JSON instead of text")

	rootCmd.AddCommand(pointCmd, visibleCmd, catalogCmd, guideCmd, obstacleCmd, serveCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges .env, environment and flags, in increasing priority.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if envFile != "" {
		cfg, err = config.Load(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("lat") {
		cfg.Observer.LatitudeDeg = flagLat
	}
	if flags.Changed("lon") {
		cfg.Observer.LongitudeDeg = flagLon
	}
	if flags.Changed("alt") {
		cfg.Observer.AltitudeM = flagAlt
	}
	if flags.Changed("satellite") {
		cfg.Satellite = flagSat
	}
	if flags.Changed("profile") {
		if cfg.Profile, err = pointing.ParseProfile(flagProfile); err != nil {
			return err
		}
	}
	if flags.Changed("tier") {
		if cfg.Tier, err = pointing.ParseTier(flagTier); err != nil {
			return err
		}
	}
	if flags.Changed("legacy-azimuth") {
		cfg.LegacyAzimuth = flagLegacy
	}
	if flags.Changed("freq") {
		cfg.FrequencyGHz = flagFreq
	}
	if flags.Changed("catalog") {
		cfg.CatalogFile = flagCatalog
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLog
	}
	if err := applyCommandFlags(cmd); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = logging.New(logging.ParseLevel(cfg.LogLevel))
	if cat, err = cfg.Catalog(); err != nil {
		return err
	}
	logger.Debug("observer %s, %d satellites, %s/%s", cfg.Observer, cat.Len(), cfg.Tier, cfg.Profile)
	return nil
}

// applyCommandFlags copies subcommand flags that shadow config fields.
func applyCommandFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Lookup("min-elevation") != nil && flags.Changed("min-elevation") {
		cfg.MinElevation = minElevation
	}
	if flags.Lookup("listen") != nil && flags.Changed("listen") {
		cfg.Listen = listenAddr
	}
	if flags.Lookup("records-dir") != nil && flags.Changed("records-dir") {
		cfg.RecordsDir = recordsDir
	}
	if flags.Lookup("az-tolerance") != nil && flags.Changed("az-tolerance") {
		cfg.AzimuthTolerance = azTolerance
	}
	if flags.Lookup("el-tolerance") != nil && flags.Changed("el-tolerance") {
		cfg.ElevationTolerance = elTolerance
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func target() (catalog.Satellite, error) {
	return cat.Lookup(cfg.Satellite)
}
