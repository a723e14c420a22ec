package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/obstacle"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/report"
	"github.com/litescript/ls-satfinder/internal/state"
	"github.com/litescript/ls-satfinder/internal/version"
)

var (
	verify          bool
	minElevation    float64
	showAll         bool
	noColor         bool
	region          string
	history         string
	surrounding     string
	targetElevation float64
)

var pointCmd = &cobra.Command{
	Use:   "point",
	Short: "Compute pointing angles for the target satellite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sat, err := target()
		if err != nil {
			return err
		}
		t, err := state.NewTarget(cfg.Observer, sat, cfg.PointingOptions(), cfg.FrequencyGHz)
		if err != nil {
			return err
		}
		now := time.Now()
		export := report.ExportTarget(t, now)

		if jsonOutput {
			return export.WriteJSON(os.Stdout)
		}
		report.WritePointingSummary(os.Stdout, export)

		if verify {
			d, err := pointing.Verify(cfg.Observer, sat.LongitudeDeg, t.Angles, now)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			fmt.Printf("Vector check   Δaz %+.4f°  Δel %+.4f°  Δrange %+.1f km\n",
				d.AzimuthDeg, d.ElevationDeg, d.RangeKm)
		}
		return nil
	},
}

var visibleCmd = &cobra.Command{
	Use:   "visible",
	Short: "Rank catalog satellites by visibility from the observer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cands, err := cat.Visible(cfg.Observer, cfg.MinElevation, catalog.VisibleOptions{
			Pointing:     cfg.PointingOptions(),
			FrequencyGHz: cfg.FrequencyGHz,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			if !showAll {
				cands = catalog.VisibleOnly(cands)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cands)
		}
		report.WriteVisibleTable(os.Stdout, cfg.Observer, cands, time.Now(), report.TableOptions{
			Color: !noColor && isTerminal(os.Stdout),
			All:   showAll,
		})
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog satellites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sats := cat.All()
		if region != "" {
			sats = cat.ByRegion(region)
		}
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sats)
		}
		for _, s := range sats {
			fmt.Printf("%-20s %7.1f°  %-22s %s\n", s.Name, s.LongitudeDeg, s.Region, s.Bands)
		}
		fmt.Printf("\nTotal: %d satellites (regions: %s)\n", len(sats), strings.Join(cat.Regions(), ", "))
		return nil
	},
}

var obstacleCmd = &cobra.Command{
	Use:   "obstacle",
	Short: "Check for obstructions from signal history or a surveyed skyline",
	Long: `With --history, judges a series of signal-quality readings (oldest first).
With --surrounding, compares surveyed obstruction elevations against the
target elevation (--target-elevation, or the configured satellite's).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			v   obstacle.Verdict
			err error
		)
		switch {
		case cmd.Flags().Changed("surrounding"):
			values, perr := parseFloats(surrounding)
			if perr != nil {
				return perr
			}
			elev := targetElevation
			if !cmd.Flags().Changed("target-elevation") {
				sat, err := target()
				if err != nil {
					return err
				}
				a, err := pointing.Compute(cfg.Observer, sat.LongitudeDeg, cfg.PointingOptions())
				if err != nil {
					return err
				}
				elev = a.ElevationDeg
			}
			v, err = obstacle.FromProfile(elev, values)
		case cmd.Flags().Changed("history"):
			values, perr := parseFloats(history)
			if perr != nil {
				return perr
			}
			v, err = obstacle.FromHistory(values)
		default:
			return fmt.Errorf("one of --history or --surrounding is required")
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		fmt.Printf("%s (severity %s)\n", v.Message, v.Severity)
		if v.HasObstacle && v.RecommendedClearanceDeg > 0 {
			fmt.Printf("Recommended clearance: %.1f°\n", v.RecommendedClearanceDeg)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// Skip config loading so version works with a broken environment.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ls-satfinder v%s\n", version.Version)
	},
}

func init() {
	pointCmd.Flags().BoolVar(&verify, "verify", false, "cross-check against an ECEF vector solution")

	visibleCmd.Flags().Float64Var(&minElevation, "min-elevation", catalog.DefaultMinElevationDeg, "minimum usable elevation in degrees")
	visibleCmd.Flags().BoolVar(&showAll, "all", false, "include satellites below the minimum elevation")
	visibleCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	catalogCmd.Flags().StringVar(&region, "region", "", "only list satellites serving this region")

	obstacleCmd.Flags().StringVar(&history, "history", "", "comma-separated signal readings, oldest first")
	obstacleCmd.Flags().StringVar(&surrounding, "surrounding", "", "comma-separated obstruction elevations in degrees")
	obstacleCmd.Flags().Float64Var(&targetElevation, "target-elevation", 0, "target elevation in degrees")
}

// parseFloats splits a comma or whitespace separated list.
func parseFloats(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
