package main

import (
	"github.com/spf13/cobra"

	"github.com/litescript/ls-satfinder/internal/api"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/metrics"
	"github.com/litescript/ls-satfinder/internal/state"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		collector, err := metrics.New(nil)
		if err != nil {
			return err
		}

		session := state.NewManager(state.Config{
			MaxEvents:    100,
			SignalWindow: cfg.SignalWindow,
			Guidance:     cfg.GuidanceOptions(),
			OnEvent: func(e state.Event) {
				collector.ObserveEvent(string(e.Type))
				logger.Info("%s %s %s", e.Type, e.Satellite, e.Message)
			},
		})

		srv := api.New(api.Deps{
			Catalog:      cat,
			Session:      session,
			Metrics:      collector,
			Log:          logger,
			Pointing:     cfg.PointingOptions(),
			Guidance:     cfg.GuidanceOptions(),
			FrequencyGHz: cfg.FrequencyGHz,
			MinElevation: cfg.MinElevation,
			RecordsDir:   cfg.RecordsDir,
		})
		return srv.Listen(cmd.Context(), cfg.Listen)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "listen address")
	serveCmd.Flags().StringVar(&recordsDir, "records-dir", "", "directory for saved alignment records")
	serveCmd.Flags().Float64Var(&azTolerance, "az-tolerance", guidance.DefaultAzimuthTolerance, "azimuth lock tolerance in degrees")
	serveCmd.Flags().Float64Var(&elTolerance, "el-tolerance", guidance.DefaultElevationTolerance, "elevation lock tolerance in degrees")
	serveCmd.Flags().Float64Var(&minElevation, "min-elevation", catalog.DefaultMinElevationDeg, "default minimum elevation for /satellites/visible")
}
