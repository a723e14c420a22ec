package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/report"
	"github.com/litescript/ls-satfinder/internal/sensor"
	"github.com/litescript/ls-satfinder/internal/state"
	"github.com/litescript/ls-satfinder/internal/ui"
)

var (
	inputPath   string
	simulate    bool
	headless    bool
	interval    time.Duration
	recordsDir  string
	azTolerance float64
	elTolerance float64
	saveOnLock  bool
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Guide the dish onto the target from orientation readings",
	Long: `Reads orientation samples ("azimuth elevation [signal]" per line, or JSON
objects) and reports the next correction for each one.

On a terminal an interactive view is shown; without --input or --simulate
the arrow keys move a manual reading. Use --headless, or pipe the output,
for line-by-line text.`,
	Args: cobra.NoArgs,
	RunE: runGuide,
}

func init() {
	f := guideCmd.Flags()
	f.StringVarP(&inputPath, "input", "i", "", "sample source: a file, or - for stdin")
	f.BoolVar(&simulate, "simulate", false, "feed a simulated installer sweep")
	f.BoolVar(&headless, "headless", false, "print text instead of the interactive view")
	f.DurationVar(&interval, "interval", 250*time.Millisecond, "sample interval for --simulate")
	f.StringVar(&recordsDir, "records-dir", "", "directory for saved alignment records")
	f.Float64Var(&azTolerance, "az-tolerance", guidance.DefaultAzimuthTolerance, "azimuth lock tolerance in degrees")
	f.Float64Var(&elTolerance, "el-tolerance", guidance.DefaultElevationTolerance, "elevation lock tolerance in degrees")
	f.BoolVar(&saveOnLock, "save", false, "save an alignment record on first lock (headless)")
}

func runGuide(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := checkInterval(interval); err != nil {
		return err
	}

	sat, err := target()
	if err != nil {
		return err
	}
	t, err := state.NewTarget(cfg.Observer, sat, cfg.PointingOptions(), cfg.FrequencyGHz)
	if err != nil {
		return err
	}
	if t.Angles.BelowHorizon() {
		return fmt.Errorf("%s is below the horizon from %s", sat.Name, cfg.Observer)
	}

	interactive := !headless && inputPath != "-" && isTerminal(os.Stdout)
	if interactive {
		// Log lines would tear the alternate screen.
		logger.SetOutput(io.Discard)
	}

	session := state.NewManager(state.Config{
		MaxEvents:    50,
		SignalWindow: cfg.SignalWindow,
		Guidance:     cfg.GuidanceOptions(),
		OnEvent: func(e state.Event) {
			logger.Info("%s %s az=%.2f el=%.2f %s", e.Type, e.Satellite, e.AzimuthDeg, e.ElevationDeg, e.Message)
		},
	})

	samples, err := startSamples(ctx, t)
	if err != nil {
		return err
	}
	if samples == nil && !interactive {
		samples = streamFrom(ctx, os.Stdin)
	}

	if interactive {
		model, err := ui.New(ui.Config{
			Session:      session,
			Catalog:      cat,
			Observer:     cfg.Observer,
			Satellite:    sat.Name,
			Pointing:     cfg.PointingOptions(),
			FrequencyGHz: cfg.FrequencyGHz,
			MinElevation: cfg.MinElevation,
			RecordsDir:   cfg.RecordsDir,
			Samples:      samples,
			Log:          logger,
		})
		if err != nil {
			return err
		}
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("run TUI: %w", err)
		}
		return nil
	}

	session.SetTarget(t)
	return runHeadlessGuide(session, samples)
}

func checkInterval(d time.Duration) error {
	if d <= 0 {
		return &astro.InputError{Field: "interval", Value: d, Reason: "must be positive"}
	}
	return nil
}

// startSamples opens the configured sample source. It returns nil when
// none was requested.
func startSamples(ctx context.Context, t state.Target) (<-chan sensor.Sample, error) {
	switch {
	case simulate:
		sweep := sensor.Sweep{
			Target: t.Angles,
			Start: guidance.Orientation{
				AzimuthDeg:   astro.NormalizeAzimuth(t.Angles.AzimuthDeg - 25),
				ElevationDeg: astro.Clamp(t.Angles.ElevationDeg-12, 0, 90),
			},
			Steps:  40,
			Jitter: 0.3,
		}
		ch := make(chan sensor.Sample)
		go func() {
			defer close(ch)
			if err := sweep.Play(ctx, interval, ch); err != nil && ctx.Err() == nil {
				logger.Warn("simulation stopped: %v", err)
			}
		}()
		return ch, nil
	case inputPath == "-":
		return streamFrom(ctx, os.Stdin), nil
	case inputPath != "":
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return streamFrom(ctx, f), nil
	}
	return nil, nil
}

// streamFrom parses samples from r on a goroutine, closing r (when it is a
// file) and the channel at EOF.
func streamFrom(ctx context.Context, r io.Reader) <-chan sensor.Sample {
	ch := make(chan sensor.Sample)
	go func() {
		defer close(ch)
		n, err := sensor.Stream(ctx, r, ch, logger.With("sensor"))
		if err != nil && ctx.Err() == nil {
			logger.Error("sample stream: %v", err)
		}
		logger.Debug("sample stream ended after %d samples", n)
		if c, ok := r.(io.Closer); ok && r != os.Stdin {
			c.Close()
		}
	}()
	return ch
}

func runHeadlessGuide(session *state.Manager, samples <-chan sensor.Sample) error {
	saved := false
	for s := range samples {
		res, err := session.Update(s)
		if err != nil {
			logger.Warn("sample rejected: %v", err)
			continue
		}
		snap := session.Snapshot()
		cur := s.Orientation()
		fmt.Printf("%s az %6.2f° el %5.2f°  %-12s %4.1f  %3.0f  %s\n",
			snap.Last.Time.Format("15:04:05.000"),
			cur.AzimuthDeg, cur.ElevationDeg,
			res.Direction, res.Intensity, snap.Last.Signal, res.Suggestion)
		if snap.Obstacle.HasObstacle {
			fmt.Printf("  ! %s\n", snap.Obstacle.Message)
		}

		if saveOnLock && res.Locked() && !saved {
			rec, err := report.NewRecord(snap, time.Now())
			if err != nil {
				return err
			}
			path, err := report.Save(cfg.RecordsDir, rec)
			if err != nil {
				return err
			}
			session.MarkSaved(rec.ID)
			fmt.Printf("  saved %s\n", path)
			saved = true
		}
	}

	snap := session.Snapshot()
	if snap.Locked {
		fmt.Printf("\nLocked on %s after %d samples\n", snap.Target.Satellite.Name, snap.Samples)
	} else {
		fmt.Printf("\nNot locked after %d samples (accuracy %.0f%%)\n", snap.Samples, snap.Metrics.OverallScore)
	}
	return nil
}
