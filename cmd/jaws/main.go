// Command jaws reserves and pins a fraction of physical RAM and keeps it
// hot until a signal arrives or the requested duration elapses.
//
//	jaws -mid                      # hold 50% of RAM at default intensity
//	jaws -percent 80 -intensity 9  # near-saturation stress
//	jaws -low -static -duration 1h # quiet 30% residency floor for an hour
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jawsmem/jaws"
	"github.com/jawsmem/jaws/config"
	"github.com/jawsmem/jaws/internal/shared/bytes"
)

var (
	argLow       = flag.Bool("low", false, "reserve 30% of total RAM")
	argMid       = flag.Bool("mid", false, "reserve 50% of total RAM")
	argHigh      = flag.Bool("high", false, "reserve 75% of total RAM")
	argPercent   = flag.Int("percent", 0, "reserve an explicit percentage of total RAM (1-95)")
	argChunk     = flag.String("chunk", "", "chunk size for allocation and locking, e.g. 100MB")
	argIntensity = flag.Int("intensity", 0, "access intensity, 1 (barely touched) to 10 (saturating)")
	argStatic    = flag.Bool("static", false, "hold residency with minimal CPU: one worker, sequential touch")
	argDuration  = flag.Duration("duration", 0, "run length; 0 runs until SIGINT/SIGTERM")
	argConfig    = flag.String("config", "", "yaml config file; flags override its values")
	argJSON      = flag.Bool("json", false, "emit JSON logs instead of the console stream")
)

func main() {
	flag.Parse()

	if !*argJSON {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	// Install the signal handler before any memory is claimed so a stray
	// Ctrl-C during allocation still releases everything.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	j, err := jaws.New(ctx, cfg, buildLogger(*argJSON))
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	if err = j.Run(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	s := j.Summary()
	log.Info().
		Str("achieved", bytes.FmtMem(uint64(s.AchievedBytes))).
		Str("target", bytes.FmtMem(uint64(s.TargetBytes))).
		Dur("duration", s.Duration).
		Int64("failed_chunks", s.FailedChunks).
		Int64("degraded_chunks", s.DegradedChunks).
		Msg("done")
}

func buildConfig() (*config.Config, error) {
	var cfg *config.Config
	if *argConfig != "" {
		loaded, err := config.Load(*argConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default(0)
	}

	percent, err := pickPercent()
	if err != nil {
		return nil, err
	}
	if percent > 0 {
		cfg.Percent = percent
	}
	if cfg.Percent == 0 && cfg.Target <= 0 {
		return nil, errors.New("pick a load level: -low, -mid, -high or -percent N")
	}

	if *argChunk != "" {
		n, err := bytes.ParseSize(*argChunk)
		if err != nil {
			return nil, fmt.Errorf("parse -chunk: %w", err)
		}
		cfg.ChunkSize = config.Size(n)
	}
	if *argIntensity != 0 {
		cfg.Intensity = *argIntensity
	}
	if *argStatic {
		cfg.Static = true
	}
	if *argDuration != 0 {
		cfg.Duration = *argDuration
	}

	cfg.Adjust()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pickPercent resolves the mutually exclusive load-level flags.
func pickPercent() (int, error) {
	picked := 0
	set := 0
	for _, p := range []struct {
		on  bool
		pct int
	}{
		{*argLow, 30},
		{*argMid, 50},
		{*argHigh, 75},
		{*argPercent > 0, *argPercent},
	} {
		if p.on {
			picked = p.pct
			set++
		}
	}
	if set > 1 {
		return 0, errors.New("-low, -mid, -high and -percent are mutually exclusive")
	}
	return picked, nil
}

func buildLogger(json bool) *slog.Logger {
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(h).With("service", "jaws")
}
