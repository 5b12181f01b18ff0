package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/ps3temp/internal/collector"
	"codeberg.org/mutker/ps3temp/internal/config"
	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
	"codeberg.org/mutker/ps3temp/internal/metrics"
	"codeberg.org/mutker/ps3temp/internal/pid"
	"codeberg.org/mutker/ps3temp/internal/render"
	"codeberg.org/mutker/ps3temp/internal/summary"
	"codeberg.org/mutker/ps3temp/internal/webman"
	"github.com/spf13/pflag"
)

// logOutput receives operational logs; stdout carries the sample lines.
var logOutput io.Writer = os.Stderr

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go handleSignals(cancel)

	err := run(ctx, os.Args[1:], os.Stdout)
	cancel()
	if err != nil {
		logError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	logger.InitWithWriter(logOutput, logger.InfoLevel, logger.IsService())

	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.SetLogLevel(level)
	logger.Debug().
		Str("name", cfg.Name).
		Str("description", cfg.Description).
		Str("address", cfg.Address).
		Msg("Config loaded")

	// Nothing touches the network until the output directory is known good
	if err := cfg.CheckOutputPath(); err != nil {
		return err
	}

	if err := pid.Write(cfg.PIDPath()); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(cfg.PIDPath()); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	sinks, err := metrics.NewService(metrics.Config{
		Run:      cfg.Name,
		Archive:  cfg.Archive,
		DBPath:   cfg.ArchiveDB,
		Textfile: cfg.Textfile,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close metrics")
		}
	}()

	stats := summary.New()
	client := webman.NewClient(cfg.Address, nil)
	logger.Info().Str("url", client.URL()).Str("name", cfg.Name).Msg("Polling console")

	result, runErr := collector.Run(ctx, collector.Options{
		LogPath:   cfg.LogPath(),
		Duration:  time.Duration(cfg.Duration) * time.Second,
		Interval:  time.Duration(cfg.Interval) * time.Second,
		Source:    client,
		Console:   stdout,
		Recorders: []collector.Recorder{sinks, stats},
	})
	if runErr != nil && !errors.HasCode(runErr, collector.ErrInterrupted) {
		return runErr
	}
	if runErr != nil && len(result.Samples) == 0 {
		return runErr
	}

	plot, err := render.Render(cfg.LogPath(), cfg.ChartPath())
	if err != nil {
		return err
	}
	logger.Info().
		Str("chart", cfg.ChartPath()).
		Str("title", plot.Title()).
		Msg("Chart written")

	stats.Report().Log(cfg.Name)

	return runErr
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func logError(err error) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg("ps3temp failed")
		return
	}
	logger.Error().Str("error_code", string(errors.CodeOf(err))).Err(err).Msg("ps3temp failed")
}
