// Package collector polls the console and writes samples to the run's log.
package collector

import (
	"context"
	"fmt"
	"io"
	"time"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
	"codeberg.org/mutker/ps3temp/internal/telemetry"
)

type Options struct {
	// LogPath is the CSV log to create.
	LogPath string
	// Duration is the total collection time; the loop stops after the
	// first sample taken once it has been exceeded.
	Duration time.Duration
	// Interval is the pause between samples.
	Interval time.Duration

	Source Source
	// Clock defaults to RealClock.
	Clock Clock
	// Console receives one human readable line per sample. Nil discards.
	Console io.Writer
	// Recorders are optional secondary sinks.
	Recorders []Recorder
}

func (o *Options) validate() error {
	errFactory := errors.New()

	switch {
	case o.LogPath == "":
		return errFactory.WithData(ErrInvalidOptions, "log path is required")
	case o.Source == nil:
		return errFactory.WithData(ErrInvalidOptions, "source is required")
	case o.Duration <= 0:
		return errFactory.WithData(ErrInvalidOptions, "duration must be positive")
	case o.Interval <= 0:
		return errFactory.WithData(ErrInvalidOptions, "interval must be positive")
	}

	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.Console == nil {
		o.Console = io.Discard
	}

	return nil
}

// Result describes a finished (or aborted) run.
type Result struct {
	Samples []telemetry.Sample
	Started time.Time
	Elapsed time.Duration
}

// Last returns the most recent sample, if any.
func (r Result) Last() (telemetry.Sample, bool) {
	if len(r.Samples) == 0 {
		return telemetry.Sample{}, false
	}

	return r.Samples[len(r.Samples)-1], true
}

// Run collects samples until the duration has passed. Any fetch, parse or
// write error ends the run; rows already appended stay in the log. The
// Result is valid even when an error is returned.
func Run(ctx context.Context, opts Options) (Result, error) {
	errFactory := errors.New()

	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	clock := opts.Clock
	start := clock.Now()
	result := Result{Started: start}

	log, err := telemetry.Create(opts.LogPath)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := log.Close(); err != nil {
			logger.Error().Err(err).Str("path", opts.LogPath).Msg("Failed to close log")
		}
	}()

	logger.Info().
		Str("log", opts.LogPath).
		Stringer("duration", opts.Duration).
		Stringer("interval", opts.Interval).
		Msg("Collection started")

	for {
		reading, err := opts.Source.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return finish(result, clock), errFactory.Wrap(ErrInterrupted, err)
			}
			return finish(result, clock), errFactory.Wrap(ErrFetch, err)
		}

		since := clock.Now().Sub(start)
		sample := telemetry.Sample{
			Elapsed: int(since / time.Second),
			CPU:     reading.CPU,
			RSX:     reading.RSX,
			Fan:     reading.Fan,
		}

		fmt.Fprintf(opts.Console, "CPU: %d °C, RSX: %d °C, FAN: %d %%\n", sample.CPU, sample.RSX, sample.Fan)

		if err := log.Append(sample); err != nil {
			return finish(result, clock), errFactory.Wrap(ErrAppend, err)
		}
		result.Samples = append(result.Samples, sample)

		logger.Debug().
			Int("elapsed", sample.Elapsed).
			Int("cpu", sample.CPU).
			Int("rsx", sample.RSX).
			Int("fan", sample.Fan).
			Msg("Sample recorded")

		for _, r := range opts.Recorders {
			if err := r.Record(ctx, &sample); err != nil {
				return finish(result, clock), errFactory.Wrap(ErrRecord, err)
			}
		}

		if since > opts.Duration {
			break
		}

		if err := clock.Sleep(ctx, opts.Interval); err != nil {
			return finish(result, clock), errFactory.Wrap(ErrInterrupted, err)
		}
	}

	result = finish(result, clock)
	logger.Info().
		Int("samples", len(result.Samples)).
		Stringer("elapsed", result.Elapsed).
		Msg("Collection finished")

	return result, nil
}

func finish(r Result, clock Clock) Result {
	r.Elapsed = clock.Now().Sub(r.Started)
	return r
}
