// Package metrics mirrors collected samples into optional sinks: a SQLite
// archive and a Prometheus textfile.
package metrics

import (
	"context"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
	"codeberg.org/mutker/ps3temp/internal/telemetry"
)

type service struct {
	cfg      Config
	repo     MetricsRepository
	textfile *textfileExporter
}

// No-op implementation
type noopMetricsCollector struct{}

func NewService(cfg Config) (MetricsCollector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If every sink is disabled, return a no-op collector
	if !cfg.Enabled() {
		logger.Debug().Msg("Metrics sinks disabled, using no-op collector")
		return &noopMetricsCollector{}, nil
	}

	s := &service{cfg: cfg}

	if cfg.Textfile != "" {
		textfile, err := newTextfileExporter(cfg.Textfile, cfg.Run)
		if err != nil {
			return nil, err
		}
		s.textfile = textfile
	}

	if cfg.Archive {
		repo, err := NewRepository(cfg, logger.Default())
		if err != nil {
			logger.Debug().Err(err).Msg("Failed to create sample archive")
			return nil, err
		}
		s.repo = repo
	}

	logger.Debug().
		Str("run", cfg.Run).
		Bool("archive", cfg.Archive).
		Str("db_path", cfg.DBPath).
		Str("textfile", cfg.Textfile).
		Msg("Metrics service initialized successfully")

	return s, nil
}

func (s *service) Record(ctx context.Context, sample *telemetry.Sample) error {
	errFactory := errors.New()

	if sample == nil {
		return errFactory.New(ErrInvalidMetrics)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	if s.repo != nil {
		if err := s.repo.Record(ctx, s.cfg.Run, sample); err != nil {
			return errFactory.Wrap(ErrMetricsCollection, err)
		}
	}

	if s.textfile != nil {
		if err := s.textfile.Record(ctx, sample); err != nil {
			return errFactory.Wrap(ErrMetricsCollection, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	if s.repo == nil {
		return nil
	}

	return s.repo.Close()
}

func (*noopMetricsCollector) Record(_ context.Context, _ *telemetry.Sample) error {
	return nil
}

func (*noopMetricsCollector) Close() error {
	return nil
}
