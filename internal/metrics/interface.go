package metrics

import (
	"context"

	"codeberg.org/mutker/ps3temp/internal/telemetry"
)

// MetricsCollector mirrors samples into the enabled sinks.
type MetricsCollector interface {
	Record(ctx context.Context, sample *telemetry.Sample) error
	Close() error
}

// MetricsRepository defines the interface for sample storage
type MetricsRepository interface {
	Record(ctx context.Context, run string, sample *telemetry.Sample) error
	Close() error
}
