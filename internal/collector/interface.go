package collector

import (
	"context"
	"time"

	"codeberg.org/mutker/ps3temp/internal/telemetry"
	"codeberg.org/mutker/ps3temp/internal/webman"
)

// Source produces one reading per call.
type Source interface {
	Read(ctx context.Context) (webman.Reading, error)
}

// Clock abstracts time so the loop can be driven in tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// Recorder receives every sample after it has been written to the log.
type Recorder interface {
	Record(ctx context.Context, sample *telemetry.Sample) error
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
