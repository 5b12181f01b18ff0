// Package summary computes per-run temperature statistics.
package summary

import (
	"context"
	"math"

	"codeberg.org/mutker/ps3temp/internal/logger"
	"codeberg.org/mutker/ps3temp/internal/telemetry"
	"github.com/influxdata/tdigest"
)

const compression = 100

// Stats describes one temperature series.
type Stats struct {
	Min  int
	Max  int
	Mean float64
	P50  float64
	P95  float64
}

type Report struct {
	Samples int
	CPU     Stats
	RSX     Stats
	MaxFan  int
	LastFan int
}

type series struct {
	digest   *tdigest.TDigest
	min, max int
	sum      float64
}

func newSeries() *series {
	return &series{
		digest: tdigest.NewWithCompression(compression),
		min:    math.MaxInt,
		max:    math.MinInt,
	}
}

func (s *series) add(v int) {
	s.digest.Add(float64(v), 1)
	s.min = min(s.min, v)
	s.max = max(s.max, v)
	s.sum += float64(v)
}

func (s *series) stats(n int) Stats {
	if n == 0 {
		return Stats{}
	}

	return Stats{
		Min:  s.min,
		Max:  s.max,
		Mean: s.sum / float64(n),
		P50:  s.digest.Quantile(0.5),
		P95:  s.digest.Quantile(0.95),
	}
}

// Accumulator collects samples as they arrive.
type Accumulator struct {
	n       int
	cpu     *series
	rsx     *series
	maxFan  int
	lastFan int
}

func New() *Accumulator {
	return &Accumulator{
		cpu:    newSeries(),
		rsx:    newSeries(),
		maxFan: math.MinInt,
	}
}

func (a *Accumulator) Add(s telemetry.Sample) {
	a.n++
	a.cpu.add(s.CPU)
	a.rsx.add(s.RSX)
	a.maxFan = max(a.maxFan, s.Fan)
	a.lastFan = s.Fan
}

func (a *Accumulator) Report() Report {
	r := Report{
		Samples: a.n,
		CPU:     a.cpu.stats(a.n),
		RSX:     a.rsx.stats(a.n),
	}
	if a.n > 0 {
		r.MaxFan = a.maxFan
		r.LastFan = a.lastFan
	}

	return r
}

// Record adds sample so an Accumulator can sit alongside the other sinks.
func (a *Accumulator) Record(_ context.Context, sample *telemetry.Sample) error {
	if sample != nil {
		a.Add(*sample)
	}

	return nil
}

// FromSamples summarizes a complete run.
func FromSamples(samples []telemetry.Sample) Report {
	a := New()
	for _, s := range samples {
		a.Add(s)
	}

	return a.Report()
}

// Log writes the report at info level.
func (r Report) Log(run string) {
	logger.Info().
		Str("run", run).
		Int("samples", r.Samples).
		Int("cpu_min", r.CPU.Min).
		Int("cpu_max", r.CPU.Max).
		Float64("cpu_mean", r.CPU.Mean).
		Float64("cpu_p95", r.CPU.P95).
		Int("rsx_min", r.RSX.Min).
		Int("rsx_max", r.RSX.Max).
		Float64("rsx_mean", r.RSX.Mean).
		Float64("rsx_p95", r.RSX.P95).
		Int("fan_max", r.MaxFan).
		Int("fan_last", r.LastFan).
		Msg("Run summary")
}
