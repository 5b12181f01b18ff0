package metrics

import (
	"context"
	"os"
	"path/filepath"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ps3temp"

// textfileExporter keeps the latest sample in a private registry and
// rewrites a node_exporter textfile after every sample.
type textfileExporter struct {
	path     string
	registry *prometheus.Registry

	cpu     prometheus.Gauge
	rsx     prometheus.Gauge
	fan     prometheus.Gauge
	elapsed prometheus.Gauge
	samples prometheus.Counter
}

func newTextfileExporter(path, run string) (*textfileExporter, error) {
	errFactory := errors.New()

	// The directory must already exist
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, errFactory.WithData(ErrTextfileDir, dir)
	}

	labels := prometheus.Labels{"run": run}
	e := &textfileExporter{
		path:     path,
		registry: prometheus.NewRegistry(),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cpu_temperature_celsius",
			Help:        "Last reported CPU temperature",
			ConstLabels: labels,
		}),
		rsx: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "rsx_temperature_celsius",
			Help:        "Last reported RSX temperature",
			ConstLabels: labels,
		}),
		fan: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "fan_speed_percent",
			Help:        "Last reported fan duty",
			ConstLabels: labels,
		}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "elapsed_seconds",
			Help:        "Seconds since collection started at the last sample",
			ConstLabels: labels,
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "samples_total",
			Help:        "Samples collected in this run",
			ConstLabels: labels,
		}),
	}

	for _, c := range []prometheus.Collector{e.cpu, e.rsx, e.fan, e.elapsed, e.samples} {
		if err := e.registry.Register(c); err != nil {
			return nil, errFactory.Wrap(ErrStorageInit, err)
		}
	}

	return e, nil
}

func (e *textfileExporter) Record(_ context.Context, sample *telemetry.Sample) error {
	errFactory := errors.New()

	e.cpu.Set(float64(sample.CPU))
	e.rsx.Set(float64(sample.RSX))
	e.fan.Set(float64(sample.Fan))
	e.elapsed.Set(float64(sample.Elapsed))
	e.samples.Inc()

	// WriteToTextfile renames a temp file into place
	if err := prometheus.WriteToTextfile(e.path, e.registry); err != nil {
		return errFactory.Wrap(ErrTextfileWrite, err)
	}

	return nil
}
