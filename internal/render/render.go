// Package render draws the temperature chart for a run's log.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
	"codeberg.org/mutker/ps3temp/internal/telemetry"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 1024
	chartHeight = 512

	defaultFilePerm = 0o644
)

// Plot holds the series drawn for a log.
type Plot struct {
	Time []float64
	CPU  []float64
	RSX  []float64
	// Fan is the fan value of the last data row.
	Fan int
}

// NewPlot builds the series for samples in log order.
func NewPlot(samples []telemetry.Sample) (Plot, error) {
	if len(samples) == 0 {
		return Plot{}, errors.New().New(ErrNoData)
	}

	p := Plot{
		Time: make([]float64, 0, len(samples)),
		CPU:  make([]float64, 0, len(samples)),
		RSX:  make([]float64, 0, len(samples)),
	}
	for _, s := range samples {
		p.Time = append(p.Time, float64(s.Elapsed))
		p.CPU = append(p.CPU, float64(s.CPU))
		p.RSX = append(p.RSX, float64(s.RSX))
	}
	p.Fan = samples[len(samples)-1].Fan

	return p, nil
}

func (p Plot) Title() string {
	return fmt.Sprintf("CPU and RSX temps| Fan %d%%", p.Fan)
}

// Chart returns the go-chart definition for the plot, without legend.
func (p Plot) Chart() chart.Chart {
	graph := chart.Chart{
		Title:  p.Title(),
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Time",
			Range: paddedRange(p.Time),
		},
		YAxis: chart.YAxis{
			Name:  "Temp C",
			Range: paddedRange(p.CPU, p.RSX),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "CPU",
				XValues: p.Time,
				YValues: p.CPU,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "RSX",
				XValues: p.Time,
				YValues: p.RSX,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
		},
	}

	return graph
}

// paddedRange returns nil so go-chart picks the range itself, except when
// every value is equal; go-chart cannot draw a zero-width range.
func paddedRange(series ...[]float64) chart.Range {
	first := true
	var lo, hi float64
	for _, values := range series {
		for _, v := range values {
			if first {
				lo, hi, first = v, v, false
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}

	if first || lo != hi {
		return nil
	}

	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// WriteSVG renders the plot as SVG to w.
func WriteSVG(w io.Writer, p Plot) error {
	graph := p.Chart()
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return errors.New().Wrap(ErrDraw, err)
	}

	return nil
}

// Render reads the log at logPath and writes the chart to chartPath. The
// log is only read; the chart file is replaced only after rendering
// succeeded.
func Render(logPath, chartPath string) (Plot, error) {
	errFactory := errors.New()

	samples, err := telemetry.ReadLog(logPath)
	if err != nil {
		return Plot{}, err
	}

	p, err := NewPlot(samples)
	if err != nil {
		return Plot{}, err
	}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, p); err != nil {
		return Plot{}, err
	}

	if err := writeFile(chartPath, buf.Bytes()); err != nil {
		return Plot{}, errFactory.Wrap(ErrWriteChart, err)
	}

	logger.Info().
		Str("chart", chartPath).
		Int("samples", len(samples)).
		Int("fan", p.Fan).
		Msg("Chart rendered")

	return p, nil
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(defaultFilePerm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
