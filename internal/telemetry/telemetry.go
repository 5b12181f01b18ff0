// Package telemetry stores samples in the run's CSV log.
package telemetry

import (
	"encoding/csv"
	"io"
	"os"

	"codeberg.org/mutker/ps3temp/internal/errors"
)

// ReadLog returns the data rows of the log at path in file order. The
// header row is checked and skipped.
func ReadLog(path string) ([]Sample, error) {
	errFactory := errors.New()

	f, err := os.Open(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrLogRead, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errFactory.WithData(ErrEmptyLog, path)
	}
	if err != nil {
		return nil, errFactory.Wrap(ErrInvalidLog, err)
	}
	if !isHeader(header) {
		return nil, errFactory.WithData(ErrInvalidLog, struct {
			Path   string
			Header []string
		}{
			Path:   path,
			Header: append([]string(nil), header...),
		})
	}

	var samples []Sample
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errFactory.Wrap(ErrInvalidLog, err)
		}

		sample, err := parseRecord(line, record)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return nil, errFactory.WithData(ErrEmptyLog, path)
	}

	return samples, nil
}
