package telemetry

import (
	"strconv"

	"codeberg.org/mutker/ps3temp/internal/errors"
)

const defaultFilePerm = 0o644

// Header is the first row of every log.
var Header = []string{"TIME", "CPU", "RSX", "FAN"}

func (s Sample) record() []string {
	return []string{
		strconv.Itoa(s.Elapsed),
		strconv.Itoa(s.CPU),
		strconv.Itoa(s.RSX),
		strconv.Itoa(s.Fan),
	}
}

func parseRecord(line int, record []string) (Sample, error) {
	errFactory := errors.New()

	var values [4]int
	for i, cell := range record {
		v, err := strconv.Atoi(cell)
		if err != nil {
			return Sample{}, errFactory.WithData(ErrInvalidLog, struct {
				Line   int
				Column string
				Value  string
			}{
				Line:   line,
				Column: Header[i],
				Value:  cell,
			})
		}
		values[i] = v
	}

	return Sample{
		Elapsed: values[0],
		CPU:     values[1],
		RSX:     values[2],
		Fan:     values[3],
	}, nil
}

func isHeader(record []string) bool {
	if len(record) != len(Header) {
		return false
	}
	for i := range Header {
		if record[i] != Header[i] {
			return false
		}
	}

	return true
}
