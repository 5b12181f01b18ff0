package telemetry

import (
	"encoding/csv"
	"os"
	"sync"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
)

// Writer appends samples to a CSV log, flushing every row.
type Writer struct {
	f  *os.File
	w  *csv.Writer
	mu sync.Mutex
}

// Create truncates or creates the log at path and writes the header row.
func Create(path string) (*Writer, error) {
	errFactory := errors.New()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFilePerm)
	if err != nil {
		return nil, errFactory.Wrap(ErrLogCreate, err)
	}

	lw := &Writer{
		f: f,
		w: csv.NewWriter(f),
	}

	if err := lw.write(Header); err != nil {
		f.Close()
		return nil, errFactory.Wrap(ErrLogCreate, err)
	}

	logger.Debug().Str("path", path).Msg("Log created")

	return lw, nil
}

func (lw *Writer) Append(sample Sample) error {
	errFactory := errors.New()

	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.f == nil {
		return errFactory.New(ErrLogClosed)
	}

	if err := lw.write(sample.record()); err != nil {
		return errFactory.Wrap(ErrLogWrite, err)
	}

	return nil
}

func (lw *Writer) Close() error {
	errFactory := errors.New()

	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.f == nil {
		return nil
	}

	err := lw.f.Close()
	lw.f = nil
	if err != nil {
		return errFactory.Wrap(ErrLogClose, err)
	}

	return nil
}

// write must be called with mu held or before the writer is shared.
func (lw *Writer) write(record []string) error {
	if err := lw.w.Write(record); err != nil {
		return err
	}
	lw.w.Flush()
	if err := lw.w.Error(); err != nil {
		return err
	}

	return lw.f.Sync()
}
