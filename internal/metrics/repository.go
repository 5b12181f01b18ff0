package metrics

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
	"codeberg.org/mutker/ps3temp/internal/telemetry"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db     *sql.DB
	logger logger.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// NewRepository opens (and if needed creates or migrates) the SQLite
// archive at cfg.DBPath.
func NewRepository(cfg Config, log logger.Logger) (MetricsRepository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, failure("create_directory", cfg.DBPath, err))
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, failure("open_database", cfg.DBPath, err))
	}

	if err := ValidateAndUpdateSchema(db, cfg.backupDir(), log); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Sample archive initialized")

	return &repository{
		db:     db,
		logger: log,
		now:    time.Now,
	}, nil
}

func (r *repository) Record(ctx context.Context, run string, sample *telemetry.Sample) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, insertSampleSQL,
		run,
		r.now().Unix(),
		int64(sample.Elapsed),
		int64(sample.CPU),
		int64(sample.RSX),
		int64(sample.Fan),
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

// Samples returns the archived samples of run in insertion order.
func (r *repository) Samples(ctx context.Context, run string) ([]telemetry.Sample, error) {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, selectRunSQL, run)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var samples []telemetry.Sample
	for rows.Next() {
		var s telemetry.Sample
		if err := rows.Scan(&s.Elapsed, &s.CPU, &s.RSX, &s.Fan); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return samples, nil
}

func (r *repository) Close() error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Checkpoint WAL so the archive is a single file after exit
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to checkpoint WAL")
	}

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	r.logger.Debug().Msg("Sample archive closed")

	return nil
}
