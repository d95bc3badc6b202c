package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/technova/compintel/models"
)

// ErrStorageUnavailable means a write to the wage table failed. The batch's
// transaction is rolled back, so prior committed batches remain valid.
var ErrStorageUnavailable = errors.New("wage storage unavailable")

// Storage is the single write path for wage rows and audit rows.
type Storage struct {
	db *bun.DB
}

// NewStorage creates a Storage backed by the given database.
func NewStorage(db *bun.DB) *Storage {
	return &Storage{db: db}
}

// UpsertBatch writes one batch of wage observations as a single transaction:
// insert on the natural key, or overwrite the value and written timestamp.
// Either every row in the batch commits or none do. Returns rows written.
func (s *Storage) UpsertBatch(ctx context.Context, observations []models.WageObservation) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	for i := range observations {
		observations[i].UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	res, err := tx.NewInsert().
		Model(&observations).
		On("CONFLICT (soc_code, msa_code, reference_year, data_type) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("soc_title = EXCLUDED.soc_title").
		Set("msa_name = EXCLUDED.msa_name").
		Set("data_source = EXCLUDED.data_source").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: upsert batch: %v", ErrStorageUnavailable, err)
	}

	written, err := res.RowsAffected()
	if err != nil {
		written = int64(len(observations))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrStorageUnavailable, err)
	}
	return int(written), nil
}

// RecordRun appends one audit row. Run rows are never updated afterwards.
func (s *Storage) RecordRun(ctx context.Context, run *models.PipelineRun) error {
	if _, err := s.db.NewInsert().Model(run).Exec(ctx); err != nil {
		return fmt.Errorf("insert pipeline_run_log: %w", err)
	}
	return nil
}
