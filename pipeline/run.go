package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/technova/compintel/bls"
	"github.com/technova/compintel/models"
)

// ReferenceSource resolves the occupation and area query scope.
type ReferenceSource interface {
	Scope(ctx context.Context) ([]bls.Occupation, []bls.Area, error)
}

// BatchFetcher issues one external request per batch and classifies it.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, seriesIDs []string, startYear, endYear int) bls.Outcome
}

// WageStore is the pipeline's write path.
type WageStore interface {
	UpsertBatch(ctx context.Context, observations []models.WageObservation) (int, error)
	RecordRun(ctx context.Context, run *models.PipelineRun) error
}

// Options configure one invocation.
type Options struct {
	// Year overrides the configured survey year when > 0.
	Year int
	// TriggerSource labels the audit row; defaults to "manual".
	TriggerSource string
}

// counters accumulate requested/received/written across batches. The batch
// loop folds them as values rather than mutating shared state, so each batch
// step stays testable on its own.
type counters struct {
	requested int
	received  int
	written   int
}

func (c counters) add(d counters) counters {
	return counters{
		requested: c.requested + d.requested,
		received:  c.received + d.received,
		written:   c.written + d.written,
	}
}

// Runner orchestrates one ingestion invocation: resolve scope, build series,
// fetch batches strictly sequentially, transform and upsert per batch, then
// write exactly one audit row whatever the outcome.
type Runner struct {
	refs      ReferenceSource
	fetcher   BatchFetcher
	store     WageStore
	batchSize int
	year      int
	log       *zap.Logger
}

// NewRunner wires a Runner. year is the default survey year; batchSize is the
// registered-key limit of the external service.
func NewRunner(refs ReferenceSource, fetcher BatchFetcher, store WageStore, batchSize, year int, log *zap.Logger) *Runner {
	return &Runner{
		refs:      refs,
		fetcher:   fetcher,
		store:     store,
		batchSize: batchSize,
		year:      year,
		log:       log.Named("pipeline"),
	}
}

// Run executes the pipeline once and returns the completed run record, which
// is also persisted to pipeline_run_log before returning. The error is
// non-nil only when the run terminates FAILED; PARTIAL is not an error.
//
// Per-batch policy: Succeeded → transform + upsert; EmptyOrRejected → warn
// and skip; RateLimited / ServerError → abort the remaining batches. A failed
// or skipped batch never touches previously stored rows for its keys.
func (r *Runner) Run(ctx context.Context, opts Options) (*models.PipelineRun, error) {
	started := time.Now()

	trigger := opts.TriggerSource
	if trigger == "" {
		trigger = "manual"
	}
	year := opts.Year
	if year <= 0 {
		year = r.year
	}

	r.log.Info("starting run",
		zap.Int("survey_year", year),
		zap.Int("batch_size", r.batchSize),
		zap.String("trigger", trigger),
	)

	occupations, areas, err := r.refs.Scope(ctx)
	if err != nil {
		return r.finish(ctx, models.RunFailed, counters{}, started, trigger, err), err
	}

	refs, err := bls.BuildSeries(occupations, areas)
	if err != nil {
		return r.finish(ctx, models.RunFailed, counters{}, started, trigger, err), err
	}
	batches := bls.Partition(refs, r.batchSize)
	byID := bls.RefsByID(refs)

	r.log.Info("series scope built",
		zap.Int("occupations", len(occupations)),
		zap.Int("areas", len(areas)),
		zap.Int("series", len(refs)),
		zap.Int("batches", len(batches)),
	)

	acc := counters{}
	skipped := 0

	for i, batch := range batches {
		// Cancellation is honored only between batches; the last completed
		// batch's writes stay intact.
		if err := ctx.Err(); err != nil {
			cancelErr := fmt.Errorf("run cancelled after %d/%d batches: %w", i, len(batches), err)
			return r.finish(ctx, models.RunFailed, acc, started, trigger, cancelErr), cancelErr
		}

		ids := make([]string, len(batch))
		for j, ref := range batch {
			ids[j] = ref.SeriesID
		}

		outcome := r.fetcher.FetchBatch(ctx, ids, year, year)
		acc = acc.add(counters{requested: len(ids)})

		switch outcome.Kind {
		case bls.OutcomeSucceeded:
			observations := Transform(outcome.Series, byID, year, r.log)
			written, err := r.store.UpsertBatch(ctx, observations)
			if err != nil {
				return r.finish(ctx, models.RunFailed, acc, started, trigger, err), err
			}
			acc = acc.add(counters{received: len(observations), written: written})
			r.log.Info("batch committed",
				zap.Int("batch", i+1),
				zap.Int("batches", len(batches)),
				zap.Int("series", len(ids)),
				zap.Int("received", len(observations)),
				zap.Int("written", written),
			)

		case bls.OutcomeEmptyOrRejected:
			skipped++
			r.log.Warn("batch empty or rejected, skipping",
				zap.Int("batch", i+1),
				zap.Int("batches", len(batches)),
				zap.String("detail", outcome.Detail),
			)

		case bls.OutcomeRateLimited, bls.OutcomeServerError:
			abortErr := fmt.Errorf("batch %d/%d %s: %s", i+1, len(batches), outcome.Kind, outcome.Detail)
			return r.finish(ctx, models.RunFailed, acc, started, trigger, abortErr), abortErr
		}
	}

	status := models.RunSucceeded
	if skipped > 0 {
		status = models.RunPartial
	}
	return r.finish(ctx, status, acc, started, trigger, nil), nil
}

// finish assembles the run record, persists it, and logs the summary. The
// audit row is written on every terminal path, including aborts; a failure to
// write it is logged but never masks the run's own outcome.
func (r *Runner) finish(ctx context.Context, status models.RunStatus, acc counters, started time.Time, trigger string, runErr error) *models.PipelineRun {
	duration := time.Since(started)

	run := &models.PipelineRun{
		PipelineType:       models.PipelineBLSOEWS,
		Status:             status,
		RecordsRequested:   acc.requested,
		RecordsReceived:    acc.received,
		RecordsWritten:     acc.written,
		DiscrepancyFlag:    acc.received != acc.written,
		RunDurationSeconds: duration.Seconds(),
		RunTimestamp:       time.Now().UTC(),
		TriggerSource:      trigger,
	}
	if runErr != nil {
		msg := runErr.Error()
		run.ErrorMessage = &msg
	}

	// Record even when the run context is cancelled.
	recordCtx := ctx
	if recordCtx.Err() != nil {
		var cancel context.CancelFunc
		recordCtx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}
	if err := r.store.RecordRun(recordCtx, run); err != nil {
		r.log.Warn("could not write pipeline_run_log", zap.Error(err))
	}

	r.log.Info("run finished",
		zap.String("status", string(status)),
		zap.Int("requested", acc.requested),
		zap.Int("received", acc.received),
		zap.Int("written", acc.written),
		zap.Bool("discrepancy", run.DiscrepancyFlag),
		zap.Duration("duration", duration),
	)
	return run
}
