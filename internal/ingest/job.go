// Package ingest runs the state-vector ingestion cycle: record an attempt,
// fetch the current snapshot, persist it to object storage, and finalize the
// attempt with exactly one terminal outcome.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/flightwatch/internal/model"
	"github.com/gyeh/flightwatch/internal/normalize"
)

// Fetcher retrieves the current state vectors inside a bounding region.
type Fetcher interface {
	FetchStates(ctx context.Context, region model.Region) (model.StateVectorBatch, error)
}

// Writer persists an encoded batch and returns its storage path.
type Writer interface {
	Write(ctx context.Context, batch model.StateVectorBatch, partitionTime time.Time) (string, error)
}

// Store records ingestion attempts and their terminal outcomes.
type Store interface {
	Create(ctx context.Context) (*model.Attempt, error)
	MarkSuccess(ctx context.Context, id int64, recordCount int64, storagePath string) error
	MarkFailed(ctx context.Context, id int64, category model.ErrorCategory, message string) error
}

// Notifier receives attempt outcomes. Implementations must be best-effort;
// the job ignores anything that goes wrong downstream of it.
type Notifier interface {
	OnSuccess(ctx context.Context, attemptID int64, recordCount int64, duration time.Duration)
	OnFailure(ctx context.Context, attemptID int64, category model.ErrorCategory, message string, duration time.Duration)
}

// finalizeTimeout bounds terminal writes and notifications once the run
// context is gone, so shutdown never orphans a pending attempt.
const finalizeTimeout = 10 * time.Second

// Result summarizes one completed attempt.
type Result struct {
	AttemptID   int64
	Status      model.Status
	RecordCount int64
	StoragePath string
	Category    model.ErrorCategory
	Message     string
	Duration    time.Duration
}

// Job executes one ingestion attempt per Run call.
type Job struct {
	fetcher      Fetcher
	writer       Writer
	store        Store
	notifier     Notifier
	region       model.Region
	fetchTimeout time.Duration
	log          zerolog.Logger
}

func NewJob(fetcher Fetcher, writer Writer, store Store, notifier Notifier, region model.Region, fetchTimeout time.Duration, log zerolog.Logger) *Job {
	return &Job{
		fetcher:      fetcher,
		writer:       writer,
		store:        store,
		notifier:     notifier,
		region:       region,
		fetchTimeout: fetchTimeout,
		log:          log,
	}
}

// Run performs one full attempt. Every attempt that gets a database record
// ends in exactly one terminal state and exactly one notification. If the
// attempt record itself cannot be created, Run returns the error without
// notifying; there is nothing to report an outcome for.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	attempt, err := j.store.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	log := j.log.With().Int64("attempt_id", attempt.ID).Stringer("batch_id", attempt.BatchID).Logger()
	log.Info().Msg("ingestion attempt started")

	fetchCtx, cancel := context.WithTimeout(ctx, j.fetchTimeout)
	batch, err := j.fetcher.FetchStates(fetchCtx, j.region)
	cancel()
	if err != nil {
		return j.fail(ctx, log, attempt.ID, err, start)
	}

	batch = normalize.CleanBatch(batch)

	// A zero-row snapshot is still a success: the empty file is written so
	// the attempt has a storage path and downstream readers see the gap.
	path, err := j.writer.Write(ctx, batch, attempt.StartedAt)
	if err != nil {
		return j.fail(ctx, log, attempt.ID, err, start)
	}

	count := int64(len(batch.States))
	fctx, fcancel := finalizeContext(ctx)
	defer fcancel()
	if err := j.store.MarkSuccess(fctx, attempt.ID, count, path); err != nil {
		return nil, fmt.Errorf("finalize attempt %d: %w", attempt.ID, err)
	}

	duration := time.Since(start)
	j.notifier.OnSuccess(fctx, attempt.ID, count, duration)
	log.Info().Int64("records", count).Str("storage_path", path).Dur("duration", duration).Msg("ingestion attempt succeeded")

	return &Result{
		AttemptID:   attempt.ID,
		Status:      model.StatusSuccess,
		RecordCount: count,
		StoragePath: path,
		Duration:    duration,
	}, nil
}

// fail classifies the error, records the terminal failure, and notifies.
func (j *Job) fail(ctx context.Context, log zerolog.Logger, attemptID int64, cause error, start time.Time) (*Result, error) {
	category, message := Classify(cause)

	fctx, fcancel := finalizeContext(ctx)
	defer fcancel()
	if err := j.store.MarkFailed(fctx, attemptID, category, message); err != nil {
		return nil, fmt.Errorf("finalize attempt %d after %s: %w", attemptID, category, err)
	}

	duration := time.Since(start)
	j.notifier.OnFailure(fctx, attemptID, category, message, duration)
	log.Error().Err(cause).Str("category", string(category)).Dur("duration", duration).Msg("ingestion attempt failed")

	return &Result{
		AttemptID: attemptID,
		Status:    model.StatusFailed,
		Category:  category,
		Message:   message,
		Duration:  duration,
	}, nil
}

// finalizeContext detaches from the run context's cancellation so terminal
// writes still land during shutdown, while keeping its values.
func finalizeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
}
