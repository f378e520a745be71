package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/flightwatch/internal/model"
	embedsql "github.com/gyeh/flightwatch/internal/sql"
)

var (
	// ErrNotFound is returned when no attempt exists for the given id.
	ErrNotFound = errors.New("attempt not found")

	// ErrInvalidTransition is returned when a terminal write targets an
	// attempt that is no longer pending. Should not occur under correct
	// single-writer usage; the guard is defensive.
	ErrInvalidTransition = errors.New("attempt is not pending")
)

// AttemptStore persists ingestion attempts in Postgres. It is the sole owner
// of attempt identity; ids are assigned by the database on Create. Terminal
// writes are single-row UPDATEs guarded by status='pending', so concurrent
// attempts can never corrupt each other's rows and a record transitions at
// most once.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

// Create inserts a new pending attempt and returns it with its assigned id,
// batch id, and database start timestamp.
func (s *AttemptStore) Create(ctx context.Context) (*model.Attempt, error) {
	attempt := &model.Attempt{
		BatchID: uuid.New(),
		Status:  model.StatusPending,
	}

	err := s.pool.QueryRow(ctx, embedsql.InsertAttempt, attempt.BatchID).
		Scan(&attempt.ID, &attempt.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}
	return attempt, nil
}

// MarkSuccess transitions the attempt to success, writing finished_at,
// record_count, and storage_path in one atomic statement.
func (s *AttemptStore) MarkSuccess(ctx context.Context, id int64, recordCount int64, storagePath string) error {
	tag, err := s.pool.Exec(ctx, embedsql.MarkAttemptSuccess, id, recordCount, storagePath)
	if err != nil {
		return fmt.Errorf("mark attempt %d success: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, id)
	}
	return nil
}

// MarkFailed transitions the attempt to failed, writing finished_at,
// error_category, and error_message in one atomic statement.
func (s *AttemptStore) MarkFailed(ctx context.Context, id int64, category model.ErrorCategory, message string) error {
	tag, err := s.pool.Exec(ctx, embedsql.MarkAttemptFailed, id, string(category), message)
	if err != nil {
		return fmt.Errorf("mark attempt %d failed: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, id)
	}
	return nil
}

// transitionError distinguishes a missing row from a row that already
// reached a terminal state.
func (s *AttemptStore) transitionError(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("attempt %d: %w", id, ErrInvalidTransition)
}

// Get returns a single attempt by id.
func (s *AttemptStore) Get(ctx context.Context, id int64) (*model.Attempt, error) {
	attempt, err := scanAttempt(s.pool.QueryRow(ctx, embedsql.GetAttempt, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("attempt %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt %d: %w", id, err)
	}
	return attempt, nil
}

// ListByStatus returns the most recent attempts with the given status.
func (s *AttemptStore) ListByStatus(ctx context.Context, status model.Status, limit int) ([]*model.Attempt, error) {
	rows, err := s.pool.Query(ctx, embedsql.ListAttemptsByStatus, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts by status: %w", err)
	}
	defer rows.Close()
	return collectAttempts(rows)
}

// ListBetween returns attempts started in [from, to), newest first.
func (s *AttemptStore) ListBetween(ctx context.Context, from, to time.Time) ([]*model.Attempt, error) {
	rows, err := s.pool.Query(ctx, embedsql.ListAttemptsBetween, from, to)
	if err != nil {
		return nil, fmt.Errorf("list attempts between: %w", err)
	}
	defer rows.Close()
	return collectAttempts(rows)
}

func collectAttempts(rows pgx.Rows) ([]*model.Attempt, error) {
	var attempts []*model.Attempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func scanAttempt(row pgx.Row) (*model.Attempt, error) {
	var (
		a        model.Attempt
		status   string
		category *string
	)
	err := row.Scan(&a.ID, &a.BatchID, &status, &a.StartedAt, &a.FinishedAt,
		&a.RecordCount, &a.StoragePath, &category, &a.ErrorMessage)
	if err != nil {
		return nil, err
	}
	a.Status = model.Status(status)
	if category != nil {
		c := model.ErrorCategory(*category)
		a.ErrorCategory = &c
	}
	return &a, nil
}
