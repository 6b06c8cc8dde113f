package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

// runRepository implements ports.RunRepository using SQLite.
type runRepository struct {
	db *sql.DB
}

// newRunRepository creates a new run repository.
func newRunRepository(db *sql.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Save persists a finished run.
func (r *runRepository) Save(ctx context.Context, run *domain.TimerRun) error {
	query := `
		INSERT INTO runs (
			id, session_length_seconds, total_duration_seconds, elapsed_seconds,
			completed_sessions, outcome, started_at, ended_at,
			git_branch, git_commit
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.SessionLengthSeconds,
		run.TotalDurationSeconds,
		run.ElapsedSeconds,
		run.CompletedSessions,
		string(run.Outcome),
		run.StartedAt,
		run.EndedAt,
		run.GitBranch,
		run.GitCommit,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("run %s already saved: %w", run.ID, err)
		}
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// FindByID retrieves a run by its unique identifier.
func (r *runRepository) FindByID(ctx context.Context, id string) (*domain.TimerRun, error) {
	query := `
		SELECT
			id, session_length_seconds, total_duration_seconds, elapsed_seconds,
			completed_sessions, outcome, started_at, ended_at,
			git_branch, git_commit
		FROM runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	return run, nil
}

// FindRecent retrieves runs started at or after since, newest first.
// A non-positive limit returns every matching run.
func (r *runRepository) FindRecent(ctx context.Context, since time.Time, limit int) ([]*domain.TimerRun, error) {
	query := `
		SELECT
			id, session_length_seconds, total_duration_seconds, elapsed_seconds,
			completed_sessions, outcome, started_at, ended_at,
			git_branch, git_commit
		FROM runs
		WHERE started_at >= ?
		ORDER BY started_at DESC
	`
	args := []interface{}{since}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*domain.TimerRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*domain.TimerRun, error) {
	var run domain.TimerRun
	var outcome string

	err := row.Scan(
		&run.ID,
		&run.SessionLengthSeconds,
		&run.TotalDurationSeconds,
		&run.ElapsedSeconds,
		&run.CompletedSessions,
		&outcome,
		&run.StartedAt,
		&run.EndedAt,
		&run.GitBranch,
		&run.GitCommit,
	)
	if err != nil {
		return nil, err
	}

	run.Outcome = domain.RunOutcome(outcome)
	return &run, nil
}
