package artifacts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Store persists per-run artifacts (filtered layouts, raw chunk responses,
// merged results) for inspection. It is observability, not correctness: every
// write is best-effort and a failing store never fails a run.
type Store struct {
	db     *sql.DB
	pool   *pgxpool.Pool // non-nil only for postgres
	logger *slog.Logger
}

// One statement per entry; pgx's extended protocol rejects batched DDL.
// blobType differs because postgres has no BLOB.
func schema(blobType string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id     TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			intent     TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at   TIMESTAMP,
			success    BOOLEAN,
			errors     TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			run_id     TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			kind       TEXT NOT NULL,
			name       TEXT NOT NULL,
			content    ` + blobType + ` NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts (run_id)`,
	}
}

// Open connects to the artifact store. A postgres:// DSN goes through a pgx
// pool; anything else is treated as a sqlite path (":memory:" works).
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db   *sql.DB
		pool *pgxpool.Pool
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		pc, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse artifacts dsn: %w", err)
		}
		pc.ConnConfig.RuntimeParams["application_name"] = "formflow"
		pool, err = pgxpool.NewWithConfig(ctx, pc)
		if err != nil {
			return nil, fmt.Errorf("connect artifacts db: %w", err)
		}
		db = stdlib.OpenDBFromPool(pool)
	} else {
		var err error
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite artifacts db: %w", err)
		}
	}

	blobType := "BLOB"
	if pool != nil {
		blobType = "BYTEA"
	}
	for _, stmt := range schema(blobType) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			if pool != nil {
				pool.Close()
			}
			return nil, fmt.Errorf("create artifacts schema: %w", err)
		}
	}

	logger.Info("artifacts.store.open", "backend", backendName(pool))
	return &Store{db: db, pool: pool, logger: logger}, nil
}

func backendName(pool *pgxpool.Pool) string {
	if pool != nil {
		return "postgres"
	}
	return "sqlite"
}

// Close closes the store gracefully.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error("artifacts.store.close_error", "error", err)
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// BeginRun records the start of a workflow run.
func (s *Store) BeginRun(ctx context.Context, runID, userID, intent string) {
	if s == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, user_id, intent, started_at) VALUES ($1, $2, $3, $4)`,
		runID, userID, intent, time.Now().UTC(),
	)
	if err != nil {
		s.logger.Warn("artifacts.run.begin_failed", "run_id", runID, "error", err)
	}
}

// FinishRun records the outcome of a workflow run.
func (s *Store) FinishRun(ctx context.Context, runID string, success bool, errs []string) {
	if s == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET ended_at = $1, success = $2, errors = $3 WHERE run_id = $4`,
		time.Now().UTC(), success, strings.Join(errs, "; "), runID,
	)
	if err != nil {
		s.logger.Warn("artifacts.run.finish_failed", "run_id", runID, "error", err)
	}
}

// Save stores one artifact blob for a run.
func (s *Store) Save(ctx context.Context, runID, userID, kind, name string, content []byte) {
	if s == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (run_id, user_id, kind, name, content, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, userID, kind, name, content, time.Now().UTC(),
	)
	if err != nil {
		s.logger.Warn("artifacts.save_failed",
			"run_id", runID, "kind", kind, "name", name, "error", err)
	}
}

// Ping verifies connectivity within the given timeout.
func (s *Store) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// CountRuns returns the number of recorded runs.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// RunEnded reports whether a run has its terminal row recorded.
func (s *Store) RunEnded(ctx context.Context, runID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE run_id = $1 AND ended_at IS NOT NULL`, runID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query run outcome: %w", err)
	}
	return n > 0, nil
}

// RunRecorder binds a store to one run so pipeline stages can record
// artifacts without knowing run identity.
type RunRecorder struct {
	Store  *Store
	RunID  string
	UserID string
}

func (r *RunRecorder) Record(ctx context.Context, kind, name string, content []byte) {
	if r == nil || r.Store == nil {
		return
	}
	r.Store.Save(ctx, r.RunID, r.UserID, kind, name, content)
}
