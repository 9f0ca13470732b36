package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolationCode = "23505"

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS extraction_run (
		id          UUID PRIMARY KEY,
		source_dir  TEXT NOT NULL,
		status      TEXT NOT NULL,
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		documents   INTEGER NOT NULL,
		workers     INTEGER NOT NULL,
		result_json TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS worker_profile (
		run_id       UUID NOT NULL REFERENCES extraction_run(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		emp_no       TEXT NOT NULL,
		name         TEXT NOT NULL,
		basic_pay    TEXT,
		profile_json JSONB NOT NULL,
		PRIMARY KEY (run_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS period_snapshot (
		run_id        UUID NOT NULL REFERENCES extraction_run(id) ON DELETE CASCADE,
		seq           INTEGER NOT NULL,
		month         TEXT NOT NULL,
		year          TEXT NOT NULL,
		name          TEXT NOT NULL,
		gross_salary  TEXT NOT NULL,
		basic_pay     TEXT NOT NULL,
		paye          TEXT NOT NULL,
		nssf_employee TEXT NOT NULL,
		nhif          TEXT NOT NULL,
		net_pay       TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
}

// Queryer is satisfied by *pgxpool.Pool and by pgxmock pools.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore archives runs in PostgreSQL.
type PostgresStore struct {
	pool   Queryer
	closer func()
	logger *slog.Logger
}

// NewPostgresStore wraps pool; closer (may be nil) runs on Close.
func NewPostgresStore(pool Queryer, closer func(), logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, closer: closer, logger: logger}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run Run) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Warn("postgres rollback failed", "run_id", run.ID, "error", rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, `
        INSERT INTO extraction_run (id, source_dir, status, started_at, finished_at, documents, workers, result_json)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `,
		run.ID, run.SourceDir, string(run.Status), run.StartedAt, run.FinishedAt,
		run.Documents, len(run.Result.Workers), string(run.ResultJSON),
	); err != nil {
		return translatePgError(err)
	}

	for i, p := range run.Result.Workers {
		if _, err = tx.Exec(ctx, `
        INSERT INTO worker_profile (run_id, position, emp_no, name, basic_pay, profile_json)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, run.ID, i, p.EmpNo, p.Name, p.BasicPay, profileJSON(p)); err != nil {
			return translatePgError(err)
		}
	}

	seq := 0
	for _, period := range run.Result.PayrollHistory {
		for _, r := range period.Records {
			if _, err = tx.Exec(ctx, `
        INSERT INTO period_snapshot (run_id, seq, month, year, name, gross_salary, basic_pay, paye, nssf_employee, nhif, net_pay)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, run.ID, seq, period.Month, period.Year, r.Name,
				r.GrossSalary, r.BasicPay, r.PAYE, r.NSSFEmployee, r.NHIF, r.NetPay); err != nil {
				return translatePgError(err)
			}
			seq++
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	s.logger.Info("repository.run.saved", "driver", "postgres", "run_id", run.ID, "workers", len(run.Result.Workers), "snapshots", seq)
	return nil
}

func (s *PostgresStore) GetRunJSON(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var out string
	err := s.pool.QueryRow(ctx, `SELECT result_json FROM extraction_run WHERE id = $1`, id).Scan(&out)
	if err != nil {
		return nil, translatePgError(err)
	}
	return []byte(out), nil
}

func (s *PostgresStore) Close() error {
	if s.closer != nil {
		s.closer()
	}
	return nil
}

// ErrDuplicateRun is returned when a run ID is archived twice.
var ErrDuplicateRun = errors.New("run already archived")

func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRunNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return ErrDuplicateRun
	}
	return err
}
