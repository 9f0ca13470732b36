package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS extraction_run (
		id          TEXT PRIMARY KEY,
		source_dir  TEXT NOT NULL,
		status      TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		documents   INTEGER NOT NULL,
		workers     INTEGER NOT NULL,
		result_json TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS worker_profile (
		run_id       TEXT NOT NULL REFERENCES extraction_run(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		emp_no       TEXT NOT NULL,
		name         TEXT NOT NULL,
		basic_pay    TEXT,
		profile_json TEXT NOT NULL,
		PRIMARY KEY (run_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS period_snapshot (
		run_id        TEXT NOT NULL REFERENCES extraction_run(id) ON DELETE CASCADE,
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

// SQLiteStore archives runs in a local SQLite file (pure Go driver).
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; the pipeline is sequential anyway
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	logger.Info("opened sqlite run archive", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warn("sqlite rollback failed", "run_id", run.ID, "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO extraction_run (id, source_dir, status, started_at, finished_at, documents, workers, result_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.SourceDir, string(run.Status),
		run.StartedAt.Format(time.RFC3339Nano), run.FinishedAt.Format(time.RFC3339Nano),
		run.Documents, len(run.Result.Workers), string(run.ResultJSON),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, p := range run.Result.Workers {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO worker_profile (run_id, position, emp_no, name, basic_pay, profile_json) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID.String(), i, p.EmpNo, p.Name, p.BasicPay, profileJSON(p),
		); err != nil {
			return fmt.Errorf("insert worker %q: %w", p.Name, err)
		}
	}

	seq := 0
	for _, period := range run.Result.PayrollHistory {
		for _, r := range period.Records {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO period_snapshot (run_id, seq, month, year, name, gross_salary, basic_pay, paye, nssf_employee, nhif, net_pay)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID.String(), seq, period.Month, period.Year, r.Name,
				r.GrossSalary, r.BasicPay, r.PAYE, r.NSSFEmployee, r.NHIF, r.NetPay,
			); err != nil {
				return fmt.Errorf("insert snapshot %d: %w", seq, err)
			}
			seq++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("repository.run.saved", "driver", "sqlite", "run_id", run.ID, "workers", len(run.Result.Workers), "snapshots", seq)
	return nil
}

func (s *SQLiteStore) GetRunJSON(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var out string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM extraction_run WHERE id = ?`, id.String()).Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// CountSnapshots returns the number of archived snapshots for a run.
func (s *SQLiteStore) CountSnapshots(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM period_snapshot WHERE run_id = ?`, id.String()).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
