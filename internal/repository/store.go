package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/payslip-extractor/constants"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
)

// ErrRunNotFound is returned when a run ID is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Run is one completed extraction run.
type Run struct {
	ID         uuid.UUID
	SourceDir  string
	Status     constants.RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  int
	Result     payroll.Result
	ResultJSON []byte // the exact bytes written to the output artifact
}

// RunStore archives extraction runs.
type RunStore interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRunJSON(ctx context.Context, id uuid.UUID) ([]byte, error)
	Close() error
}

// NewRun stamps a result with id (a fresh one when uuid.Nil) and derives its status.
func NewRun(id uuid.UUID, sourceDir string, startedAt time.Time, documents int, result payroll.Result, resultJSON []byte) Run {
	status := constants.RunStatusCompleted
	if len(result.PayrollHistory) == 0 {
		status = constants.RunStatusEmpty
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return Run{
		ID:         id,
		SourceDir:  sourceDir,
		Status:     status,
		StartedAt:  startedAt.UTC(),
		FinishedAt: time.Now().UTC(),
		Documents:  documents,
		Result:     result,
		ResultJSON: resultJSON,
	}
}

func profileJSON(p payroll.WorkerProfile) string {
	b, _ := json.Marshal(p)
	return string(b)
}

var (
	_ RunStore = (*SQLiteStore)(nil)
	_ RunStore = (*PostgresStore)(nil)
)
