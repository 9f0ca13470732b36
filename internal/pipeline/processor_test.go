package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/ocr"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// stubExtractor serves canned text keyed by file name.
type stubExtractor struct {
	texts map[string]string
	calls []string
}

func (s *stubExtractor) Extract(_ context.Context, path string) (ocr.ExtractionResult, error) {
	name := filepath.Base(path)
	s.calls = append(s.calls, name)
	text, ok := s.texts[name]
	if !ok {
		return ocr.ExtractionResult{}, errors.New("pdftotext: exit status 1")
	}
	return ocr.ExtractionResult{Text: text, Method: "stub"}, nil
}

func block(empNo, name, basic string) string {
	return strings.Join([]string{
		"",
		"                    Samuel Olago",
		"                                  PAYSLIP",
		"Emp No: " + empNo,
		"Name: " + name,
		"Basic Pay                                 " + basic,
		"NET PAY                                   38,200.50",
		"",
	}, "\n")
}

func setup(t *testing.T) (string, *stubExtractor) {
	t.Helper()
	dir := t.TempDir()
	stub := &stubExtractor{texts: map[string]string{
		"Payslips - February 2024.pdf": "header" + block("1042", "Jane Mwangi", "40,000.00"),
		"Payslips - March 2024.pdf":    "header" + block("1042", "Jane Mwangi", "45,000.00") + block("20A1", "John Otieno", "30,000.00"),
		"Notes.pdf":                    "header" + block("3003", "Peter Kamau", "10,000.00"),
	}}
	for _, name := range []string{"Payslips - February 2024.pdf", "Payslips - March 2024.pdf", "Payslips - April 2024.pdf", "Notes.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}
	return dir, stub
}

func newProcessor(stub TextExtractor) *Processor {
	return NewProcessor(nil, nil, NewExtractStage(stub, nil), NewParseStage(payslip.NewParser(payslip.Config{}), nil))
}

func TestProcessor_Run(t *testing.T) {
	dir, stub := setup(t)

	result, stats, err := newProcessor(stub).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"Payslips - April 2024.pdf", "Payslips - February 2024.pdf", "Payslips - March 2024.pdf"}, stub.calls)

	require.Len(t, result.Workers, 1)
	assert.Equal(t, payroll.WorkerProfile{EmpNo: "1042", Name: "Jane Mwangi", BasicPay: "45000.00", NetPay: "38200.50"}, result.Workers[0])

	require.Len(t, result.PayrollHistory, 3)
	assert.Equal(t, "April", result.PayrollHistory[0].Month)
	assert.Empty(t, result.PayrollHistory[0].Records)
	assert.NotNil(t, result.PayrollHistory[0].Records)
	assert.Equal(t, "February", result.PayrollHistory[1].Month)
	assert.Equal(t, "40000.00", result.PayrollHistory[1].Records[0].GrossSalary)
	assert.Equal(t, "March", result.PayrollHistory[2].Month)
	require.Len(t, result.PayrollHistory[2].Records, 1)
	assert.Equal(t, "45000.00", result.PayrollHistory[2].Records[0].BasicPay)

	assert.NotEqual(t, uuid.Nil, stats.RunID)
	assert.Equal(t, 4, stats.Scanned)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 1, stats.ExtractionFailures)
	assert.Equal(t, 1, stats.EmptyDocuments)
	assert.Equal(t, 3, stats.BlocksSeen)
	assert.Equal(t, 1, stats.BlocksRejected)
	assert.Equal(t, 2, stats.WorkersAccepted)
	assert.Equal(t, 0, stats.UnparsedAmounts)
	assert.Equal(t, 1, stats.Profiles)
}

func TestProcessor_SnapshotsMatchAcceptedBlocks(t *testing.T) {
	dir, stub := setup(t)

	result, stats, err := newProcessor(stub).Run(context.Background(), dir)
	require.NoError(t, err)

	snapshots := 0
	for _, e := range result.PayrollHistory {
		snapshots += len(e.Records)
	}
	assert.Equal(t, stats.WorkersAccepted, snapshots)
}

func TestProcessor_Idempotent(t *testing.T) {
	dir, stub := setup(t)
	p := newProcessor(stub)

	first, _, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	second, _, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProcessor_UsesRunIDFromContext(t *testing.T) {
	dir, stub := setup(t)
	id := uuid.New()

	_, stats, err := newProcessor(stub).Run(common.WithRunID(context.Background(), id), dir)
	require.NoError(t, err)
	assert.Equal(t, id, stats.RunID)
}

func TestProcessor_MissingSourceDir(t *testing.T) {
	stub := &stubExtractor{}

	result, _, err := newProcessor(stub).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, "SOURCE_ERROR", common.CodeOf(err))
	assert.Empty(t, result.Workers)
	assert.Empty(t, stub.calls)
}

func TestUnparsedAmounts(t *testing.T) {
	w := payslip.Worker{
		payslip.FieldName:     "Jane Mwangi",
		payslip.FieldBasicPay: "45000.00",
		payslip.FieldNetPay:   "38200.50 KES",
	}
	assert.Equal(t, []string{"net_pay"}, unparsedAmounts(w))
}

func TestNewProcessor_DefaultsStages(t *testing.T) {
	p := NewProcessor(nil, nil, nil, nil)
	require.NotNil(t, p.extract)
	require.NotNil(t, p.parse)
	require.NotNil(t, p.lister)

	result, stats, err := p.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Empty(t, result.PayrollHistory)
}
