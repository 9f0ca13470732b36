package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/payslip-extractor/constants"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	name string
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	return s.stdout, s.stderr, s.err
}

func TestExtract_PDFUsesLayoutMode(t *testing.T) {
	r := &stubRunner{stdout: []byte("PAYSLIP\nBasic Pay      1,000.00\n\fpage two\n")}
	e := NewExtractorWithRunner(Config{Pdftotext: "/opt/bin/pdftotext"}, r, nil)

	res, err := e.Extract(context.Background(), "/data/Payslips - May 2024.PDF")
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/pdftotext", r.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "/data/Payslips - May 2024.PDF", "-"}, r.args)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "pdftotext-layout", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "Basic Pay      1,000.00")
	assert.Empty(t, res.Warnings)
}

func TestExtract_PDFFailure(t *testing.T) {
	r := &stubRunner{stderr: []byte("Syntax Error: Couldn't find trailer dictionary"), err: errors.New("exit status 1")}
	e := NewExtractorWithRunner(Config{}, r, nil)

	res, err := e.Extract(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.Equal(t, "pdftotext", r.name)
	assert.Empty(t, res.Text)
	assert.Equal(t, []string{"Syntax Error: Couldn't find trailer dictionary"}, res.Warnings)
}

func TestExtract_PDFWithoutText(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &stubRunner{stdout: []byte("\f")}, nil)

	res, err := e.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
}

func TestExtract_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Payslips - June 2024.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Samuel Olago\nPAYSLIP\n"), 0o644))

	e := NewExtractorWithRunner(Config{}, &stubRunner{err: errors.New("must not run")}, nil)
	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.TXT, res.SourceType)
	assert.Equal(t, "  Samuel Olago\nPAYSLIP\n", res.Text)
	assert.Equal(t, 1, res.Pages)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &stubRunner{}, nil)
	_, err := e.Extract(context.Background(), "slip.docx")
	assert.ErrorContains(t, err, "unsupported extension")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, _, err := execRunner{}.Run(context.Background(), "definitely-not-a-real-pdftotext-binary", slog.Default())
	assert.Error(t, err)
}
