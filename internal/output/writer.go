// Package output encodes, validates and persists the structured result.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
)

// Encode renders result as two-space indented JSON with a trailing newline.
// The same result always encodes to the same bytes.
func Encode(result payroll.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return buf.Bytes(), nil
}

// Writer prints the result and persists it verbatim to Path.
type Writer struct {
	Path   string
	Stdout io.Writer // nil disables printing
	logger *slog.Logger
}

func NewWriter(path string, stdout io.Writer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{Path: path, Stdout: stdout, logger: logger}
}

// Write encodes result, validates it against ResultSchema, then prints and
// saves the identical bytes.
func (w *Writer) Write(result payroll.Result) ([]byte, error) {
	data, err := Encode(result)
	if err != nil {
		return nil, common.NewAppError("OUTPUT_ERROR", "encode result", err)
	}
	if err := Validate(data); err != nil {
		w.logger.Error("result failed schema validation", "error", err)
		return nil, common.NewAppError("OUTPUT_ERROR", "validate result", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}

	if w.Stdout != nil {
		if _, err := w.Stdout.Write(data); err != nil {
			return nil, common.NewAppError("OUTPUT_ERROR", "print result", err)
		}
	}

	if dir := filepath.Dir(w.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, common.NewAppError("OUTPUT_ERROR", "create output dir", err)
		}
	}
	if err := os.WriteFile(w.Path, data, 0o644); err != nil {
		return nil, common.NewAppError("OUTPUT_ERROR", "write "+w.Path, err)
	}
	w.logger.Info("output.json.ok",
		"path", w.Path,
		"bytes", len(data),
		"workers", len(result.Workers),
		"periods", len(result.PayrollHistory),
	)
	return data, nil
}
