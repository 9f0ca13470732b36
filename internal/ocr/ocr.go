package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/payslip-extractor/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Encoding  string // default "UTF-8"
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.TXT
	Method     string // "pdftotext-layout" | "plain-text"
	Duration   time.Duration
	Warnings   []string
}

// Extractor turns a payslip document into layout-preserving text.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	return NewExtractorWithRunner(cfg, execRunner{}, logger)
}

// NewExtractorWithRunner lets callers substitute the command runner.
func NewExtractorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "UTF-8"
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.TXT:
		b, err := os.ReadFile(path)
		if err != nil {
			return ExtractionResult{SourceType: constants.TXT}, fmt.Errorf("read text: %w", err)
		}
		text := NormalizeLayout(string(b))
		return ExtractionResult{
			Text:       text,
			Pages:      countPages(text),
			SourceType: constants.TXT,
			Method:     "plain-text",
			Duration:   time.Since(start),
		}, nil
	default:
		e.logger.Error("unsupported document extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, e.logger, "-layout", "-enc", e.cfg.Encoding, "-eol", "unix", path, "-")
	if err != nil {
		return ExtractionResult{SourceType: constants.PDF, Warnings: []string{string(errb)}}, fmt.Errorf("pdftotext: %w", err)
	}
	text := string(out)
	res := ExtractionResult{
		Text:       text,
		Pages:      countPages(text),
		SourceType: constants.PDF,
		Method:     "pdftotext-layout",
	}
	if strings.TrimSpace(text) == "" {
		res.Warnings = append(res.Warnings, "pdftotext produced no text (scanned document?)")
	}
	return res, nil
}

// A form-feed \f is used as page separator by default.
func countPages(text string) int {
	if text == "" {
		return 0
	}
	return 1 + strings.Count(strings.TrimRight(text, "\f\n"), "\f")
}
