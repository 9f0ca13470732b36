package pipeline

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/payslip-extractor/internal/ingest"
	"github.com/joseph-ayodele/payslip-extractor/internal/ocr"
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// TextExtractor is stage 1: document -> layout text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// ExtractStage runs the text extractor for one document. Failures degrade to
// empty text; the caller only learns about them through the returned flag.
type ExtractStage struct {
	extractor TextExtractor
	logger    *slog.Logger
}

func NewExtractStage(extractor TextExtractor, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{extractor: extractor, logger: logger}
}

// Run returns the document text and whether extraction succeeded.
func (s *ExtractStage) Run(ctx context.Context, doc ingest.Document) (string, bool) {
	res, err := s.extractor.Extract(ctx, doc.Path)
	if err != nil {
		s.logger.Warn("extract.failed; continuing with empty text", "file", doc.Name, "error", err)
		return "", false
	}
	s.logger.Debug("extract.ok",
		"file", doc.Name,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration", res.Duration,
	)
	return res.Text, true
}

// ParseStage is stage 2: text -> accepted workers.
type ParseStage struct {
	parser *payslip.Parser
	logger *slog.Logger
}

func NewParseStage(parser *payslip.Parser, logger *slog.Logger) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = payslip.NewParser(payslip.Config{})
	}
	return &ParseStage{parser: parser, logger: logger}
}

// Run segments text and reports the accepted workers with block counts.
func (s *ParseStage) Run(doc ingest.Document, text string) payslip.Scan {
	scan := s.parser.Scan(text)
	if scan.Rejected > 0 {
		s.logger.Debug("parse.blocks.rejected", "file", doc.Name, "rejected", scan.Rejected)
	}
	for _, w := range scan.Workers {
		if bad := unparsedAmounts(w); len(bad) > 0 {
			s.logger.Debug("parse.amount.unparsed", "file", doc.Name, "worker", w.Name(), "fields", bad)
		}
	}
	return scan
}

// unparsedAmounts lists amount fields whose value is not a plain decimal.
// Such values are still emitted as found.
func unparsedAmounts(w payslip.Worker) []string {
	var bad []string
	for _, f := range payslip.AmountFields {
		v, ok := w[f]
		if !ok {
			continue
		}
		if _, err := decimal.NewFromString(v); err != nil {
			bad = append(bad, string(f))
		}
	}
	return bad
}
