// Package pipeline runs a batch: list documents, extract their text, parse
// payslip blocks and fold them into the payroll aggregate, one document at a
// time in filename order.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/ingest"
	"github.com/joseph-ayodele/payslip-extractor/internal/ocr"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
)

// Stats counts what happened during a run. It never affects the result.
type Stats struct {
	RunID              uuid.UUID
	Scanned            int
	FilesSkipped       int
	Documents          int
	ExtractionFailures int
	EmptyDocuments     int
	BlocksSeen         int
	BlocksRejected     int
	WorkersAccepted    int
	UnparsedAmounts    int
	Profiles           int
	Duration           time.Duration
}

// Processor coordinates listing, text extraction and parsing.
type Processor struct {
	logger  *slog.Logger
	lister  *ingest.Lister
	extract *ExtractStage
	parse   *ParseStage
}

func NewProcessor(logger *slog.Logger, lister *ingest.Lister, extract *ExtractStage, parse *ParseStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if lister == nil {
		lister = ingest.NewLister(nil, nil, logger)
	}
	if extract == nil {
		extract = NewExtractStage(ocr.NewExtractor(ocr.Config{}, logger), logger)
	}
	if parse == nil {
		parse = NewParseStage(nil, logger)
	}
	return &Processor{logger: logger, lister: lister, extract: extract, parse: parse}
}

// Run processes every matching document under root and returns the
// aggregated result. The only error is a source directory that cannot be
// listed; per-document problems are logged and counted.
func (p *Processor) Run(ctx context.Context, root string) (payroll.Result, Stats, error) {
	start := time.Now()
	runID := common.RunIDFromContext(ctx)
	if runID == uuid.Nil {
		runID = uuid.New()
		ctx = common.WithRunID(ctx, runID)
	}
	stats := Stats{RunID: runID}
	logger := p.logger.With("run_id", runID)

	agg := payroll.NewAggregator()
	docs, dirStats, err := p.lister.List(root)
	if err != nil {
		logger.Error("processor.list.failed", "root", root, "error", err)
		return agg.Result(), stats, err
	}
	stats.Scanned = int(dirStats.Scanned)
	stats.FilesSkipped = int(dirStats.Skipped)
	logger.Info("processor.started", "root", root, "documents", len(docs), "skipped", stats.FilesSkipped)

	for _, doc := range docs {
		stats.Documents++

		text, ok := p.extract.Run(ctx, doc)
		if !ok {
			stats.ExtractionFailures++
		}

		scan := p.parse.Run(doc, text)
		stats.BlocksSeen += scan.Blocks
		stats.BlocksRejected += scan.Rejected
		stats.WorkersAccepted += len(scan.Workers)
		for _, w := range scan.Workers {
			stats.UnparsedAmounts += len(unparsedAmounts(w))
		}
		if len(scan.Workers) == 0 {
			stats.EmptyDocuments++
		}

		entry := agg.AddDocument(doc.Period, scan.Workers)
		logger.Debug("processor.document.ok",
			"file", doc.Name,
			"period", doc.Period.String(),
			"records", len(entry.Records),
			"rejected", scan.Rejected,
		)
	}

	stats.Profiles = agg.Len()
	stats.Duration = time.Since(start)
	logger.Info("processor.finished",
		"documents", stats.Documents,
		"extraction_failures", stats.ExtractionFailures,
		"empty_documents", stats.EmptyDocuments,
		"workers_accepted", stats.WorkersAccepted,
		"blocks_rejected", stats.BlocksRejected,
		"profiles", stats.Profiles,
		"duration", stats.Duration,
	)
	return agg.Result(), stats, nil
}
