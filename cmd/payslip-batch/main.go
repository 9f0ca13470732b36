package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/export"
	"github.com/joseph-ayodele/payslip-extractor/internal/ingest"
	"github.com/joseph-ayodele/payslip-extractor/internal/ocr"
	"github.com/joseph-ayodele/payslip-extractor/internal/output"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
	"github.com/joseph-ayodele/payslip-extractor/internal/pipeline"
	repo "github.com/joseph-ayodele/payslip-extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		dir        = flag.String("dir", "", "directory holding the payslip documents")
		out        = flag.String("out", "", "JSON output path (default extracted_data.json)")
		xlsxOut    = flag.String("xlsx", "", "also write an XLSX workbook to this path")
		csvOut     = flag.String("csv", "", "also write the flattened payroll history as CSV to this path")
		store      = flag.String("store", "", "archive the run: sqlite or postgres")
		quiet      = flag.Bool("quiet", false, "do not print the JSON result to stdout")
	)
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *dir != "" {
		cfg.Source.Dir = *dir
	}
	if *out != "" {
		cfg.Output.JSONPath = *out
	}
	if *xlsxOut != "" {
		cfg.Output.XLSXPath = *xlsxOut
	}
	if *csvOut != "" {
		cfg.Output.CSVPath = *csvOut
	}
	if *store != "" {
		cfg.Store.Driver = *store
	}
	if *quiet {
		cfg.Output.Quiet = true
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	runID := uuid.New()
	ctx := common.WithRunID(context.Background(), runID)
	startedAt := time.Now()

	// Wire stages
	lister := ingest.NewLister(cfg.Source.Extensions, payroll.NewPeriodMatcher(cfg.Source.FilenamePrefix), logger)
	lister.SkipHidden = cfg.Source.SkipHidden
	extractor := ocr.NewExtractor(ocr.Config{Pdftotext: cfg.OCR.Pdftotext}, logger)
	parser := payslip.NewParser(payslip.Config{Anchor: cfg.Parser.Anchor, Marker: cfg.Parser.Marker})
	processor := pipeline.NewProcessor(logger, lister,
		pipeline.NewExtractStage(extractor, logger),
		pipeline.NewParseStage(parser, logger),
	)

	result, stats, err := processor.Run(ctx, cfg.Source.Dir)
	if err != nil {
		logger.Error("batch failed", "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	var stdout io.Writer = os.Stdout
	if cfg.Output.Quiet {
		stdout = nil
	}
	data, err := output.NewWriter(cfg.Output.JSONPath, stdout, logger).Write(result)
	if err != nil {
		logger.Error("failed to write result", "error", err)
		os.Exit(1)
	}

	exports := export.NewService(logger)
	if cfg.Output.XLSXPath != "" {
		xlsxBytes, err := exports.ResultXLSX(result)
		if err == nil {
			err = writeFile(cfg.Output.XLSXPath, xlsxBytes)
		}
		if err != nil {
			logger.Error("failed to export xlsx", "path", cfg.Output.XLSXPath, "error", err)
			os.Exit(1)
		}
	}
	if cfg.Output.CSVPath != "" {
		var buf bytes.Buffer
		err := exports.WriteHistoryCSV(&buf, result)
		if err == nil {
			err = writeFile(cfg.Output.CSVPath, buf.Bytes())
		}
		if err != nil {
			logger.Error("failed to export csv", "path", cfg.Output.CSVPath, "error", err)
			os.Exit(1)
		}
	}

	if cfg.Store.Driver != "" {
		run := repo.NewRun(runID, cfg.Source.Dir, startedAt, stats.Documents, result, data)
		if err := archive(ctx, cfg, run, logger); err != nil {
			logger.Error("failed to archive run", "driver", cfg.Store.Driver, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch processing complete",
		"run_id", runID,
		"documents", stats.Documents,
		"skipped", stats.FilesSkipped,
		"extraction_failures", stats.ExtractionFailures,
		"workers", len(result.Workers),
		"periods", len(result.PayrollHistory),
		"output_file", cfg.Output.JSONPath)
}

// archive saves run with the configured store driver.
func archive(ctx context.Context, cfg *common.Config, run repo.Run, logger *slog.Logger) error {
	var (
		store repo.RunStore
		err   error
	)
	switch cfg.Store.Driver {
	case common.StoreSQLite:
		store, err = repo.OpenSQLite(ctx, cfg.Store.SQLitePath, logger)
	case common.StorePostgres:
		pool, perr := repo.OpenPool(ctx, cfg.Store.Database, logger)
		if perr != nil {
			return common.NewAppError("STORE_ERROR", "connect postgres", perr)
		}
		store = repo.NewPostgresStore(pool, pool.Close, logger)
	default:
		return common.NewAppError("STORE_ERROR", "unknown store driver "+cfg.Store.Driver, common.ErrInvalidInput)
	}
	if err != nil {
		return common.NewAppError("STORE_ERROR", "open store", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("failed to close store", "error", cerr)
		}
	}()

	if err := store.EnsureSchema(ctx); err != nil {
		return common.NewAppError("STORE_ERROR", "ensure schema", fmt.Errorf("%w: %v", common.ErrStorage, err))
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return common.NewAppError("STORE_ERROR", "save run", fmt.Errorf("%w: %v", common.ErrStorage, err))
	}
	logger.Info("run archived", "run_id", run.ID, "driver", cfg.Store.Driver, "status", run.Status)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
