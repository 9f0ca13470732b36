package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/ocr"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// payslip-inspect extracts a single document and reports what the parser
// makes of it, without touching the aggregate output.
func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		dumpText   = flag.Bool("text", false, "print the extracted layout text")
	)
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewLogger(cfg.Log)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "payslip-inspect [-config file] [-text] <document>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	extractor := ocr.NewExtractor(ocr.Config{Pdftotext: cfg.OCR.Pdftotext}, logger)
	res, err := extractor.Extract(ctx, path)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("text extraction OK",
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
		"warnings", res.Warnings,
	)
	if *dumpText {
		fmt.Println(res.Text)
	}

	period, ok := payroll.ParsePeriod(filepath.Base(path), cfg.Source.FilenamePrefix)
	if !ok {
		logger.Warn("filename has no recognizable period; a batch run would skip it", "file", filepath.Base(path))
	}

	parser := payslip.NewParser(payslip.Config{Anchor: cfg.Parser.Anchor, Marker: cfg.Parser.Marker})
	scan := parser.Scan(res.Text)
	logger.Info("parse OK",
		"period", period.String(),
		"blocks", scan.Blocks,
		"accepted", len(scan.Workers),
		"rejected", scan.Rejected,
	)

	for _, w := range scan.Workers {
		fmt.Printf("%s\t%s", w.EmpNo(), w.Name())
		for _, f := range payslip.AmountFields {
			if v, ok := w[f]; ok {
				fmt.Printf("\t%s=%s", f, v)
			}
		}
		fmt.Println()
	}
}
