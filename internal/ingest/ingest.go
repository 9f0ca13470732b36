package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/payslip-extractor/constants"
	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/payroll"
)

// Document is one payslip file selected for processing.
type Document struct {
	Path   string
	Name   string
	Ext    string
	Period payroll.Period
}

// DirStats summarizes a directory listing.
type DirStats struct {
	Scanned       uint32
	MatchedExt    uint32
	MatchedPeriod uint32
	Skipped       uint32
}

// Lister selects payslip documents from a source directory.
type Lister struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> constants.AllowedExtensions
	Periods     *payroll.PeriodMatcher
	SkipHidden  bool // off by default: dotfiles with a matching name are listed
	logger      *slog.Logger
}

func NewLister(exts []string, periods *payroll.PeriodMatcher, logger *slog.Logger) *Lister {
	if logger == nil {
		logger = slog.Default()
	}
	if periods == nil {
		periods = payroll.NewPeriodMatcher("")
	}
	return &Lister{
		AllowedExts: constants.ExtSet(exts),
		Periods:     periods,
		logger:      logger,
	}
}

// List returns the matching documents directly under root, sorted by filename.
// Files with another extension or no recognizable period are skipped silently.
// Failing to read root is the only error.
func (l *Lister) List(root string) ([]Document, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, common.NewAppError("SOURCE_ERROR", "source directory is required", common.ErrInvalidInput)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		l.logger.Error("failed to list source directory", "root", root, "error", err)
		return nil, stats, common.NewAppError("SOURCE_ERROR", "cannot list source directory "+root, err)
	}

	var docs []Document
	for _, d := range entries {
		if d.IsDir() {
			continue
		}
		stats.Scanned++
		name := d.Name()
		if l.SkipHidden && IsHidden(name) {
			stats.Skipped++
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(name))
		if !l.allowed(ext) {
			stats.Skipped++
			continue
		}
		stats.MatchedExt++

		period, ok := l.Periods.Match(name)
		if !ok {
			l.logger.Debug("skipping document without period in name", "file", name)
			stats.Skipped++
			continue
		}
		stats.MatchedPeriod++
		docs = append(docs, Document{
			Path:   filepath.Join(root, name),
			Name:   name,
			Ext:    ext,
			Period: period,
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, stats, nil
}

func (l *Lister) allowed(ext string) bool {
	allow := l.AllowedExts
	if allow == nil {
		allow = constants.AllowedExtensions
	}
	_, ok := allow[ext]
	return ok
}
