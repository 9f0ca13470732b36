// Package payslip splits page-formatted payslip text into per-worker blocks
// and pulls labeled and tabular fields out of each block.
package payslip

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/payslip-extractor/constants"
)

type Config struct {
	Anchor string // boilerplate printed once per payslip; default constants.DefaultAnchor
	Marker string // token a block must contain; default constants.DefaultMarker
}

// Scan is the outcome of parsing one document.
type Scan struct {
	Workers  []Worker
	Blocks   int // blocks carrying the marker
	Rejected int // marker blocks that failed the acceptance gate
}

type Parser struct {
	splitter *regexp.Regexp
	marker   string
}

func NewParser(cfg Config) *Parser {
	if cfg.Anchor == "" {
		cfg.Anchor = constants.DefaultAnchor
	}
	if cfg.Marker == "" {
		cfg.Marker = constants.DefaultMarker
	}
	return &Parser{
		splitter: regexp.MustCompile(`\s+` + regexp.QuoteMeta(cfg.Anchor)),
		marker:   cfg.Marker,
	}
}

// Parse returns the accepted workers found in text. It never fails; text with
// no recognizable payslip yields an empty slice.
func (p *Parser) Parse(text string) []Worker {
	return p.Scan(text).Workers
}

// Scan parses text and also reports how many blocks were seen and dropped.
func (p *Parser) Scan(text string) Scan {
	var out Scan
	for _, block := range p.splitter.Split(text, -1) {
		if !strings.Contains(block, p.marker) {
			continue
		}
		out.Blocks++
		w, ok := p.ParseBlock(block)
		if !ok {
			out.Rejected++
			continue
		}
		out.Workers = append(out.Workers, w)
	}
	return out
}

// ParseBlock extracts one block and applies the acceptance gate.
func (p *Parser) ParseBlock(block string) (Worker, bool) {
	w := ExtractFields(block)
	return w, Accept(w)
}

// ExtractFields scans block line by line. Every rule is tried on every line;
// a later line overwrites an earlier value for the same field.
func ExtractFields(block string) Worker {
	w := Worker{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, l := range labels {
			if v := labelValue(line, l); v != "" {
				w[l.field] = v
			}
		}
		for _, r := range amountRules {
			if !r.match(line) {
				continue
			}
			if v, ok := lastColumn(line); ok {
				w[r.field] = v
			}
		}
	}
	return w
}

// Accept reports whether w has a name and an employee number made of ASCII digits.
func Accept(w Worker) bool {
	return w.Name() != "" && isDigits(w.EmpNo())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
