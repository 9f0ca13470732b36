package payroll

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/payslip-extractor/constants"
)

// Period identifies one payroll cycle as printed in the document filename.
type Period struct {
	Month string
	Year  string
}

func (p Period) String() string { return p.Month + " " + p.Year }

// PeriodMatcher recognizes filenames like "Payslips - January 2024.pdf".
type PeriodMatcher struct {
	re *regexp.Regexp
}

// NewPeriodMatcher builds a matcher for "<prefix> - <Month> <YYYY>".
func NewPeriodMatcher(prefix string) *PeriodMatcher {
	if prefix == "" {
		prefix = constants.DefaultFilenamePrefix
	}
	return &PeriodMatcher{re: regexp.MustCompile(fmt.Sprintf(`%s - (\w+) (\d{4})`, regexp.QuoteMeta(prefix)))}
}

// Match returns the period encoded in filename, if any.
func (m *PeriodMatcher) Match(filename string) (Period, bool) {
	sm := m.re.FindStringSubmatch(filename)
	if sm == nil {
		return Period{}, false
	}
	return Period{Month: sm[1], Year: sm[2]}, true
}

// ParsePeriod is a convenience for one-off matches.
func ParsePeriod(filename, prefix string) (Period, bool) {
	return NewPeriodMatcher(prefix).Match(filename)
}
