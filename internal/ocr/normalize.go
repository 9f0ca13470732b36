package ocr

import (
	"regexp"
)

var (
	reCRLF          = regexp.MustCompile(`\r\n?`)
	reTrailingBlank = regexp.MustCompile(`(?m)[ \t]+$`)
)

// NormalizeLayout unifies line endings and drops trailing blanks. Interior
// runs of spaces are kept: they delimit the amount columns.
func NormalizeLayout(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	return reTrailingBlank.ReplaceAllString(s, "")
}
