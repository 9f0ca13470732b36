package constants

import "strings"

// Document formats understood by the text extractor.
const (
	PDF = "PDF"
	TXT = "TXT"
)

// AllowedExtensions holds the default document extensions considered during a run.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns the document format for a normalized extension, or "" if unknown.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt", "text":
		return TXT
	default:
		return ""
	}
}

// ExtSet builds a lookup set from a list of extensions, falling back to AllowedExtensions.
func ExtSet(exts []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, e := range exts {
		if e = NormalizeExt(e); e != "" {
			set[e] = struct{}{}
		}
	}
	if len(set) == 0 {
		return AllowedExtensions
	}
	return set
}
