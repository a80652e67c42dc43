package extract

import "strings"

// Separators accepted between a field label and its value on one line.
var lineSeparators = []string{":", "-", "="}

// FindByPattern scans flattened document text for a line mentioning the field
// name and returns the value that follows the first separator on that line.
//
// Matching is case-insensitive substring on whole lines, first match wins.
// The line is split at its first ':', '-' or '='; everything after that
// boundary is the value in its original case (later separators are part of
// the value). Returns ("", false) when no line mentions the field or the
// matching line carries no separator.
func FindByPattern(text, field string) (string, bool) {
	needle := strings.ToLower(field)
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, needle) {
			continue
		}
		cut := -1
		for _, sep := range lineSeparators {
			if i := strings.Index(lower, sep); i >= 0 && (cut < 0 || i < cut) {
				cut = i
			}
		}
		if cut < 0 {
			return "", false
		}
		return strings.TrimSpace(line[cut+1:]), true
	}
	return "", false
}
