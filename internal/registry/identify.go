package registry

import "strings"

// Identify matches document text against the registry: the first record (in
// registry order) whose company name appears case-insensitively as a
// substring of the text is the match. Returns (zero record, false) when no
// record matches; callers decide whether that is fatal.
//
// Registry order, not longest-match or earliest-position, is the deliberate
// tie-break: "Acme" listed before "Acme Corp" wins for text that contains
// both.
func Identify(text string, records []CompanyRecord) (CompanyRecord, bool) {
	lower := strings.ToLower(text)
	for _, rec := range records {
		if rec.Company == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rec.Company)) {
			return rec, true
		}
	}
	return CompanyRecord{}, false
}
