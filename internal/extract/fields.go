package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/docextract/internal/layout"
)

// FieldExtractor resolves a list of configured field names against one block
// batch: the form key/value mapping is consulted first, the pattern scan of
// the flattened text second. A field neither strategy locates is reported as
// absent, never as an error.
type FieldExtractor struct {
	logger *slog.Logger
}

func NewFieldExtractor(logger *slog.Logger) *FieldExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FieldExtractor{logger: logger}
}

// Extract resolves the requested fields against the batch. The returned map
// has one entry per requested field; a nil value means not found. Text is the
// flattened text the pattern fallback scans — pass the whole-document or
// per-page flattening matching the batch's scope.
func (e *FieldExtractor) Extract(ix *layout.Index, text string, fields []string) map[string]*string {
	pairs := KeyValuePairs(ix)

	out := make(map[string]*string, len(fields))
	for _, field := range fields {
		if v, ok := pairs[field]; ok && v != "" {
			out[field] = &v
			continue
		}
		if v, ok := FindByPattern(text, field); ok && v != "" {
			out[field] = &v
			continue
		}
		e.logger.Debug("field not found", "field", field)
		out[field] = nil
	}
	return out
}
