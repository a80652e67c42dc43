// Package sink stores extraction results. Each implementation satisfies
// pipeline.Sink: one write per result and target table, independent and
// keyed by the deterministic document identifier so reprocessing a document
// overwrites rather than duplicates.
package sink

import (
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/docextract/internal/pipeline"
)

// encodeFields serializes the field map for storage, keeping explicit nulls
// for fields neither strategy located.
func encodeFields(res pipeline.Result) ([]byte, error) {
	b, err := json.Marshal(res.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return b, nil
}

// encodeLineItems serializes reconstructed line items, or nil when there are
// none.
func encodeLineItems(res pipeline.Result) ([]byte, error) {
	if len(res.LineItems) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(res.LineItems)
	if err != nil {
		return nil, fmt.Errorf("encode line items: %w", err)
	}
	return b, nil
}
