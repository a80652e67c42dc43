// Package pipeline orchestrates document field extraction: the synchronous
// single-page flow and the asynchronous multi-page job flow, both composing
// the company identifier, the field extractor and the table-zone extractor
// over blocks fetched from the layout provider.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docextract/internal/tablezone"
)

// Result is one extraction outcome for a (document, page, company) triple.
// A nil field value means neither strategy located the field.
type Result struct {
	Company      string
	PageNumber   int
	Fields       map[string]*string
	TargetTables []string
	LineItems    []tablezone.LineItem
}

// Sink receives results, one write per result and target table. Writes are
// independent: a failed write must not stop the remaining ones.
type Sink interface {
	Write(ctx context.Context, table string, res Result, documentID string) error
}

// ErrNoCompanyMatch is the fatal single-page failure: the document's text
// matched no registry entry.
var ErrNoCompanyMatch = errors.New("no company matched document text")

// DocumentError is a document-level failure carrying the identifier the
// caller needs to report or dead-letter the document.
type DocumentError struct {
	DocumentID string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.DocumentID, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// DocumentID derives a deterministic identifier from the document's source
// location, so re-processing the same source is idempotent at the sink.
func DocumentID(docURI string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docURI)).String()
}
