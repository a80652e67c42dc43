// Package tablezone reconstructs tabular line items from LINE-block geometry.
// The provider exposes no table primitive, so the extractor locates the
// header row, collects the lines beneath it, clusters them into visual rows
// and classifies each row by its left-most cell.
package tablezone

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/docextract/internal/layout"
)

// Lines below 90% of the page height are ignored: footers, totals and page
// decorations live there, not line items.
const tableBottom = 0.9

var (
	itemNoRe   = regexp.MustCompile(`^\d+\.$`)
	quantityRe = regexp.MustCompile(`(?i)^([\d,]+)\s+(PCS|PLS|EA|UNIT|UNITES|UNITS)$`)
	codeRe     = regexp.MustCompile(`^[A-Z]{2}\d+`)
	amountRe   = regexp.MustCompile(`^[\d,]+(\.\d+)?$`)
)

// LineItem is one reconstructed table row spanning one or more visual rows.
type LineItem struct {
	ItemNo       string
	Quantity     string
	QuantityUnit string
	Descriptions string
	UnitPrice    string
	Amount       string
}

// Extractor reconstructs line items for one fixed header layout.
type Extractor struct {
	headers []string
	grouper Grouper
	logger  *slog.Logger
}

func NewExtractor(headers []string, grouper Grouper, logger *slog.Logger) *Extractor {
	if grouper == nil {
		grouper = NewQuantizeGrouper()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{headers: headers, grouper: grouper, logger: logger}
}

// Extract reconstructs the line items of one page's batch. Malformed or
// missing geometry yields partial or empty output, never an error.
func (e *Extractor) Extract(ix *layout.Index) []LineItem {
	lines := ix.OfType(layout.BlockTypeLine)

	tableTop, found := e.headerTop(lines)
	if !found {
		e.logger.Debug("table headers not found, assuming no table")
		return nil
	}

	var zone []*layout.Block
	for _, ln := range lines {
		if ln.BoundingBox.Top > tableTop && ln.BoundingBox.Top < tableBottom {
			zone = append(zone, ln)
		}
	}

	var items []LineItem
	var current *LineItem
	flush := func() {
		if current != nil {
			items = append(items, *current)
			current = nil
		}
	}

	for _, row := range e.grouper.Group(zone) {
		if e.repeatsHeader(row) {
			continue
		}
		first := strings.TrimSpace(row[0].Text)

		switch {
		case itemNoRe.MatchString(first):
			flush()
			current = &LineItem{ItemNo: strings.TrimSuffix(first, ".")}

		case current == nil:
			// Rows before the first item number carry no item to attach to.

		case quantityRe.MatchString(first):
			m := quantityRe.FindStringSubmatch(first)
			current.Quantity = m[1]
			current.QuantityUnit = strings.ToLower(m[2])
			e.fillAmounts(current, row[1:])

		case codeRe.MatchString(first),
			strings.HasPrefix(first, "CODE "),
			hasPrefixFold(first, "LOT No"):
			if current.Descriptions != "" {
				current.Descriptions += " "
			}
			current.Descriptions += first
		}
	}
	flush()

	return items
}

// headerTop locates the header row: the minimum top among LINE blocks whose
// text exactly matches one of the expected header labels.
func (e *Extractor) headerTop(lines []*layout.Block) (float64, bool) {
	top, found := 0.0, false
	for _, ln := range lines {
		for _, h := range e.headers {
			if ln.Text == h {
				if !found || ln.BoundingBox.Top < top {
					top = ln.BoundingBox.Top
				}
				found = true
			}
		}
	}
	return top, found
}

// repeatsHeader reports whether any cell of the row restates a header label,
// which happens when the header band wraps or repeats mid-table.
func (e *Extractor) repeatsHeader(row []*layout.Block) bool {
	for _, cell := range row {
		for _, h := range e.headers {
			if cell.Text == h {
				return true
			}
		}
	}
	return false
}

// fillAmounts takes the cells right of the quantity cell: the first
// amount-shaped cell is the unit price, the second the line amount.
func (e *Extractor) fillAmounts(item *LineItem, cells []*layout.Block) {
	for _, cell := range cells {
		text := strings.TrimSpace(cell.Text)
		if !amountRe.MatchString(text) {
			continue
		}
		if item.UnitPrice == "" {
			item.UnitPrice = text
			continue
		}
		if item.Amount == "" {
			item.Amount = text
			return
		}
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
