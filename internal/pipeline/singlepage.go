package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/layout"
	"github.com/joseph-ayodele/docextract/internal/provider"
	"github.com/joseph-ayodele/docextract/internal/registry"
	"github.com/joseph-ayodele/docextract/internal/tablezone"
)

// SinglePage is the synchronous flow for one-page documents. Unlike the
// multi-page flow, a document whose text matches no registry entry is a fatal
// error here.
type SinglePage struct {
	analyzer provider.Analyzer
	registry registry.Registry
	fields   *extract.FieldExtractor
	tables   *tablezone.Extractor
	logger   *slog.Logger
}

// NewSinglePage wires the single-page orchestrator. tables may be nil to skip
// line-item reconstruction.
func NewSinglePage(a provider.Analyzer, reg registry.Registry, fe *extract.FieldExtractor, tables *tablezone.Extractor, logger *slog.Logger) *SinglePage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SinglePage{analyzer: a, registry: reg, fields: fe, tables: tables, logger: logger}
}

// Process analyzes the document and returns exactly one result (page 1).
func (o *SinglePage) Process(ctx context.Context, docURI string) ([]Result, error) {
	docID := DocumentID(docURI)

	blocks, err := o.analyzer.Analyze(ctx, docURI, []string{provider.FeatureForms, provider.FeatureTables})
	if err != nil {
		return nil, &DocumentError{DocumentID: docID, Err: fmt.Errorf("analyze: %w: %w", common.ErrProvider, err)}
	}
	ix := layout.NewIndex(blocks)
	text := ix.DocumentText()

	records, err := o.registry.ListAll(ctx)
	if err != nil {
		return nil, &DocumentError{DocumentID: docID, Err: fmt.Errorf("list companies: %w", err)}
	}
	rec, ok := registry.Identify(text, records)
	if !ok {
		return nil, &DocumentError{DocumentID: docID, Err: ErrNoCompanyMatch}
	}
	o.logger.Info("company identified", "document_id", docID, "company", rec.Company)

	fields := o.fields.Extract(ix, text, rec.Fields)

	tables, err := o.registry.GetTargetTables(ctx, rec.Company)
	if err != nil {
		return nil, &DocumentError{DocumentID: docID, Err: fmt.Errorf("target tables: %w", err)}
	}

	res := Result{
		Company:      rec.Company,
		PageNumber:   1,
		Fields:       fields,
		TargetTables: tables,
	}
	if o.tables != nil {
		res.LineItems = o.tables.Extract(ix)
	}
	return []Result{res}, nil
}
