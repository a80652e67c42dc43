package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/docextract/internal/common"
)

// Orchestrator is either flow: document location in, ordered results out.
type Orchestrator interface {
	Process(ctx context.Context, docURI string) ([]Result, error)
}

// Processor runs a document through an orchestrator and fans the results out
// to the sink, one write per result and target table. Sink writes are
// fire-and-report: a failed write is logged and the remaining writes proceed.
type Processor struct {
	Orch   Orchestrator
	Sink   Sink
	Logger *slog.Logger
}

func NewProcessor(orch Orchestrator, sink Sink, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Orch: orch, Sink: sink, Logger: logger}
}

// ProcessDocument extracts and stores one document. The returned results are
// complete even when some sink writes failed; only extraction failures are
// returned as errors.
func (p *Processor) ProcessDocument(ctx context.Context, docURI string) ([]Result, error) {
	docID := DocumentID(docURI)
	ctx = common.WithDocumentID(ctx, docID)

	results, err := p.Orch.Process(ctx, docURI)
	if err != nil {
		p.Logger.Error("extraction failed", "document_id", docID, "error", err)
		return results, err
	}

	written, failed := 0, 0
	for _, res := range results {
		if len(res.TargetTables) == 0 {
			p.Logger.Warn("no target tables configured, result dropped",
				"document_id", docID, "company", res.Company, "page", res.PageNumber)
			continue
		}
		if p.Sink == nil {
			continue
		}
		for _, table := range res.TargetTables {
			if err := p.Sink.Write(ctx, table, res, docID); err != nil {
				failed++
				p.Logger.Error("sink write failed",
					"document_id", docID, "table", table, "page", res.PageNumber, "error", err)
				continue
			}
			written++
		}
	}

	p.Logger.Info("document processed",
		"document_id", docID, "results", len(results), "writes_ok", written, "writes_failed", failed)
	return results, nil
}
