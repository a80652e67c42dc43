package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/layout"
	"github.com/joseph-ayodele/docextract/internal/provider"
	"github.com/joseph-ayodele/docextract/internal/registry"
	"github.com/joseph-ayodele/docextract/internal/tablezone"
)

// AsyncConfig bounds the polling loop. MaxPollAttempts is required hardening:
// without it a provider that never finishes would spin forever.
type AsyncConfig struct {
	MaxPollAttempts int           // default 60
	PollInterval    time.Duration // wait between polls, default 2s
}

// AsyncJob is the multi-page flow: submit an analysis job once, then poll it
// to completion, extracting fields page by page as batches arrive. Pages with
// no company match are skipped, not errors.
type AsyncJob struct {
	cfg      AsyncConfig
	analyzer provider.Analyzer
	registry registry.Registry
	fields   *extract.FieldExtractor
	tables   *tablezone.Extractor
	logger   *slog.Logger
}

// NewAsyncJob wires the async orchestrator. tables may be nil to skip
// line-item reconstruction.
func NewAsyncJob(cfg AsyncConfig, a provider.Analyzer, reg registry.Registry, fe *extract.FieldExtractor, tables *tablezone.Extractor, logger *slog.Logger) *AsyncJob {
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = 60
	}
	if cfg.PollInterval < 0 {
		cfg.PollInterval = 0
	} else if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncJob{cfg: cfg, analyzer: a, registry: reg, fields: fe, tables: tables, logger: logger}
}

// Process runs the job to completion and returns the accumulated results in
// page order. The loop ends when a response carries no continuation cursor
// and a status other than IN_PROGRESS; a FAILED terminal status still
// completes with whatever was extracted, logged at WARN.
func (o *AsyncJob) Process(ctx context.Context, docURI string) ([]Result, error) {
	docID := DocumentID(docURI)

	records, err := o.registry.ListAll(ctx)
	if err != nil {
		return nil, &DocumentError{DocumentID: docID, Err: fmt.Errorf("list companies: %w", err)}
	}

	jobID, err := o.analyzer.StartAnalysis(ctx, docURI, []string{provider.FeatureForms, provider.FeatureTables})
	if err != nil {
		return nil, &DocumentError{DocumentID: docID, Err: fmt.Errorf("start analysis: %w: %w", common.ErrProvider, err)}
	}
	o.logger.Info("analysis job submitted", "document_id", docID, "job_id", jobID)

	var results []Result
	pageNum := 0
	token := ""

	for attempt := 1; ; attempt++ {
		if attempt > o.cfg.MaxPollAttempts {
			return results, &DocumentError{
				DocumentID: docID,
				Err:        fmt.Errorf("job %s still incomplete after %d polls", jobID, o.cfg.MaxPollAttempts),
			}
		}

		batch, err := o.analyzer.Poll(ctx, jobID, token)
		if err != nil {
			return results, &DocumentError{DocumentID: docID, Err: fmt.Errorf("poll: %w: %w", common.ErrProvider, err)}
		}

		ix := layout.NewIndex(batch.Blocks)
		for _, page := range ix.OfType(layout.BlockTypePage) {
			pageNum++
			if res, ok := o.processPage(ix, page, pageNum, records); ok {
				results = append(results, res)
			}
		}

		if batch.NextToken == "" && batch.Status != provider.JobInProgress {
			if batch.Status == provider.JobFailed {
				o.logger.Warn("analysis job reported FAILED, keeping partial results",
					"document_id", docID, "job_id", jobID, "pages", pageNum, "results", len(results))
			}
			break
		}
		token = batch.NextToken

		if o.cfg.PollInterval > 0 {
			select {
			case <-ctx.Done():
				return results, &DocumentError{DocumentID: docID, Err: ctx.Err()}
			case <-time.After(o.cfg.PollInterval):
			}
		}
	}

	o.logger.Info("analysis job complete", "document_id", docID, "job_id", jobID,
		"pages", pageNum, "results", len(results))
	return results, nil
}

// processPage extracts one page independently. A page with no company match
// is skipped silently, unlike the single-page flow.
func (o *AsyncJob) processPage(ix *layout.Index, page *layout.Block, pageNum int, records []registry.CompanyRecord) (Result, bool) {
	text := ix.PageText(page.ID)
	rec, ok := registry.Identify(text, records)
	if !ok {
		o.logger.Debug("no company matched page, skipping", "page", pageNum)
		return Result{}, false
	}

	scoped := ix.Scope(ix.PageBlockIDs(page.ID))
	res := Result{
		Company:      rec.Company,
		PageNumber:   pageNum,
		Fields:       o.fields.Extract(scoped, text, rec.Fields),
		TargetTables: rec.TargetTables,
	}
	if o.tables != nil {
		res.LineItems = o.tables.Extract(scoped)
	}
	return res, true
}
