package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/layout"
	"github.com/joseph-ayodele/docextract/internal/provider"
	"github.com/joseph-ayodele/docextract/internal/registry"
)

// fakeAnalyzer scripts the provider: Analyze returns blocks, Poll walks
// through batches in order.
type fakeAnalyzer struct {
	blocks  []layout.Block
	batches []provider.Batch
	polls   int
	tokens  []string
	failure error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string, _ []string) ([]layout.Block, error) {
	return f.blocks, f.failure
}

func (f *fakeAnalyzer) StartAnalysis(_ context.Context, _ string, _ []string) (string, error) {
	return "job-1", f.failure
}

func (f *fakeAnalyzer) Poll(_ context.Context, _, token string) (provider.Batch, error) {
	f.tokens = append(f.tokens, token)
	if f.polls >= len(f.batches) {
		return provider.Batch{}, fmt.Errorf("poll past end of script")
	}
	b := f.batches[f.polls]
	f.polls++
	return b, nil
}

type sinkWrite struct {
	table    string
	res      Result
	docID    string
	ctxDocID string
}

type fakeSink struct {
	writes  []sinkWrite
	failFor string // table name that fails
}

func (s *fakeSink) Write(ctx context.Context, table string, res Result, docID string) error {
	if table == s.failFor {
		return errors.New("sink unavailable")
	}
	s.writes = append(s.writes, sinkWrite{
		table:    table,
		res:      res,
		docID:    docID,
		ctxDocID: common.DocumentIDFromContext(ctx),
	})
	return nil
}

// pageBlocks builds a one-page batch whose single line carries the given text.
func pageBlocks(n, lineText string) []layout.Block {
	return []layout.Block{
		{ID: "p" + n, Type: layout.BlockTypePage, Relationships: []layout.Relationship{
			{Kind: layout.RelationChild, IDs: []string{"l" + n}},
		}},
		{ID: "l" + n, Type: layout.BlockTypeLine, Text: lineText},
	}
}

var testRecords = registry.Static{
	{Company: "Acme", Fields: []string{"Order No"}, TargetTables: []string{"acme_orders"}},
	{Company: "Globex", Fields: []string{"Date:"}, TargetTables: []string{"globex_orders", "audit"}},
}

func TestSinglePageProcess(t *testing.T) {
	a := &fakeAnalyzer{blocks: pageBlocks("1", "Acme Order No: PO77")}
	o := NewSinglePage(a, testRecords, extract.NewFieldExtractor(nil), nil, nil)

	results, err := o.Process(context.Background(), "inbox/a.pdf")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]
	if res.Company != "Acme" || res.PageNumber != 1 {
		t.Errorf("result = %+v, want Acme page 1", res)
	}
	if v := res.Fields["Order No"]; v == nil || *v != "PO77" {
		t.Errorf("Order No = %v, want PO77", v)
	}
	if len(res.TargetTables) != 1 || res.TargetTables[0] != "acme_orders" {
		t.Errorf("TargetTables = %v", res.TargetTables)
	}
}

func TestSinglePageNoCompanyIsFatal(t *testing.T) {
	a := &fakeAnalyzer{blocks: pageBlocks("1", "Initech purchase order")}
	o := NewSinglePage(a, testRecords, extract.NewFieldExtractor(nil), nil, nil)

	results, err := o.Process(context.Background(), "inbox/a.pdf")
	if err == nil {
		t.Fatal("Process succeeded, want fatal no-company error")
	}
	if !errors.Is(err, ErrNoCompanyMatch) {
		t.Errorf("err = %v, want ErrNoCompanyMatch", err)
	}
	var derr *DocumentError
	if !errors.As(err, &derr) || derr.DocumentID != DocumentID("inbox/a.pdf") {
		t.Errorf("err = %v, want DocumentError carrying the document id", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestAsyncJobTwoBatches(t *testing.T) {
	a := &fakeAnalyzer{batches: []provider.Batch{
		{Blocks: pageBlocks("1", "Acme Order No: PO1"), Status: provider.JobInProgress, NextToken: "t1"},
		{Blocks: pageBlocks("2", "Globex Date: 2024-01-05"), Status: provider.JobSucceeded},
	}}
	o := NewAsyncJob(AsyncConfig{PollInterval: -1}, a, testRecords, extract.NewFieldExtractor(nil), nil, nil)

	results, err := o.Process(context.Background(), "inbox/multi.pdf")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if a.polls != 2 {
		t.Errorf("polled %d times, want exactly 2", a.polls)
	}
	if a.tokens[0] != "" || a.tokens[1] != "t1" {
		t.Errorf("cursor sequence = %v, want [\"\" t1]", a.tokens)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Company != "Acme" || results[0].PageNumber != 1 {
		t.Errorf("result[0] = %+v, want Acme page 1", results[0])
	}
	if results[1].Company != "Globex" || results[1].PageNumber != 2 {
		t.Errorf("result[1] = %+v, want Globex page 2", results[1])
	}
}

func TestAsyncJobSkipsUnmatchedPages(t *testing.T) {
	blocks := append(pageBlocks("1", "Initech memo"), pageBlocks("2", "Acme Order No: PO9")...)
	a := &fakeAnalyzer{batches: []provider.Batch{
		{Blocks: blocks, Status: provider.JobSucceeded},
	}}
	o := NewAsyncJob(AsyncConfig{PollInterval: -1}, a, testRecords, extract.NewFieldExtractor(nil), nil, nil)

	results, err := o.Process(context.Background(), "inbox/multi.pdf")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (unmatched page skipped)", len(results))
	}
	// Page numbering counts skipped pages too.
	if results[0].PageNumber != 2 {
		t.Errorf("PageNumber = %d, want 2", results[0].PageNumber)
	}
}

func TestAsyncJobFailedStatusCompletes(t *testing.T) {
	a := &fakeAnalyzer{batches: []provider.Batch{
		{Blocks: pageBlocks("1", "Acme Order No: PO1"), Status: provider.JobFailed},
	}}
	o := NewAsyncJob(AsyncConfig{PollInterval: -1}, a, testRecords, extract.NewFieldExtractor(nil), nil, nil)

	results, err := o.Process(context.Background(), "inbox/multi.pdf")
	if err != nil {
		t.Fatalf("Process: %v (FAILED terminal status keeps partial results)", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestAsyncJobBoundedPolling(t *testing.T) {
	// Always in progress: the loop must stop at MaxPollAttempts.
	a := &fakeAnalyzer{batches: []provider.Batch{
		{Status: provider.JobInProgress, NextToken: "t1"},
		{Status: provider.JobInProgress, NextToken: "t2"},
		{Status: provider.JobInProgress, NextToken: "t3"},
	}}
	o := NewAsyncJob(AsyncConfig{MaxPollAttempts: 3, PollInterval: -1}, a, testRecords, extract.NewFieldExtractor(nil), nil, nil)

	_, err := o.Process(context.Background(), "inbox/multi.pdf")
	if err == nil {
		t.Fatal("Process succeeded, want exhaustion error")
	}
	if a.polls != 3 {
		t.Errorf("polled %d times, want 3", a.polls)
	}
}

func TestProcessorSinkFanOut(t *testing.T) {
	a := &fakeAnalyzer{blocks: pageBlocks("1", "Globex Date: 2024-01-05")}
	o := NewSinglePage(a, testRecords, extract.NewFieldExtractor(nil), nil, nil)
	sink := &fakeSink{}
	p := NewProcessor(o, sink, nil)

	results, err := p.ProcessDocument(context.Background(), "inbox/g.pdf")
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if len(sink.writes) != 2 {
		t.Fatalf("got %d sink writes, want 2 (one per target table)", len(sink.writes))
	}
	if sink.writes[0].table != "globex_orders" || sink.writes[1].table != "audit" {
		t.Errorf("tables = %s,%s", sink.writes[0].table, sink.writes[1].table)
	}
	if sink.writes[0].docID != DocumentID("inbox/g.pdf") {
		t.Errorf("docID = %s", sink.writes[0].docID)
	}
	if sink.writes[0].ctxDocID != DocumentID("inbox/g.pdf") {
		t.Errorf("context document id = %q, want %q", sink.writes[0].ctxDocID, DocumentID("inbox/g.pdf"))
	}
}

func TestProcessProviderErrorWrapped(t *testing.T) {
	a := &fakeAnalyzer{failure: errors.New("connection refused")}
	fe := extract.NewFieldExtractor(nil)

	single := NewSinglePage(a, testRecords, fe, nil, nil)
	if _, err := single.Process(context.Background(), "inbox/a.pdf"); !errors.Is(err, common.ErrProvider) {
		t.Errorf("single-page err = %v, want common.ErrProvider in the chain", err)
	}

	multi := NewAsyncJob(AsyncConfig{PollInterval: -1}, a, testRecords, fe, nil, nil)
	if _, err := multi.Process(context.Background(), "inbox/a.pdf"); !errors.Is(err, common.ErrProvider) {
		t.Errorf("multi-page err = %v, want common.ErrProvider in the chain", err)
	}
}

func TestProcessorSinkFailureDoesNotAbort(t *testing.T) {
	a := &fakeAnalyzer{blocks: pageBlocks("1", "Globex Date: 2024-01-05")}
	o := NewSinglePage(a, testRecords, extract.NewFieldExtractor(nil), nil, nil)
	sink := &fakeSink{failFor: "globex_orders"}
	p := NewProcessor(o, sink, nil)

	if _, err := p.ProcessDocument(context.Background(), "inbox/g.pdf"); err != nil {
		t.Fatalf("ProcessDocument: %v (sink failures must not fail the document)", err)
	}
	if len(sink.writes) != 1 || sink.writes[0].table != "audit" {
		t.Errorf("writes = %+v, want the audit write to proceed", sink.writes)
	}
}

func TestDocumentIDDeterministic(t *testing.T) {
	if DocumentID("inbox/a.pdf") != DocumentID("inbox/a.pdf") {
		t.Error("DocumentID is not deterministic")
	}
	if DocumentID("inbox/a.pdf") == DocumentID("inbox/b.pdf") {
		t.Error("DocumentID collides across locations")
	}
}
