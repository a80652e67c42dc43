package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/layout"
)

// HTTPClient talks to a layout-analysis service over JSON/HTTP. Endpoints:
// POST {base}/analyze for synchronous analysis, POST {base}/analysis-jobs to
// submit an async job, POST {base}/analysis-jobs/poll to fetch batches.
// Auth and retry policy belong to the transport (http.Client), not here.
type HTTPClient struct {
	base   string
	client *http.Client
	apiKey string
	logger *slog.Logger
}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.client = c
		}
	}
}

func WithAPIKey(key string) HTTPOption {
	return func(h *HTTPClient) { h.apiKey = key }
}

func NewHTTPClient(base string, logger *slog.Logger, opts ...HTTPOption) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HTTPClient{
		base:   base,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

type analyzeRequest struct {
	Document string   `json:"document"`
	Features []string `json:"features"`
}

type analyzeResponse struct {
	Blocks []layout.Block `json:"blocks"`
}

type startResponse struct {
	JobID string `json:"jobId"`
}

type pollRequest struct {
	JobID     string `json:"jobId"`
	NextToken string `json:"nextToken,omitempty"`
}

func (h *HTTPClient) Analyze(ctx context.Context, docURI string, features []string) ([]layout.Block, error) {
	var resp analyzeResponse
	err := h.postJSON(ctx, h.base+"/analyze", analyzeRequest{Document: docURI, Features: features}, &resp)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return resp.Blocks, nil
}

func (h *HTTPClient) StartAnalysis(ctx context.Context, docURI string, features []string) (string, error) {
	var resp startResponse
	err := h.postJSON(ctx, h.base+"/analysis-jobs", analyzeRequest{Document: docURI, Features: features}, &resp)
	if err != nil {
		return "", fmt.Errorf("start analysis: %w", err)
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("start analysis: provider returned empty job id")
	}
	return resp.JobID, nil
}

func (h *HTTPClient) Poll(ctx context.Context, jobID, nextToken string) (Batch, error) {
	var batch Batch
	err := h.postJSON(ctx, h.base+"/analysis-jobs/poll", pollRequest{JobID: jobID, NextToken: nextToken}, &batch)
	if err != nil {
		return Batch{}, fmt.Errorf("poll job %s: %w", jobID, err)
	}
	return batch, nil
}

// postJSON sends one JSON request and decodes the JSON response into out.
// The request id is taken from the context when the caller set one, so the
// provider call correlates with the rest of the document's log lines.
func (h *HTTPClient) postJSON(ctx context.Context, url string, body, out any) error {
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	docID := common.DocumentIDFromContext(ctx)
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("provider.http.transport_error",
			"req_id", reqID, "document_id", docID, "url", url, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	h.logger.Debug("provider.http.response",
		"req_id", reqID,
		"document_id", docID,
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(string(data), 512))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
