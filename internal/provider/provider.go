// Package provider defines the contract of the external OCR/layout-analysis
// service and a JSON-over-HTTP client for it. The service is opaque to the
// pipeline: it takes a document reference and returns a block graph, either
// in one shot or through an asynchronous job.
package provider

import (
	"context"

	"github.com/joseph-ayodele/docextract/internal/layout"
)

// JobStatus is the lifecycle status of an asynchronous analysis job.
type JobStatus string

const (
	JobInProgress JobStatus = "IN_PROGRESS"
	JobSucceeded  JobStatus = "SUCCEEDED"
	JobFailed     JobStatus = "FAILED"
)

// Batch is one poll response: a slice of the job's block graph, the job
// status, and an optional continuation cursor for the next slice.
type Batch struct {
	Blocks    []layout.Block `json:"blocks"`
	Status    JobStatus      `json:"jobStatus"`
	NextToken string         `json:"nextToken,omitempty"`
}

// Features requested from the analysis service.
const (
	FeatureForms  = "FORMS"
	FeatureTables = "TABLES"
)

// Analyzer is the layout-analysis collaborator.
type Analyzer interface {
	// Analyze runs a synchronous single-shot analysis of the document at the
	// given location and returns the complete block graph.
	Analyze(ctx context.Context, docURI string, features []string) ([]layout.Block, error)

	// StartAnalysis submits an asynchronous analysis job and returns its id.
	StartAnalysis(ctx context.Context, docURI string, features []string) (string, error)

	// Poll fetches the next batch of an asynchronous job. nextToken is empty
	// on the first call and carries the previous response's cursor afterwards.
	Poll(ctx context.Context, jobID, nextToken string) (Batch, error)
}
