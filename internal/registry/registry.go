// Package registry holds the per-company extraction configuration: which
// companies are known, which fields to pull for each, and which target tables
// receive the results. Records are read-only to the pipeline; the backing
// store owns mutation.
package registry

import "context"

// CompanyRecord is one company's extraction configuration. Company is stored
// case-sensitively but matched case-insensitively; Fields is ordered and the
// order is preserved through extraction.
type CompanyRecord struct {
	Company      string   `json:"company"`
	Fields       []string `json:"fields"`
	TargetTables []string `json:"target_tables"`
}

// Registry is the configuration collaborator consumed by the orchestrators.
type Registry interface {
	// ListAll returns every record in registry order. Order is significant:
	// company identification uses it as the tie-break.
	ListAll(ctx context.Context) ([]CompanyRecord, error)
	// GetTargetTables returns the sink identifiers for a company, or an empty
	// list if the company is unknown.
	GetTargetTables(ctx context.Context, company string) ([]string, error)
}
