package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FileRegistry serves records from a JSON config file loaded once at startup.
// Records are immutable after load; Reload swaps the whole set atomically, so
// a document being processed keeps the set it started with.
type FileRegistry struct {
	path string

	mu      sync.RWMutex
	records []CompanyRecord
}

// OpenFile loads and validates the config file. The file must be a JSON array
// of company records (see BuildRecordsJSONSchema).
func OpenFile(path string) (*FileRegistry, error) {
	r := &FileRegistry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the config file, replacing the record set on success and
// keeping the previous set on any failure.
func (r *FileRegistry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read registry config: %w", err)
	}
	if err := ValidateRecordsJSON(data); err != nil {
		return err
	}
	var records []CompanyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode registry config: %w", err)
	}
	r.mu.Lock()
	r.records = records
	r.mu.Unlock()
	return nil
}

func (r *FileRegistry) ListAll(_ context.Context) ([]CompanyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CompanyRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *FileRegistry) GetTargetTables(_ context.Context, company string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if strings.EqualFold(rec.Company, company) {
			return rec.TargetTables, nil
		}
	}
	return []string{}, nil
}

// Static is an in-memory Registry over a fixed record list, used by tests and
// one-shot runs.
type Static []CompanyRecord

func (s Static) ListAll(_ context.Context) ([]CompanyRecord, error) {
	return s, nil
}

func (s Static) GetTargetTables(_ context.Context, company string) ([]string, error) {
	for _, rec := range s {
		if strings.EqualFold(rec.Company, company) {
			return rec.TargetTables, nil
		}
	}
	return []string{}, nil
}
