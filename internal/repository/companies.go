package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/registry"
)

// CompanyRepository serves company extraction records from Postgres. It
// implements registry.Registry; the company_records table carries an explicit
// position column because registry order is the company-match tie-break.
//
//	company_records(position int, company text unique,
//	                fields text[], target_tables text[])
type CompanyRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCompanyRepository(pool *pgxpool.Pool, logger *slog.Logger) *CompanyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyRepository{pool: pool, logger: logger}
}

func (r *CompanyRepository) ListAll(ctx context.Context) ([]registry.CompanyRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT company, fields, target_tables
		FROM company_records
		ORDER BY position`)
	if err != nil {
		r.logger.Error("failed to list company records", "error", err)
		return nil, fmt.Errorf("list company records: %w: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var records []registry.CompanyRecord
	for rows.Next() {
		var rec registry.CompanyRecord
		if err := rows.Scan(&rec.Company, &rec.Fields, &rec.TargetTables); err != nil {
			r.logger.Error("failed to scan company record", "error", err)
			return nil, fmt.Errorf("scan company record: %w: %w", common.ErrDatabase, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("failed to read company records", "error", err)
		return nil, fmt.Errorf("read company records: %w: %w", common.ErrDatabase, err)
	}
	return records, nil
}

func (r *CompanyRepository) GetTargetTables(ctx context.Context, company string) ([]string, error) {
	var tables []string
	err := r.pool.QueryRow(ctx, `
		SELECT target_tables
		FROM company_records
		WHERE lower(company) = lower($1)`, company).Scan(&tables)
	if err != nil {
		// Unknown company is not an error per the registry contract.
		if isNoRows(err) {
			return []string{}, nil
		}
		r.logger.Error("failed to load target tables", "company", company, "error", err)
		return nil, fmt.Errorf("target tables for %s: %w: %w", company, common.ErrDatabase, err)
	}
	if tables == nil {
		tables = []string{}
	}
	return tables, nil
}
