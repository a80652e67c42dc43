package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/docextract/internal/pipeline"
)

// Postgres writes results into per-company target tables. Every target table
// shares one shape:
//
//	document_id uuid, page_number int, company text,
//	fields jsonb, line_items jsonb, updated_at timestamptz,
//	primary key (document_id, page_number)
//
// Writes upsert on (document_id, page_number), making reprocessing idempotent.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, logger: logger}
}

func (s *Postgres) Write(ctx context.Context, table string, res pipeline.Result, documentID string) error {
	fields, err := encodeFields(res)
	if err != nil {
		return err
	}
	items, err := encodeLineItems(res)
	if err != nil {
		return err
	}

	// Table names come from registry config, not request input; sanitize anyway.
	q := fmt.Sprintf(`
		INSERT INTO %s (document_id, page_number, company, fields, line_items, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (document_id, page_number)
		DO UPDATE SET company = EXCLUDED.company, fields = EXCLUDED.fields,
		              line_items = EXCLUDED.line_items, updated_at = now()`,
		pgx.Identifier{table}.Sanitize())

	if _, err := s.pool.Exec(ctx, q, documentID, res.PageNumber, res.Company, fields, items); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	s.logger.Debug("result stored", "table", table, "document_id", documentID, "page", res.PageNumber)
	return nil
}
