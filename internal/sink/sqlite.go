package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // local-mode driver, no cgo

	"github.com/joseph-ayodele/docextract/internal/pipeline"
)

// SQLite is the local-mode sink used by the one-shot CLI: no Postgres
// required, results land in a single database file. Target tables are created
// on first write.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger

	mu      sync.Mutex
	created map[string]struct{}
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &SQLite{db: db, logger: logger, created: make(map[string]struct{})}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Write(ctx context.Context, table string, res pipeline.Result, documentID string) error {
	ident, err := sanitizeIdent(table)
	if err != nil {
		return err
	}
	if err := s.ensureTable(ctx, ident); err != nil {
		return err
	}

	fields, err := encodeFields(res)
	if err != nil {
		return err
	}
	items, err := encodeLineItems(res)
	if err != nil {
		return err
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (document_id, page_number, company, fields, line_items, updated_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT (document_id, page_number)
		DO UPDATE SET company = excluded.company, fields = excluded.fields,
		              line_items = excluded.line_items, updated_at = datetime('now')`, ident)

	if _, err := s.db.ExecContext(ctx, q, documentID, res.PageNumber, res.Company, string(fields), nullable(items)); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	s.logger.Debug("result stored", "table", table, "document_id", documentID, "page", res.PageNumber)
	return nil
}

func (s *SQLite) ensureTable(ctx context.Context, ident string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.created[ident]; ok {
		return nil
	}
	q := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			document_id TEXT NOT NULL,
			page_number INTEGER NOT NULL,
			company     TEXT NOT NULL,
			fields      TEXT NOT NULL,
			line_items  TEXT,
			updated_at  TEXT NOT NULL,
			PRIMARY KEY (document_id, page_number)
		)`, ident)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create table %s: %w", ident, err)
	}
	s.created[ident] = struct{}{}
	return nil
}

func nullable(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

// sanitizeIdent accepts plain snake_case table names only; registry config is
// trusted but a typo should fail loudly, not inject SQL.
func sanitizeIdent(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty table name")
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return "", fmt.Errorf("invalid table name %q", name)
	}
	if strings.IndexByte("0123456789", name[0]) >= 0 {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return name, nil
}
