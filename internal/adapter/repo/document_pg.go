package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/sqlinline"
)

// DocumentStorePG implements domain.DocumentStore on a single jsonb table.
type DocumentStorePG struct {
	sql infra.SQLExecutor
}

// NewDocumentStorePG creates a document store backed by PostgreSQL.
func NewDocumentStorePG(sql infra.SQLExecutor) *DocumentStorePG {
	return &DocumentStorePG{sql: sql}
}

// Create inserts a document under id.
func (r *DocumentStorePG) Create(ctx context.Context, collection, id string, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertDocument, id, collection, payload); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Update merges fields into the stored document.
func (r *DocumentStorePG) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QMergeDocumentFields, collection, id, payload)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByField returns up to limit documents whose top-level field equals
// value, newest first. Values are compared in their text form.
func (r *DocumentStorePG) FindByField(ctx context.Context, collection, field string, value any, limit int) ([]domain.Document, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectDocumentsByField, collection, field, fmt.Sprint(value), limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []domain.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		out = append(out, domain.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ domain.DocumentStore = (*DocumentStorePG)(nil)
