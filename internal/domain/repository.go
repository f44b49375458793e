package domain

import "context"

// Document is a schemaless record in a named collection.
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStore is the persistence contract of the result persister. Ids are
// chosen by the caller. Update merges fields into the stored document.
type DocumentStore interface {
	Create(ctx context.Context, collection, id string, fields map[string]any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	FindByField(ctx context.Context, collection, field string, value any, limit int) ([]Document, error)
}
