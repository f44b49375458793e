package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"interiorai/internal/infra"
	"interiorai/internal/sqlinline"
)

// Providers whose API keys may be kept in the integration_tokens table.
const (
	ProviderReplicate   = "replicate"
	ProviderHuggingFace = "huggingface"
)

// Known lists every provider the store accepts.
var Known = []string{ProviderReplicate, ProviderHuggingFace}

// Entry describes a stored credential without exposing the token.
type Entry struct {
	Provider  string
	UpdatedAt time.Time
}

// Store reads and writes provider API keys. Keys never leave the server
// process; the store is the database-backed alternative to env variables.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	var token string
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider).Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("credentials: read %s: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// Resolve prefers the explicit key and falls back to the stored one.
func (s *Store) Resolve(ctx context.Context, provider, explicit string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Token(ctx, provider)
}

// Set stores key for provider, replacing any existing value.
func (s *Store) Set(ctx context.Context, provider, key string) error {
	if !isKnown(provider) {
		return fmt.Errorf("credentials: unknown provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("credentials: %s api key is required", provider)
	}
	raw, err := json.Marshal(map[string]any{"source": "designctl"})
	if err != nil {
		return err
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, key, raw); err != nil {
		return fmt.Errorf("credentials: store %s: %w", provider, err)
	}
	return nil
}

// List returns the providers with a stored key.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListIntegrationProviders)
	if err != nil {
		return nil, fmt.Errorf("credentials: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Provider, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("credentials: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func isKnown(provider string) bool {
	for _, p := range Known {
		if p == provider {
			return true
		}
	}
	return false
}
