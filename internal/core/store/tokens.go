// Package store holds the sqlx-backed token, user mapping and message stores.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/solatis/sdlc-connector/internal/core/db"
	"github.com/solatis/sdlc-connector/internal/types"
)

// Tokens stores per-project webhook secrets. Several secrets may be active
// at once so a project can rotate without dropping deliveries.
type Tokens struct {
	q   *db.Queries
	now func() time.Time
}

// NewTokens creates a token store.
func NewTokens(q *db.Queries) *Tokens {
	return &Tokens{q: q, now: time.Now}
}

// ResolveSecrets returns every active secret for the project and system,
// newest first. Read on every call; nothing is cached.
func (t *Tokens) ResolveSecrets(ctx context.Context, projectID types.ProjectID, system types.System) ([]string, error) {
	var secrets []string
	if err := t.q.Select(ctx, "list-active-secrets", &secrets, string(projectID), string(system)); err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	return secrets, nil
}

// AddSecret provisions a new active secret and returns its id.
func (t *Tokens) AddSecret(ctx context.Context, projectID types.ProjectID, system types.System, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate secret id: %w", err)
	}

	if _, err := t.q.Exec(ctx, "insert-secret",
		id.String(), string(projectID), string(system), secret, t.now().UnixMilli(),
	); err != nil {
		return "", fmt.Errorf("insert secret: %w", err)
	}
	return id.String(), nil
}

// RevokeSecret stops a secret from validating further deliveries.
func (t *Tokens) RevokeSecret(ctx context.Context, secretID string) error {
	res, err := t.q.Exec(ctx, "revoke-secret", t.now().UnixMilli(), secretID)
	if err != nil {
		return fmt.Errorf("revoke secret: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke secret: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, secretID)
	}
	return nil
}
