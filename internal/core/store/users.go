package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solatis/sdlc-connector/internal/core/db"
	"github.com/solatis/sdlc-connector/internal/types"
)

// Users maps platform account ids to internal user ids.
type Users struct {
	q   *db.Queries
	now func() time.Time
}

// NewUsers creates a user mapping store.
func NewUsers(q *db.Queries) *Users {
	return &Users{q: q, now: time.Now}
}

// ResolveUser returns the internal user id for externalID, or nil when the
// account is not mapped.
func (u *Users) ResolveUser(ctx context.Context, projectID types.ProjectID, system types.System, externalID string) (*string, error) {
	var userID string
	err := u.q.Get(ctx, "get-user-mapping", &userID, string(projectID), string(system), externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user mapping: %w", err)
	}
	return &userID, nil
}

// MapUser creates or replaces a mapping.
func (u *Users) MapUser(ctx context.Context, projectID types.ProjectID, system types.System, externalID, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if _, err := u.q.Exec(ctx, "upsert-user-mapping",
		string(projectID), string(system), externalID, userID, u.now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("upsert user mapping: %w", err)
	}
	return nil
}
