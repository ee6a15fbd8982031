package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/solatis/sdlc-connector/internal/core/db"
	"github.com/solatis/sdlc-connector/internal/types"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 100

// Messages persists envelopes.
type Messages struct {
	q *db.Queries
}

// NewMessages creates a message store.
func NewMessages(q *db.Queries) *Messages {
	return &Messages{q: q}
}

type messageRow struct {
	EventID   string         `db:"event_id"`
	ProjectID string         `db:"project_id"`
	Type      string         `db:"type"`
	UserID    sql.NullString `db:"user_id"`
	Timestamp int64          `db:"timestamp"`
	Content   string         `db:"content"`
}

// Save stores env. A redelivery with the same event id overwrites the
// earlier row instead of failing on the primary key.
func (m *Messages) Save(ctx context.Context, env *types.Envelope) error {
	content, err := json.Marshal(env.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	var userID sql.NullString
	if env.UserID != nil {
		userID = sql.NullString{String: *env.UserID, Valid: true}
	}

	if _, err := m.q.Exec(ctx, "insert-message",
		string(env.EventID), string(env.ProjectID), env.Type, userID,
		env.Timestamp.UnixMilli(), string(content),
	); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List returns the newest envelopes for a project.
func (m *Messages) List(ctx context.Context, projectID types.ProjectID, limit int) ([]types.Envelope, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []messageRow
	if err := m.q.Select(ctx, "list-messages", &rows, string(projectID), limit); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	envelopes := make([]types.Envelope, 0, len(rows))
	for _, r := range rows {
		content, err := decodeContent(r.Content)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", r.EventID, err)
		}
		env := types.Envelope{
			EventID:   types.EventID(r.EventID),
			Type:      r.Type,
			Timestamp: time.UnixMilli(r.Timestamp).UTC(),
			ProjectID: types.ProjectID(r.ProjectID),
			Content:   content,
		}
		if r.UserID.Valid {
			user := r.UserID.String
			env.UserID = &user
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, nil
}

func decodeContent(raw string) (types.Content, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	content := types.Content{}
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return content, nil
}
