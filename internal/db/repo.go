package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fever-helpline/pkg"
)

// ErrNotFound is returned when no conversation exists for a session ID.
var ErrNotFound = errors.New("conversation not found")

// Repository wraps conversation persistence on Postgres.  The triage core
// treats it as fire-and-forget after each turn: nothing mid-turn reads state
// back, only the summary endpoint does.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a Repository from an existing sql.DB.
// The caller is responsible for managing the DB connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// SaveConversation upserts the full state of a session: its turn history,
// last known triage level, summary, and red-flag marker.
func (r *Repository) SaveConversation(ctx context.Context, sessionID string, turns []pkg.ConversationTurn, triageLevel, summary, redFlag string) error {
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("marshal turns: %w", err)
	}
	// A save without a verdict must never regress a stored one: verdict
	// columns only move from NULL to a value, or value to value.
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO conversations (session_id, turns, triage_level, summary, red_flag, updated_at)
         VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NOW())
         ON CONFLICT (session_id) DO UPDATE SET
             turns = EXCLUDED.turns,
             triage_level = COALESCE(EXCLUDED.triage_level, conversations.triage_level),
             summary = COALESCE(EXCLUDED.summary, conversations.summary),
             red_flag = COALESCE(EXCLUDED.red_flag, conversations.red_flag),
             updated_at = NOW()`,
		sessionID, turnsJSON, triageLevel, summary, redFlag,
	)
	return err
}

// GetConversation loads the persisted record for a session.
func (r *Repository) GetConversation(ctx context.Context, sessionID string) (*pkg.ConversationRecord, error) {
	var (
		record    pkg.ConversationRecord
		turnsJSON []byte
		level     sql.NullString
		summary   sql.NullString
		redFlag   sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT session_id, turns, triage_level, summary, red_flag, updated_at
         FROM conversations
         WHERE session_id = $1`,
		sessionID,
	).Scan(&record.SessionID, &turnsJSON, &level, &summary, &redFlag, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(turnsJSON) > 0 {
		if err := json.Unmarshal(turnsJSON, &record.Turns); err != nil {
			return nil, fmt.Errorf("unmarshal turns: %w", err)
		}
	}
	record.TriageLevel = level.String
	record.Summary = summary.String
	record.RedFlag = redFlag.String
	return &record, nil
}
