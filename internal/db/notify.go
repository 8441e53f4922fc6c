package db

import (
	"context"
	"database/sql"
)

// EscalationNotifier announces escalating verdicts on a Postgres
// LISTEN/NOTIFY channel so an on-call dashboard can subscribe without
// polling.  Notifications are fire-and-forget; a lost one is recovered by
// reading the conversations table.
type EscalationNotifier struct {
	DB      *sql.DB
	Channel string
}

// NewEscalationNotifier constructs a notifier on the given channel.  The
// channel should match the NOTIFY_CHANNEL environment variable.
func NewEscalationNotifier(db *sql.DB, channel string) *EscalationNotifier {
	return &EscalationNotifier{DB: db, Channel: channel}
}

// Notify publishes the session ID on the escalation channel.
func (n *EscalationNotifier) Notify(ctx context.Context, sessionID string) error {
	_, err := n.DB.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.Channel, sessionID)
	return err
}
