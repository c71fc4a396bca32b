package db

import (
	"context"
	"database/sql"
	"fmt"
)

const Schema = `
CREATE TABLE IF NOT EXISTS learner_sessions (
    id VARCHAR(64) PRIMARY KEY,
    access_token TEXT NOT NULL,
    refresh_token TEXT NOT NULL DEFAULT '',
    user_id INTEGER NOT NULL,
    role VARCHAR(32) NOT NULL DEFAULT '',
    onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
    access_expires_at TIMESTAMPTZ,
    me_checked_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_learner_sessions_user_id ON learner_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_learner_sessions_created_at ON learner_sessions(created_at);
`

// InitSchema creates the gateway's tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}
