package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codelegends_gateway/models"
	"codelegends_gateway/session"
)

// SessionStore keeps learner sessions in postgres so they survive restarts
// and are shared between gateway replicas.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var (
		sess            models.Session
		accessExpiresAt sql.NullTime
		meCheckedAt     sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, access_token, refresh_token, user_id, role, onboarding_completed,
		       access_expires_at, me_checked_at, created_at, updated_at
		FROM learner_sessions
		WHERE id = $1
	`, id).Scan(
		&sess.ID, &sess.AccessToken, &sess.RefreshToken, &sess.UserID, &sess.Role,
		&sess.OnboardingCompleted, &accessExpiresAt, &meCheckedAt, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sess.AccessExpiresAt = accessExpiresAt.Time
	sess.MeCheckedAt = meCheckedAt.Time
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *models.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session id required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learner_sessions (id, access_token, refresh_token, user_id, role, onboarding_completed,
		                              access_expires_at, me_checked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
		    access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    user_id = EXCLUDED.user_id,
		    role = EXCLUDED.role,
		    onboarding_completed = EXCLUDED.onboarding_completed,
		    access_expires_at = EXCLUDED.access_expires_at,
		    me_checked_at = EXCLUDED.me_checked_at,
		    updated_at = EXCLUDED.updated_at
	`, sess.ID, sess.AccessToken, sess.RefreshToken, sess.UserID, sess.Role, sess.OnboardingCompleted,
		nullTime(sess.AccessExpiresAt), nullTime(sess.MeCheckedAt), defaultNow(sess.CreatedAt), defaultNow(sess.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM learner_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions created before cutoff.
func (s *SessionStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM learner_sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func defaultNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
