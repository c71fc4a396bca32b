// Package session holds the token helpers shared by the learner app and the
// content hub, plus the learner's server-side sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"codelegends_gateway/logger"
	"codelegends_gateway/models"
)

var ErrUnauthenticated = errors.New("not authenticated")

// AuthAPI is the slice of the backend the session manager talks to.
type AuthAPI interface {
	RefreshToken(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

type Options struct {
	// TTL bounds the total lifetime of a session regardless of refreshes.
	TTL time.Duration
	// MeSyncInterval is how often /me is refetched to reconcile onboarding.
	MeSyncInterval time.Duration
	// RefreshSkew refreshes the access token this long before it expires.
	RefreshSkew time.Duration
	Now         func() time.Time
}

type Manager struct {
	api   AuthAPI
	store Store
	log   *logger.Logger
	opts  Options

	// refreshes is keyed by session id; the backend rotates refresh tokens,
	// so only one caller may spend a given token.
	refreshes singleflight.Group
}

func NewManager(api AuthAPI, store Store, log *logger.Logger, opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	if opts.MeSyncInterval <= 0 {
		opts.MeSyncInterval = 5 * time.Minute
	}
	return &Manager{api: api, store: store, log: log.With("component", "SessionManager"), opts: opts}
}

// Create starts a session from a successful backend login.
func (m *Manager) Create(ctx context.Context, auth *models.AuthResponse) (*models.Session, error) {
	access := auth.Access()
	claims, err := DecodeClaims(access)
	if err != nil {
		return nil, err
	}
	now := m.opts.Now()
	s := &models.Session{
		ID:              uuid.NewString(),
		AccessToken:     access,
		RefreshToken:    auth.RefreshToken,
		UserID:          claims.UserID,
		Role:            claims.Role,
		AccessExpiresAt: ExpiresAt(access),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if claims.OnboardingCompleted != nil {
		s.OnboardingCompleted = *claims.OnboardingCompleted
	}
	user := auth.User
	if user == nil {
		user, err = m.api.Me(ctx, access)
		if err != nil {
			return nil, fmt.Errorf("fetch user: %w", err)
		}
		if user == nil {
			return nil, ErrUnauthenticated
		}
	}
	applyUser(s, user, now)

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.log.Info("session created", "session_id", s.ID, "user_id", s.UserID)
	return s, nil
}

// Load returns a usable session, rotating the access token when it is about
// to expire and reconciling onboarding state from /me on MeSyncInterval.
func (m *Manager) Load(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrUnauthenticated
	}
	s, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	now := m.opts.Now()

	if now.Sub(s.CreatedAt) > m.opts.TTL {
		m.drop(ctx, s, "session ttl reached")
		return nil, ErrUnauthenticated
	}

	if m.needsRefresh(s, now) {
		rotated, err := m.rotate(ctx, s.ID, now)
		if err != nil {
			m.drop(ctx, s, "token refresh failed", "error", err)
			return nil, ErrUnauthenticated
		}
		s = rotated
	}

	if now.Sub(s.MeCheckedAt) >= m.opts.MeSyncInterval {
		user, err := m.api.Me(ctx, s.AccessToken)
		switch {
		case err != nil:
			m.log.Warn("me sync failed, keeping cached session", "session_id", s.ID, "error", err)
		case user == nil:
			m.drop(ctx, s, "backend rejected token")
			return nil, ErrUnauthenticated
		default:
			applyUser(s, user, now)
			s.UpdatedAt = now
			if err := m.store.Save(ctx, s); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
		}
	}
	return s, nil
}

// ReconcileOnboarding rereads onboarding completion from /me, ignoring the
// sync interval. Used when the cached flag would otherwise redirect.
func (m *Manager) ReconcileOnboarding(ctx context.Context, s *models.Session) (bool, error) {
	user, err := m.api.Me(ctx, s.AccessToken)
	if err != nil {
		return s.OnboardingCompleted, err
	}
	if user == nil {
		return false, ErrUnauthenticated
	}
	now := m.opts.Now()
	changed := user.OnboardingCompleted != s.OnboardingCompleted
	applyUser(s, user, now)
	if changed {
		s.UpdatedAt = now
		if err := m.store.Save(ctx, s); err != nil {
			return s.OnboardingCompleted, fmt.Errorf("save session: %w", err)
		}
	}
	return s.OnboardingCompleted, nil
}

func (m *Manager) MarkOnboarded(ctx context.Context, s *models.Session) error {
	s.OnboardingCompleted = true
	s.UpdatedAt = m.opts.Now()
	return m.store.Save(ctx, s)
}

func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, id)
}

func (m *Manager) needsRefresh(s *models.Session, now time.Time) bool {
	if s.AccessExpiresAt.IsZero() {
		return false
	}
	return !now.Add(m.opts.RefreshSkew).Before(s.AccessExpiresAt)
}

// rotate refreshes the stored session once for all concurrent callers. The
// session is reread first so a caller holding a stale copy does not spend a
// refresh token that was already rotated.
func (m *Manager) rotate(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	v, err, _ := m.refreshes.Do(id, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		cur, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !m.needsRefresh(cur, now) {
			return cur, nil
		}
		spent := cur.RefreshToken
		if err := m.refresh(ctx, cur, now); err != nil {
			// Another gateway instance may have rotated it meanwhile.
			latest, gerr := m.store.Get(ctx, id)
			if gerr == nil && latest.RefreshToken != spent && !m.needsRefresh(latest, now) {
				return latest, nil
			}
			return nil, err
		}
		return cur, nil
	})
	if err != nil {
		return nil, err
	}
	out := *v.(*models.Session)
	return &out, nil
}

func (m *Manager) refresh(ctx context.Context, s *models.Session, now time.Time) error {
	if s.RefreshToken == "" {
		return errors.New("no refresh token")
	}
	resp, err := m.api.RefreshToken(ctx, s.RefreshToken)
	if err != nil {
		return err
	}
	access := resp.Access()
	if IsExpired(access, now) {
		return errors.New("refresh returned an unusable token")
	}
	s.AccessToken = access
	s.AccessExpiresAt = ExpiresAt(access)
	if resp.RefreshToken != "" {
		s.RefreshToken = resp.RefreshToken
	}
	if resp.User != nil {
		applyUser(s, resp.User, now)
	}
	s.UpdatedAt = now
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.log.Debug("access token rotated", "session_id", s.ID)
	return nil
}

func (m *Manager) drop(ctx context.Context, s *models.Session, reason string, kv ...interface{}) {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		m.log.Error("delete session", "session_id", s.ID, "error", err)
	}
	m.log.Info(reason, append([]interface{}{"session_id", s.ID}, kv...)...)
}

func applyUser(s *models.Session, u *models.User, now time.Time) {
	if u.ID != 0 {
		s.UserID = u.ID
	}
	if u.Role != "" {
		s.Role = u.Role
	}
	s.OnboardingCompleted = u.OnboardingCompleted
	s.MeCheckedAt = now
}
