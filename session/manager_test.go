package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelegends_gateway/logger"
	"codelegends_gateway/models"
)

type fakeAuthAPI struct {
	refreshResp  *models.AuthResponse
	refreshErr   error
	refreshCalls []string
	me           *models.User
	meErr        error
	meCalls      int
}

func (f *fakeAuthAPI) RefreshToken(_ context.Context, refreshToken string) (*models.AuthResponse, error) {
	f.refreshCalls = append(f.refreshCalls, refreshToken)
	return f.refreshResp, f.refreshErr
}

func (f *fakeAuthAPI) Me(_ context.Context, _ string) (*models.User, error) {
	f.meCalls++
	return f.me, f.meErr
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestManager(api AuthAPI) (*Manager, *MemoryStore, *clock) {
	clk := &clock{now: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	m := NewManager(api, store, logger.Nop(), Options{
		TTL:            24 * time.Hour,
		MeSyncInterval: 5 * time.Minute,
		RefreshSkew:    time.Minute,
		Now:            clk.Now,
	})
	return m, store, clk
}

func TestCreateUsesLoginPayload(t *testing.T) {
	api := &fakeAuthAPI{}
	m, store, clk := newTestManager(api)

	s, err := m.Create(context.Background(), &models.AuthResponse{
		AccessToken:  tokenFor(t, 3, "STUDENT", clk.now.Add(time.Hour)),
		RefreshToken: "r1",
		User:         &models.User{ID: 3, Role: "STUDENT", OnboardingCompleted: true},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 3, s.UserID)
	assert.True(t, s.OnboardingCompleted)
	assert.Equal(t, 0, api.meCalls)
	assert.Equal(t, 1, store.Len())
}

func TestCreateFetchesMeWhenUserMissing(t *testing.T) {
	api := &fakeAuthAPI{me: &models.User{ID: 9, Role: "STUDENT"}}
	m, _, clk := newTestManager(api)

	s, err := m.Create(context.Background(), &models.AuthResponse{Token: tokenFor(t, 0, "", clk.now.Add(time.Hour))})
	require.NoError(t, err)
	assert.Equal(t, 9, s.UserID)
	assert.Equal(t, 1, api.meCalls)
}

func TestCreateRejectsMalformedToken(t *testing.T) {
	m, _, _ := newTestManager(&fakeAuthAPI{})
	_, err := m.Create(context.Background(), &models.AuthResponse{AccessToken: "broken"})
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestLoadRotatesExpiringToken(t *testing.T) {
	api := &fakeAuthAPI{}
	m, store, clk := newTestManager(api)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.AuthResponse{
		AccessToken:  tokenFor(t, 3, "STUDENT", clk.now.Add(10*time.Minute)),
		RefreshToken: "r1",
		User:         &models.User{ID: 3, Role: "STUDENT"},
	})
	require.NoError(t, err)

	clk.now = clk.now.Add(9*time.Minute + 30*time.Second)
	fresh := tokenFor(t, 3, "STUDENT", clk.now.Add(time.Hour))
	api.refreshResp = &models.AuthResponse{AccessToken: fresh, RefreshToken: "r2"}
	api.me = &models.User{ID: 3, Role: "STUDENT"}

	loaded, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, api.refreshCalls)
	assert.Equal(t, fresh, loaded.AccessToken)
	assert.Equal(t, "r2", loaded.RefreshToken)

	stored, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh, stored.AccessToken)
}

func TestLoadDropsSessionWhenRefreshFails(t *testing.T) {
	api := &fakeAuthAPI{refreshErr: errors.New("invalid refresh token")}
	m, store, clk := newTestManager(api)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.AuthResponse{
		AccessToken:  tokenFor(t, 3, "STUDENT", clk.now.Add(time.Minute)),
		RefreshToken: "r1",
		User:         &models.User{ID: 3},
	})
	require.NoError(t, err)

	clk.now = clk.now.Add(2 * time.Minute)
	_, err = m.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 0, store.Len())
}

func TestLoadReconcilesOnboardingOnInterval(t *testing.T) {
	api := &fakeAuthAPI{}
	m, _, clk := newTestManager(api)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.AuthResponse{
		AccessToken: tokenFor(t, 3, "STUDENT", time.Time{}),
		User:        &models.User{ID: 3, OnboardingCompleted: false},
	})
	require.NoError(t, err)

	api.me = &models.User{ID: 3, OnboardingCompleted: true}

	clk.now = clk.now.Add(time.Minute)
	loaded, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, loaded.OnboardingCompleted)
	assert.Equal(t, 0, api.meCalls)

	clk.now = clk.now.Add(5 * time.Minute)
	loaded, err = m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, loaded.OnboardingCompleted)
	assert.Equal(t, 1, api.meCalls)
}

func TestLoadKeepsSessionWhenMeIsUnreachable(t *testing.T) {
	api := &fakeAuthAPI{}
	m, _, clk := newTestManager(api)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.AuthResponse{
		AccessToken: tokenFor(t, 3, "STUDENT", time.Time{}),
		User:        &models.User{ID: 3, OnboardingCompleted: true},
	})
	require.NoError(t, err)

	api.meErr = errors.New("connection refused")
	clk.now = clk.now.Add(time.Hour)
	loaded, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, loaded.OnboardingCompleted)
}

func TestLoadUnknownOrExpiredSession(t *testing.T) {
	api := &fakeAuthAPI{}
	m, _, clk := newTestManager(api)
	ctx := context.Background()

	_, err := m.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = m.Load(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	s, err := m.Create(ctx, &models.AuthResponse{
		AccessToken: tokenFor(t, 3, "STUDENT", time.Time{}),
		User:        &models.User{ID: 3},
	})
	require.NoError(t, err)
	clk.now = clk.now.Add(25 * time.Hour)
	_, err = m.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestReconcileOnboarding(t *testing.T) {
	api := &fakeAuthAPI{}
	m, store, _ := newTestManager(api)
	ctx := context.Background()

	s, err := m.Create(ctx, &models.AuthResponse{
		AccessToken: tokenFor(t, 3, "STUDENT", time.Time{}),
		User:        &models.User{ID: 3},
	})
	require.NoError(t, err)

	api.me = &models.User{ID: 3, OnboardingCompleted: true}
	done, err := m.ReconcileOnboarding(ctx, s)
	require.NoError(t, err)
	assert.True(t, done)

	stored, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, stored.OnboardingCompleted)

	api.me = nil
	_, err = m.ReconcileOnboarding(ctx, s)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// rotatingAuthAPI accepts each refresh token once, like the backend does.
type rotatingAuthAPI struct {
	t       *testing.T
	exp     time.Time
	mu      sync.Mutex
	valid   map[string]bool
	calls   int
	onSpend func()
}

func (f *rotatingAuthAPI) RefreshToken(_ context.Context, refreshToken string) (*models.AuthResponse, error) {
	f.mu.Lock()
	f.calls++
	ok := f.valid[refreshToken]
	delete(f.valid, refreshToken)
	next := fmt.Sprintf("r%d", f.calls+1)
	if ok {
		f.valid[next] = true
	}
	f.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	if f.onSpend != nil {
		f.onSpend()
	}
	if !ok {
		return nil, errors.New("refresh token already used")
	}
	return &models.AuthResponse{AccessToken: tokenFor(f.t, 3, "STUDENT", f.exp), RefreshToken: next}, nil
}

func (f *rotatingAuthAPI) Me(_ context.Context, _ string) (*models.User, error) {
	return &models.User{ID: 3, Role: "STUDENT"}, nil
}

func TestLoadConcurrentRefreshKeepsSession(t *testing.T) {
	api := &rotatingAuthAPI{t: t, valid: map[string]bool{"r1": true}}
	m, store, clk := newTestManager(api)
	ctx := context.Background()
	api.exp = clk.now.Add(time.Hour)

	require.NoError(t, store.Save(ctx, &models.Session{
		ID:              "s1",
		AccessToken:     tokenFor(t, 3, "STUDENT", clk.now.Add(-time.Minute)),
		RefreshToken:    "r1",
		UserID:          3,
		AccessExpiresAt: clk.now.Add(-time.Minute),
		MeCheckedAt:     clk.now,
		CreatedAt:       clk.now,
		UpdatedAt:       clk.now,
	}))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Load(ctx, "s1")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, api.calls)

	stored, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "r2", stored.RefreshToken)
	assert.False(t, IsExpired(stored.AccessToken, clk.now))
}

func TestLoadKeepsSessionRotatedElsewhere(t *testing.T) {
	api := &rotatingAuthAPI{t: t, valid: map[string]bool{}}
	m, store, clk := newTestManager(api)
	ctx := context.Background()
	api.exp = clk.now.Add(time.Hour)

	stale := &models.Session{
		ID:              "s1",
		AccessToken:     tokenFor(t, 3, "STUDENT", clk.now.Add(-time.Minute)),
		RefreshToken:    "r1",
		UserID:          3,
		AccessExpiresAt: clk.now.Add(-time.Minute),
		MeCheckedAt:     clk.now,
		CreatedAt:       clk.now,
		UpdatedAt:       clk.now,
	}
	require.NoError(t, store.Save(ctx, stale))

	// Another instance wins the race and stores the rotated pair.
	fresh := tokenFor(t, 3, "STUDENT", clk.now.Add(time.Hour))
	api.onSpend = func() {
		rotated := *stale
		rotated.AccessToken = fresh
		rotated.RefreshToken = "r9"
		rotated.AccessExpiresAt = clk.now.Add(time.Hour)
		_ = store.Save(ctx, &rotated)
	}

	loaded, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, fresh, loaded.AccessToken)
	assert.Equal(t, 1, store.Len())
}
