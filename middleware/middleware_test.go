package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelegends_gateway/logger"
	"codelegends_gateway/models"
	"codelegends_gateway/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func mint(t *testing.T, userID int, role string, exp time.Time) string {
	t.Helper()
	claims := models.Claims{UserID: userID, Role: role}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return s
}

type fakeAuthAPI struct {
	me *models.User
}

func (f *fakeAuthAPI) RefreshToken(context.Context, string) (*models.AuthResponse, error) {
	return nil, assert.AnError
}

func (f *fakeAuthAPI) Me(context.Context, string) (*models.User, error) { return f.me, nil }

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	origins := []string{"http://localhost:3000", "https://hub.codelegends.com.br"}
	for _, origin := range origins {
		t.Run(origin, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(origins))
			r.OPTIONS("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

			req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func staffRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequireStaff(logger.Nop()))
	r.GET("/hub/courses", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": UserID(c), "role": Role(c), "token": Token(c)})
	})
	return r
}

func TestRequireStaff(t *testing.T) {
	future := time.Now().Add(time.Hour)
	admin := mint(t, 1, "admin", future)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"malformed", "Bearer not-a-jwt", "", http.StatusUnauthorized},
		{"expired", "Bearer " + mint(t, 1, "ADMIN", time.Now().Add(-time.Minute)), "", http.StatusUnauthorized},
		{"student", "Bearer " + mint(t, 2, "STUDENT", future), "", http.StatusForbidden},
		{"admin header", "Bearer " + admin, "", http.StatusOK},
		{"instructor cookie", "", mint(t, 3, "INSTRUCTOR", future), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/hub/courses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: HubCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			staffRouter().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/hub/courses", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	staffRouter().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["userID"])
	assert.Equal(t, "ADMIN", body["role"])
	assert.Equal(t, admin, body["token"])
}

func learnerRouter(t *testing.T, api *fakeAuthAPI, onboarded bool) (*gin.Engine, string) {
	t.Helper()
	store := session.NewMemoryStore()
	mgr := session.NewManager(api, store, logger.Nop(), session.Options{MeSyncInterval: time.Hour})
	now := time.Now()
	s := &models.Session{
		ID:                  "sess-1",
		AccessToken:         mint(t, 9, "STUDENT", now.Add(time.Hour)),
		UserID:              9,
		Role:                "STUDENT",
		OnboardingCompleted: onboarded,
		AccessExpiresAt:     now.Add(time.Hour),
		MeCheckedAt:         now,
		CreatedAt:           now,
	}
	require.NoError(t, store.Save(context.Background(), s))

	r := gin.New()
	r.Use(RequireSession(mgr, logger.Nop()))
	r.GET("/api/me", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"userID": UserID(c)}) })
	r.GET("/api/learn", RequireOnboarding(mgr, logger.Nop()), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, s.ID
}

func get(r http.Handler, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireSession(t *testing.T) {
	r, id := learnerRouter(t, &fakeAuthAPI{}, true)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/me", "unknown").Code)

	rec := get(r, "/api/me", id)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userID":9}`, rec.Body.String())
}

func TestRequireOnboardingRedirects(t *testing.T) {
	api := &fakeAuthAPI{me: &models.User{ID: 9, Role: "STUDENT", OnboardingCompleted: false}}
	r, id := learnerRouter(t, api, false)

	rec := get(r, "/api/learn", id)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/onboarding", body["redirect"])
}

func TestRequireOnboardingRechecksStaleFlag(t *testing.T) {
	api := &fakeAuthAPI{me: &models.User{ID: 9, Role: "STUDENT", OnboardingCompleted: true}}
	r, id := learnerRouter(t, api, false)

	assert.Equal(t, http.StatusOK, get(r, "/api/learn", id).Code)
}

func TestAttachRequestID(t *testing.T) {
	r := gin.New()
	r.Use(AttachRequestID())
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	assert.Equal(t, rec.Header().Get(headerRequestID), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "abc")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())
}
