package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/logger"
	"codelegends_gateway/models"
	"codelegends_gateway/session"
)

const (
	// HubCookie holds the content hub's bearer token.
	HubCookie = "auth_token"
	// SessionCookie holds the learner's session id.
	SessionCookie = "cl_session"

	keyToken   = "token"
	keyUserID  = "userID"
	keyRole    = "role"
	keySession = "session"
)

// Token returns the backend bearer token attached by RequireStaff or
// RequireSession.
func Token(c *gin.Context) string { return c.GetString(keyToken) }

func UserID(c *gin.Context) int { return c.GetInt(keyUserID) }

func Role(c *gin.Context) string { return c.GetString(keyRole) }

// CurrentSession returns the learner session attached by RequireSession.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(keySession)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}

func bearerToken(c *gin.Context) string {
	if v, err := c.Cookie(HubCookie); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireStaff guards the content hub. The token is read from the auth_token
// cookie or an Authorization header; students are turned away.
func RequireStaff(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		claims, err := session.DecodeClaims(token)
		if err != nil || session.IsExpired(token, time.Now()) {
			log.Debug("hub token rejected", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		role := strings.ToUpper(claims.Role)
		if !session.IsStaff(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso restrito a instrutores e administradores"})
			return
		}

		c.Set(keyToken, token)
		c.Set(keyUserID, claims.UserID)
		c.Set(keyRole, role)
		c.Next()
	}
}

// RequireSession loads the learner session named by the session cookie,
// refreshing its token when needed.
func RequireSession(mgr *session.Manager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		s, err := mgr.Load(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrUnauthenticated) {
				log.Error("load session", "session_id", id, "error", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(keySession, s)
		c.Set(keyToken, s.AccessToken)
		c.Set(keyUserID, s.UserID)
		c.Set(keyRole, strings.ToUpper(s.Role))
		c.Next()
	}
}

// RequireOnboarding sends learners who have not finished onboarding to
// /onboarding. A stale session flag is rechecked against /me first.
func RequireOnboarding(mgr *session.Manager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if s.OnboardingCompleted {
			c.Next()
			return
		}

		done, err := mgr.ReconcileOnboarding(c.Request.Context(), s)
		if errors.Is(err, session.ErrUnauthenticated) {
			_ = mgr.Destroy(c.Request.Context(), s.ID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if err != nil {
			log.Warn("onboarding recheck failed", "session_id", s.ID, "error", err)
		}
		if !done {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Onboarding pendente", "redirect": "/onboarding"})
			return
		}
		c.Next()
	}
}
