package handlers

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/logger"
	"codelegends_gateway/middleware"
	"codelegends_gateway/models"
	"codelegends_gateway/session"
)

type AuthHandler struct {
	api          *apiclient.Client
	sessions     *session.Manager
	log          *logger.Logger
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewAuthHandler(api *apiclient.Client, sessions *session.Manager, log *logger.Logger, sessionTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		api:          api,
		sessions:     sessions,
		log:          log.With("handler", "AuthHandler"),
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	h.setCookie(c, name, "", -1)
}

// HubLogin authenticates a content hub user. Students are rejected and any
// token they already hold is cleared.
func (h *AuthHandler) HubLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.api.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	token := resp.Access()
	claims, err := session.DecodeClaims(token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	role := strings.ToUpper(claims.Role)
	if role == "" && resp.User != nil {
		role = strings.ToUpper(resp.User.Role)
	}
	if !session.IsStaff(role) {
		h.clearCookie(c, middleware.HubCookie)
		h.log.Info("hub login rejected", "user_id", claims.UserID, "role", role)
		c.JSON(http.StatusForbidden, gin.H{"error": "Acesso restrito a instrutores e administradores"})
		return
	}

	now := time.Now()
	if session.IsExpired(token, now) {
		h.clearCookie(c, middleware.HubCookie)
		h.log.Warn("hub login returned an expired token", "user_id", claims.UserID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sessão expirada, faça login novamente"})
		return
	}

	// Rounded up so a sub-second lifetime does not become MaxAge 0.
	maxAge := 0
	if exp := session.ExpiresAt(token); !exp.IsZero() {
		maxAge = int(math.Ceil(exp.Sub(now).Seconds()))
	}
	h.setCookie(c, middleware.HubCookie, token, maxAge)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  role,
		"user":  resp.User,
	})
}

func (h *AuthHandler) HubLogout(c *gin.Context) {
	h.clearCookie(c, middleware.HubCookie)
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.api.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.startSession(c, resp)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.api.LoginGoogle(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.startSession(c, resp)
}

func (h *AuthHandler) startSession(c *gin.Context, resp *models.AuthResponse) {
	s, err := h.sessions.Create(c.Request.Context(), resp)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setCookie(c, middleware.SessionCookie, s.ID, int(h.sessionTTL.Seconds()))

	redirect := "/learn"
	if !s.OnboardingCompleted {
		redirect = "/onboarding"
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":              s.UserID,
		"role":                s.Role,
		"onboardingCompleted": s.OnboardingCompleted,
		"redirect":            redirect,
		"user":                resp.User,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.sessions.Destroy(c.Request.Context(), id); err != nil {
			h.log.Warn("destroy session", "session_id", id, "error", err)
		}
	}
	h.clearCookie(c, middleware.SessionCookie)
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado"})
}

// Me returns the backend's view of the current learner.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.api.Me(c.Request.Context(), middleware.Token(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if user == nil {
		if s := middleware.CurrentSession(c); s != nil {
			_ = h.sessions.Destroy(c.Request.Context(), s.ID)
		}
		h.clearCookie(c, middleware.SessionCookie)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}
