package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is what the backend returns from /users/auth, /users/auth/google
// and /token/refresh. Older endpoints answer with "token" instead of "accessToken".
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

func (r *AuthResponse) Access() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// Claims is the payload of a backend-issued token. The gateway never verifies
// the signature; it only reads these fields.
type Claims struct {
	UserID              int    `json:"id,omitempty"`
	Email               string `json:"email,omitempty"`
	Role                string `json:"role,omitempty"`
	OnboardingCompleted *bool  `json:"onboardingCompleted,omitempty"`
	jwt.RegisteredClaims
}
