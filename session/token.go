package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"codelegends_gateway/models"
)

var ErrMalformedToken = errors.New("malformed token")

var parser = jwt.NewParser()

// DecodeClaims reads the token payload without verifying the signature. The
// backend issues and verifies tokens; the gateway only needs expiry and role.
func DecodeClaims(token string) (*models.Claims, error) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return nil, ErrMalformedToken
	}
	claims := &models.Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.UserID == 0 && claims.Subject != "" {
		if id, err := strconv.Atoi(claims.Subject); err == nil {
			claims.UserID = id
		}
	}
	return claims, nil
}

// IsExpired reports whether token is unusable at now. Malformed tokens are
// expired; tokens without an exp claim never expire.
func IsExpired(token string, now time.Time) bool {
	claims, err := DecodeClaims(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// ExpiresAt returns the exp claim, or the zero time when absent.
func ExpiresAt(token string) time.Time {
	claims, err := DecodeClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

func Role(token string) string {
	claims, err := DecodeClaims(token)
	if err != nil {
		return ""
	}
	return strings.ToUpper(claims.Role)
}

// IsStaff reports whether role may enter the content hub.
func IsStaff(role string) bool {
	switch strings.ToUpper(role) {
	case models.RoleAdmin, models.RoleInstructor:
		return true
	default:
		return false
	}
}
