package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelegends_gateway/models"
)

func mint(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func tokenFor(t *testing.T, userID int, role string, exp time.Time) string {
	c := &models.Claims{UserID: userID, Role: role}
	if !exp.IsZero() {
		c.ExpiresAt = jwt.NewNumericDate(exp)
	}
	return mint(t, c)
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"exp in the past", tokenFor(t, 1, "ADMIN", now.Add(-time.Minute)), true},
		{"exp equals now", tokenFor(t, 1, "ADMIN", now), true},
		{"exp in the future", tokenFor(t, 1, "ADMIN", now.Add(time.Hour)), false},
		{"no exp claim", tokenFor(t, 1, "ADMIN", time.Time{}), false},
		{"two segments", "abc.def", true},
		{"four segments", "a.b.c.d", true},
		{"empty", "", true},
		{"garbage payload", "eyJhbGciOiJIUzI1NiJ9.@@@.sig", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(tt.token, now))
		})
	}
}

func TestDecodeClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := DecodeClaims(tokenFor(t, 7, "INSTRUCTOR", exp))
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "INSTRUCTOR", claims.Role)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))

	_, err = DecodeClaims("not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecodeClaimsReadsSubject(t *testing.T) {
	tok := mint(t, &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "15"}})
	claims, err := DecodeClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, 15, claims.UserID)
}

func TestRoleHelpers(t *testing.T) {
	assert.Equal(t, "STUDENT", Role(tokenFor(t, 1, "student", time.Time{})))
	assert.Equal(t, "", Role("junk"))

	assert.True(t, IsStaff("ADMIN"))
	assert.True(t, IsStaff("instructor"))
	assert.False(t, IsStaff("STUDENT"))
	assert.False(t, IsStaff(""))
	assert.True(t, ExpiresAt("junk").IsZero())
}
