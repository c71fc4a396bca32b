package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelegends_gateway/models"
)

func TestInspectToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := models.Claims{UserID: 3, Role: "instructor"}
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	out, err := inspectToken(token, now)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "INSTRUCTOR", report["role"])
	assert.Equal(t, true, report["staff"])
	assert.Equal(t, true, report["expired"])
	assert.Equal(t, "2026-03-01T11:59:00Z", report["expiresAt"])

	_, err = inspectToken("nope", now)
	assert.Error(t, err)
}

func TestSlugCommand(t *testing.T) {
	var buf bytes.Buffer
	slugCmd.SetOut(&buf)
	slugCmd.Run(slugCmd, []string{"Introdução", "ao", "Go"})
	assert.Equal(t, "introducao-ao-go\n", buf.String())
}
