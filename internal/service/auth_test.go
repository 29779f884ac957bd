package service

import (
	"testing"
	"time"

	"process-report/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceLogin(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	s := NewAuthService(config.AuthConfig{PasswordHash: hash, JWTSecret: "k", TokenTTL: time.Hour})
	require.True(t, s.Enabled())

	_, err = s.Login("nope")
	assert.ErrorIs(t, err, ErrWrongPassword)

	token, err := s.Login("s3cret")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil })
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "operator", sub)
}

func TestAuthServiceDisabledWithoutHash(t *testing.T) {
	assert.False(t, NewAuthService(config.AuthConfig{}).Enabled())
}
