package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"process-report/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("wrong password")

// AuthService guards the workspace with one operator password. There are no
// user accounts; a successful login yields a signed session token.
type AuthService struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		// tokens then last only as long as the process
		secret = make([]byte, 32)
		rand.Read(secret)
	}
	return &AuthService{hash: []byte(cfg.PasswordHash), secret: secret, ttl: ttl, now: time.Now}
}

func (s *AuthService) Enabled() bool { return len(s.hash) > 0 }

func (s *AuthService) Secret() []byte { return s.secret }

func (s *AuthService) TTL() time.Duration { return s.ttl }

func (s *AuthService) Login(password string) (string, error) {
	if bcrypt.CompareHashAndPassword(s.hash, []byte(password)) != nil {
		return "", ErrWrongPassword
	}
	return s.Issue()
}

// Issue signs a fresh operator token.
func (s *AuthService) Issue() (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": s.now().Add(s.ttl).Unix(),
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// HashPassword produces a value suitable for auth.password_hash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
