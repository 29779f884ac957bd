package middleware

import (
	"net/http"
	"strings"
	"time"

	"process-report/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie carries the operator token for browser pages.
const TokenCookie = "token"

// JWTAuth admits requests carrying a valid operator token in the
// Authorization header or the token cookie. It does nothing when the gate is
// disabled. Rejected requests get 401, or a redirect when loginPath is set.
func JWTAuth(auth *service.AuthService, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Enabled() {
			c.Next()
			return
		}

		raw := bearer(c)
		if raw == "" {
			reject(c, loginPath, "unauthorized")
			return
		}
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return auth.Secret(), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			reject(c, loginPath, "invalid token")
			return
		}

		// renew when less than a day is left
		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
			if time.Until(exp.Time) < 24*time.Hour {
				if fresh, err := auth.Issue(); err == nil {
					c.Header("X-New-Token", fresh)
				}
			}
		}

		c.Next()
	}
}

func bearer(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return h[7:]
	}
	if v, err := c.Cookie(TokenCookie); err == nil {
		return v
	}
	return ""
}

func reject(c *gin.Context, loginPath, msg string) {
	if loginPath != "" {
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
