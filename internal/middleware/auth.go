// Package middleware provides the gin middleware chain: bearer-token
// authentication, request logging, request ids, metrics, and CORS.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/auth"
)

const (
	// userIDKey is the gin context key the authenticated user id is stored
	// under.
	userIDKey = "user_id"

	// TokenCookie is the cookie name the original browser clients send the
	// session token in; accepted as a fallback to the Authorization header.
	TokenCookie = "tasket-token"
)

// UserID returns the authenticated user id set by RequireAuth, or empty.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// RequireAuth extracts the bearer credential, verifies it, and stores the
// owning user id on the request context. An absent credential aborts with
// its own message so clients can tell "no token" from "bad token".
func RequireAuth(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticator.Authenticate(rawToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": []string{err.Error()}})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// rawToken pulls the credential from the Authorization header, falling
// back to the session cookie. Returns empty when neither is supplied.
func rawToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}
