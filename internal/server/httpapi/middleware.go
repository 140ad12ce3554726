package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avilov/authgate/internal/server/auth"
)

// claimsKey is the gin context key the bearer middleware stores verified
// claims under.
const claimsKey = "authgate/claims"

// TokenVerifier verifies a bearer token string. The interface is defined
// here, on the consumer side.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// BearerAuth returns middleware that requires a valid bearer token. Missing,
// malformed, tampered, and expired tokens all produce the same 401 body so
// the response cannot be used to probe which check failed.
func BearerAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{
				Success: false,
				Message: "access token required",
			})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{
				Success: false,
				Message: "invalid or expired token",
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) *auth.Claims {
	v, _ := c.Get(claimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}

// SecurityHeaders sets the browser-facing hardening headers on every
// response.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Next()
	}
}
