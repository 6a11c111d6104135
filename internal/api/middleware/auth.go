package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// UserIDKey is the gin context key holding the authenticated user's id.
const UserIDKey = "user_id"

// Auth verifies an HS256 Bearer token issued by the external auth provider.
// Token issuance and refresh stay with the provider; only the signature and
// expiry are checked here.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth if no secret configured
		if secret == "" {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		if uid := userIDClaim(claims); uid != "" {
			c.Set(UserIDKey, uid)
		}

		c.Next()
	}
}

func userIDClaim(claims jwt.MapClaims) string {
	for _, key := range []string{"sub", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
