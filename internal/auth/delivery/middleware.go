package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	authdomain "fitai-backend/internal/auth/domain"
	"fitai-backend/internal/auth/usecase"
)

const identityKey = "identity"

func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Browsers cannot set headers on websocket upgrades
			if t := c.Query("access_token"); t != "" && c.IsWebsocket() {
				authHeader = "Bearer " + t
			}
		}
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		identity, err := authUsecase.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("userID", identity.UID)
		c.Next()
	}
}

// CurrentIdentity returns the identity set by AuthMiddleware
func CurrentIdentity(c *gin.Context) authdomain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*authdomain.Identity); ok {
			return *id
		}
	}
	return authdomain.Identity{UID: c.GetString("userID")}
}

// APIKeyMiddleware guards admin routes with a key compared against a bcrypt hash
func APIKeyMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if keyHash == "" || key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "api key required"})
			c.Abort()
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
