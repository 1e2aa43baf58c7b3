// middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"campusconnect/models"
	"campusconnect/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware requires a valid "Authorization: Bearer <idToken>"
// header and stores the caller's identity on the context.
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil || token == nil || token.UID == "" {
			zap.L().Debug("rejected ID token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(utils.ContextUserKey, identityFromToken(token))
		c.Next()
	}
}

// CurrentIdentity returns the identity set by FirebaseAuthMiddleware.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(utils.ContextUserKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

func identityFromToken(token *auth.Token) models.Identity {
	return models.Identity{
		UID:         token.UID,
		DisplayName: claimString(token.Claims, "name"),
		Email:       claimString(token.Claims, "email"),
		PhotoURL:    claimString(token.Claims, "picture"),
	}
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
