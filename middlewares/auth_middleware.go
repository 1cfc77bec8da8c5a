package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/catering-app/services"
	"github.com/yeremiapane/catering-app/utils"
)

const (
	ctxIdentity = "identity"
	ctxToken    = "token"
	ctxClaims   = "claims"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity in the context.
func AuthMiddleware(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header must use the Bearer scheme"))
			c.Abort()
			return
		}

		if !authenticate(c, tokens, strings.TrimSpace(tokenString)) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *utils.JWTManager, tokenString string) bool {
	claims, err := tokens.ParseToken(tokenString)
	if err != nil {
		return false
	}
	SetIdentity(c, services.Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
	c.Set(ctxToken, tokenString)
	c.Set(ctxClaims, claims)
	return true
}

// SetIdentity stores id as the authenticated caller.
func SetIdentity(c *gin.Context, id services.Identity) {
	c.Set(ctxIdentity, id)
}

// CurrentIdentity returns the caller set by the auth middleware, or the zero
// Identity for anonymous requests.
func CurrentIdentity(c *gin.Context) services.Identity {
	if v, ok := c.Get(ctxIdentity); ok {
		if id, ok := v.(services.Identity); ok {
			return id
		}
	}
	return services.Identity{}
}

// CurrentToken returns the raw bearer token and its claims.
func CurrentToken(c *gin.Context) (string, *utils.CustomClaims) {
	token := c.GetString(ctxToken)
	claims, _ := c.Get(ctxClaims)
	cc, _ := claims.(*utils.CustomClaims)
	return token, cc
}
