package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hndang/servihub-backend/internal/errors"
	"github.com/hndang/servihub-backend/pkg/util"
)

// AccessTokenCookie is the http-only cookie the login endpoint sets.
const AccessTokenCookie = "access_token"

// Context keys for the authenticated principal
const (
	PrincipalIDKey       = "principal_id"
	PrincipalUsernameKey = "principal_username"
	PrincipalKindKey     = "principal_kind"
	PrincipalRoleKey     = "principal_role"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// extractToken reads the session cookie first, then falls back to a
// bearer Authorization header.
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// Authenticate requires a valid token. A missing token is distinct from
// an unverifiable one: the former is "not logged in", the latter a bad
// or expired credential.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token := extractToken(c)
		if token == "" {
			log.Warn("Missing access token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid access token")
			}
			c.Abort()
			return
		}

		c.Set(PrincipalIDKey, claims.UserID)
		c.Set(PrincipalUsernameKey, claims.Username)
		c.Set(PrincipalKindKey, claims.Kind)
		c.Set(PrincipalRoleKey, claims.Role)

		log.Debug("Request authenticated", map[string]interface{}{
			"principal_id": claims.UserID,
			"username":     claims.Username,
			"kind":         claims.Kind,
		})

		c.Next()
	}
}

// RequireAdmin allows only administrator principals past Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, exists := GetPrincipalKind(c)
		if !exists || kind != util.PrincipalAdmin {
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "Administrator access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipalID extracts the principal id from context
func GetPrincipalID(c *gin.Context) (uint, bool) {
	id, exists := c.Get(PrincipalIDKey)
	if !exists {
		return 0, false
	}
	return id.(uint), true
}

// GetPrincipalUsername extracts the principal username from context
func GetPrincipalUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(PrincipalUsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetPrincipalKind extracts the principal kind from context
func GetPrincipalKind(c *gin.Context) (string, bool) {
	kind, exists := c.Get(PrincipalKindKey)
	if !exists {
		return "", false
	}
	return kind.(string), true
}
