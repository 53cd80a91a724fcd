package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"trustlend.backend/internal/interfaces/http/response"
	"trustlend.backend/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// CallerAddressKey is the context key for the caller's EVM address
	CallerAddressKey = "callerAddress"
	// CallerRoleKey is the context key for the caller's role
	CallerRoleKey = "callerRole"
)

// AuthMiddleware validates the bearer token and stores the caller's
// address and role in the request context.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "authorization header is required")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "token has expired"
			}
			response.ErrorWithStatus(c, http.StatusUnauthorized, message)
			c.Abort()
			return
		}

		c.Set(CallerAddressKey, claims.Address)
		c.Set(CallerRoleKey, claims.Role)

		c.Next()
	}
}

// GetCallerAddress gets the authenticated caller's address from context
func GetCallerAddress(c *gin.Context) (string, bool) {
	address, exists := c.Get(CallerAddressKey)
	if !exists {
		return "", false
	}
	return address.(string), true
}

// GetCallerRole gets the authenticated caller's role from context
func GetCallerRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(CallerRoleKey)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// RequireRole creates a middleware that admits only the listed roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole, exists := GetCallerRole(c)
		if !exists {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "caller role not found")
			c.Abort()
			return
		}

		for _, role := range roles {
			if callerRole == role {
				c.Next()
				return
			}
		}

		response.ErrorWithStatus(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}
