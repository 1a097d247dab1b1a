package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dms/backend/internal/infrastructure/auth"
	"github.com/dms/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	ContextKeyUserID      = "user_id"
	ContextKeyUsername    = "username"
	ContextKeyPermissions = "permissions"
)

// JWTConfig configures the JWT authentication middleware
type JWTConfig struct {
	Service *auth.JWTService
	Logger  *zap.Logger

	// SkipPaths are exact request paths that bypass authentication
	SkipPaths []string
}

// JWTAuth validates the bearer token on every request and stores the
// authenticated identity in the gin context
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed Authorization header")
			return
		}

		claims, err := cfg.Service.ValidateToken(token)
		if err != nil {
			logger.Debug("token validation failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", RequestIDFromContext(c)),
				zap.Error(err))
			code, message := authErrorCode(err)
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyPermissions, claims.Permissions)
		c.Next()
	}
}

// RequirePermission rejects requests whose token lacks the given permission.
// Must run after JWTAuth.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions, _ := c.Get(ContextKeyPermissions)
		granted, _ := permissions.([]string)
		for _, p := range granted {
			if p == permission || p == "*" {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
				"Insufficient permissions", nil, RequestIDFromContext(c)))
	}
}

// UserIDFromContext returns the authenticated user id, or ""
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "TOKEN_INVALID", "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		return "TOKEN_INVALID", "Token claims are not valid"
	default:
		return "TOKEN_INVALID", "Token is not valid"
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, nil, RequestIDFromContext(c)))
}
