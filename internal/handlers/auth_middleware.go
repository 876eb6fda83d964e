package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
)

const principalKey = "principal"

// Token extraction defaults, overridable per deployment
const (
	defaultTokenHeader = "Authorization"
	defaultTokenPrefix = "Bearer "
)

// AuthMiddleware validates bearer tokens and resolves the caller into
// a models.Principal for the handlers.
type AuthMiddleware struct {
	verifier utils.TokenVerifier
	logger   utils.Logger
	header   string
	prefix   string
}

// NewAuthMiddleware builds the middleware; empty header or prefix
// select the Authorization/Bearer defaults.
func NewAuthMiddleware(verifier utils.TokenVerifier, logger utils.Logger, header, prefix string) *AuthMiddleware {
	if header == "" {
		header = defaultTokenHeader
	}
	if prefix == "" {
		prefix = defaultTokenPrefix
	}
	return &AuthMiddleware{verifier: verifier, logger: logger, header: header, prefix: prefix}
}

// RequireAuth rejects requests without a valid bearer token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			utils.FromContext(c, m.logger).Warn("Rejected bearer token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(principalKey, models.Authenticated(claims.UserID, claims.Username, claims.Email, claims.Roles))
		c.Next()
	}
}

// OptionalAuth resolves a principal when a token is present but lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.bearerToken(c)
		if !ok {
			c.Set(principalKey, models.Anonymous())
			c.Next()
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			c.Set(principalKey, models.Anonymous())
			c.Next()
			return
		}

		c.Set(principalKey, models.Authenticated(claims.UserID, claims.Username, claims.Email, claims.Roles))
		c.Next()
	}
}

func (m *AuthMiddleware) bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(m.header)
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, m.prefix)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// currentPrincipal returns the caller set by the auth middleware,
// falling back to anonymous on public routes.
func currentPrincipal(c *gin.Context) models.Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return models.Anonymous()
	}
	p, ok := v.(models.Principal)
	if !ok {
		return models.Anonymous()
	}
	return p
}
