package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/trailgram/social-graph-service/pkg/response"
)

const (
	UserIDKey        = "user_id"
	IsAdminKey       = "is_admin"
	EmailVerifiedKey = "email_verified"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity claims issued by the external auth system.
// This service trusts them as-is once the signature checks out.
type Claims struct {
	jwt.RegisteredClaims
	UserID        uint64 `json:"user_id"`
	IsAdmin       bool   `json:"is_admin"`
	EmailVerified bool   `json:"email_verified"`
}

// AuthMiddleware validates identity tokens issued by the auth system.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new auth middleware using the shared
// token-signing secret.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

func (m *AuthMiddleware) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireAuth returns a Gin middleware that rejects requests without a valid
// identity token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		claims, err := m.parse(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(IsAdminKey, claims.IsAdmin)
		c.Set(EmailVerifiedKey, claims.EmailVerified)

		c.Next()
	}
}

// OptionalAuth returns a Gin middleware that attaches identity when a valid
// token is present and leaves the request anonymous otherwise. Endpoints
// behind it serve public content to anonymous viewers.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if strings.HasPrefix(authHeader, BearerPrefix) {
			if claims, err := m.parse(strings.TrimPrefix(authHeader, BearerPrefix)); err == nil {
				c.Set(UserIDKey, claims.UserID)
				c.Set(IsAdminKey, claims.IsAdmin)
				c.Set(EmailVerifiedKey, claims.EmailVerified)
			}
		}
		c.Next()
	}
}

// GetUserID extracts the caller's user ID from Gin context.
// Returns 0 for anonymous requests.
func GetUserID(c *gin.Context) uint64 {
	if id, exists := c.Get(UserIDKey); exists {
		return id.(uint64)
	}
	return 0
}

// IsAdmin reports whether the caller has the admin flag.
func IsAdmin(c *gin.Context) bool {
	if v, exists := c.Get(IsAdminKey); exists {
		return v.(bool)
	}
	return false
}

// IsEmailVerified reports whether the caller's email is verified.
func IsEmailVerified(c *gin.Context) bool {
	if v, exists := c.Get(EmailVerifiedKey); exists {
		return v.(bool)
	}
	return false
}
