package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roomsense/hub/internal/errors"
)

// AuthConfig carries the token verification parameters.
type AuthConfig struct {
	JWTSecret string
}

// AuthMiddleware validates bearer tokens issued by the hub's login
// endpoint and attaches the caller's identity to the request context.
type AuthMiddleware struct {
	secret []byte
}

// UserContext describes the authenticated caller.
type UserContext struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type contextKey string

const userContextKey contextKey = "user"

// NewAuthMiddleware creates the middleware for the given config.
func NewAuthMiddleware(config AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(config.JWTSecret)}
}

// Authenticate validates the token and adds user info to context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		user, err := m.verify(token)
		if err != nil {
			handleError(w, errors.NewAuthError("invalid token", err))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles middleware ensures user has one of the required roles
func (m *AuthMiddleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				handleError(w, errors.NewAuthError("no user context found", nil))
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			handleError(w, errors.NewAuthorizationError("insufficient role", nil))
		})
	}
}

// UserFromContext extracts the authenticated caller, if any.
func UserFromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

func (m *AuthMiddleware) verify(raw string) (*UserContext, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	user := &UserContext{}
	if sub, ok := claims["sub"].(float64); ok {
		user.ID = int64(sub)
	}
	if username, ok := claims["username"].(string); ok {
		user.Username = username
	}
	if role, ok := claims["role"].(string); ok {
		user.Role = role
	}
	return user, nil
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
