package middleware

import (
	"errors"
	"strings"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxIdentityKey = "identity"

// AuthMiddleware attaches the identity vouched for by a bearer token.
// Requests without a token continue as guests; a token that fails
// verification is rejected.
type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return c.Next()
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxIdentityKey, claims.Identity())
		return c.Next()
	}
}

// RequireIdentity rejects guests.
func RequireIdentity() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !IdentityFrom(c).Valid() {
			return NewAppError(fiber.StatusUnauthorized, "You must be signed in.", nil, nil)
		}
		return c.Next()
	}
}

// IdentityFrom returns the request identity, zero for guests.
func IdentityFrom(c fiber.Ctx) user.Identity {
	id, _ := c.Locals(CtxIdentityKey).(user.Identity)
	return id
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
