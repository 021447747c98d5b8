package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// Locals keys set by AuthMiddleware.
const (
	LocalPrincipal    = "principal"
	LocalSessionToken = "session_token"
)

// SessionResolver turns a session token into a principal, or nil when the token is not usable.
// Implemented by *session.Provider.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) *entity.Principal
}

// AuthMiddleware resolves the session token from the Authorization header (Bearer) or
// the session cookie and stores the principal in c.Locals. Any failure answers 401 with
// the same body and clears the cookie.
func AuthMiddleware(resolver SessionResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c, cookieName)
		if token == "" {
			return unauthenticated(c, cookieName)
		}
		p := resolver.Resolve(c.Context(), token)
		if p == nil {
			return unauthenticated(c, cookieName)
		}
		c.Locals(LocalPrincipal, p)
		c.Locals(LocalSessionToken, token)
		return c.Next()
	}
}

// RequireRole lets the request through only when the principal holds one of roles.
// Must run after AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"})
		}
		if _, ok := allowed[p.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
		}
		return c.Next()
	}
}

// GetPrincipal returns the caller resolved by AuthMiddleware, or nil.
func GetPrincipal(c *fiber.Ctx) *entity.Principal {
	p, _ := c.Locals(LocalPrincipal).(*entity.Principal)
	return p
}

// GetSessionToken returns the token the request authenticated with.
func GetSessionToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionToken).(string)
	return s
}

func sessionToken(c *fiber.Ctx, cookieName string) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	return strings.TrimSpace(c.Cookies(cookieName))
}

func unauthenticated(c *fiber.Ctx, cookieName string) error {
	if cookieName != "" && c.Cookies(cookieName) != "" {
		clearSessionCookie(c, cookieName)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"})
}

func clearSessionCookie(c *fiber.Ctx, cookieName string) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
