package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nagacare/health-admin-api/internal/application/auth"
	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/pkg/logger"
)

// CookieConfig session cookie attributes.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles login, logout and the current principal.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieConfig
	log    *logger.Logger
}

// NewAuthHandler builds the handler.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie, log: log}
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if h.cookie.Name != "" {
		c.Cookie(&fiber.Cookie{
			Name:     h.cookie.Name,
			Value:    out.Token,
			Path:     "/",
			Expires:  out.ExpiresAt,
			HTTPOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Log out
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.Context(), GetSessionToken(c)); err != nil {
		return writeError(c, h.log, err)
	}
	if h.cookie.Name != "" {
		clearSessionCookie(c, h.cookie.Name)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Current session
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.PrincipalResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(GetPrincipal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
