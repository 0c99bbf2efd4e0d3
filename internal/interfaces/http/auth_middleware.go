package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
)

// Locals keys para la identidad en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalSessionID = "session_id"
)

// AuthCookie cookie httpOnly con el token de sesión.
const AuthCookie = "auth-token"

// SessionValidator resuelve un token a una identidad (lo implementa *auth.AuthUseCase).
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*auth.AuthUser, error)
}

// AuthMiddleware toma el token del header Bearer o de la cookie auth-token, valida la
// sesión y carga user_id, role y session_id en c.Locals.
func AuthMiddleware(v SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := tokenFromRequest(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token requerido"})
		}
		user, err := v.ValidateSession(c.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sesión expirada, inicie sesión nuevamente"})
			}
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			return respondError(c, err)
		}
		c.Locals(LocalUserID, user.UserID)
		c.Locals(LocalRole, user.Role)
		c.Locals(LocalSessionID, user.SessionID)
		return c.Next()
	}
}

// tokenFromRequest prioriza el header Authorization; ok=false si el header está mal formado.
func tokenFromRequest(c *fiber.Ctx) (string, bool) {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	return c.Cookies(AuthCookie), true
}

// RequireRole autoriza solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetSessionID devuelve el id de sesión (jti) del contexto.
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionID).(string)
	return s
}
