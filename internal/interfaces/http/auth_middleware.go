package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/pkg/jwt"
)

// Locals keys para la identidad del request en Fiber.
const (
	LocalUserID   = "user_id"
	LocalRole     = "role"
	LocalCenterID = "collection_center_id"
	LocalActor    = "actor"
)

// ActorResolver carga la identidad vigente del usuario autenticado.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (entity.Actor, error)
}

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, Role y centro a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalCenterID, claims.CollectionCenterID)
		return c.Next()
	}
}

// LoadActor reemplaza la identidad del token por la vigente en la base de datos.
// Va después de AuthMiddleware; un cambio de rol o de centro rige desde la siguiente petición.
func LoadActor(resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := resolver.ResolveActor(c.UserContext(), GetUserID(c))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthorized):
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario inexistente"})
			case errors.Is(err, domain.ErrForbidden):
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
			default:
				return writeError(c, err)
			}
		}
		c.Locals(LocalActor, actor)
		c.Locals(LocalRole, actor.Role)
		center := ""
		if actor.CollectionCenterID != nil {
			center = *actor.CollectionCenterID
		}
		c.Locals(LocalCenterID, center)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados.
// Sin rol → 401 MISSING_ROLE; rol fuera del catálogo → 403 UNKNOWN_ROLE; rol no permitido → 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !entity.IsKnownRole(role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "UNKNOWN_ROLE", Message: "rol desconocido: " + role})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetCenterID devuelve el centro de acopio del contexto, o "".
func GetCenterID(c *fiber.Ctx) string {
	return localString(c, LocalCenterID)
}

// GetActor devuelve el actor cargado por LoadActor; sin él, el que describe el token.
func GetActor(c *fiber.Ctx) entity.Actor {
	if a, ok := c.Locals(LocalActor).(entity.Actor); ok {
		return a
	}
	actor := entity.Actor{ID: GetUserID(c), Role: GetRole(c)}
	if center := GetCenterID(c); center != "" {
		actor.CollectionCenterID = &center
	}
	return actor
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
