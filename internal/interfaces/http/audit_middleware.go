package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// ActivityRecorder persiste la bitácora de escrituras.
type ActivityRecorder interface {
	Record(ctx context.Context, l *entity.ActivityLog) error
}

// AuditMiddleware registra cada escritura exitosa (POST, PUT, PATCH, DELETE con status < 400).
// Un fallo al registrar solo se loguea; la respuesta ya está decidida.
func AuditMiddleware(recorder ActivityRecorder, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action := auditAction(c.Method())
		if action == "" || recorder == nil {
			return c.Next()
		}
		if err := c.Next(); err != nil {
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			return nil
		}
		entry := &entity.ActivityLog{
			UserID:    GetUserID(c),
			Action:    action,
			Entity:    auditEntity(c.Path()),
			EntityID:  c.Params("id"),
			Path:      c.Path(),
			Status:    status,
			IPAddress: c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			CreatedAt: time.Now().UTC(),
		}
		if err := recorder.Record(c.UserContext(), entry); err != nil {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", entry.Path).
				Str("user_id", entry.UserID).
				Msg("registrar actividad")
		}
		return nil
	}
}

func auditAction(method string) string {
	switch method {
	case fiber.MethodPost:
		return entity.ActionCreate
	case fiber.MethodPut, fiber.MethodPatch:
		return entity.ActionUpdate
	case fiber.MethodDelete:
		return entity.ActionDelete
	}
	return ""
}

// auditEntity toma el recurso de la ruta: /api/farmers/:id/status → farmers.
func auditEntity(path string) string {
	path = strings.TrimPrefix(strings.Trim(path, "/"), "api/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
