package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/usecase"
)

// CollectionCenterHandler maneja las peticiones HTTP de centros de acopio (protegido).
type CollectionCenterHandler struct {
	uc *usecase.CollectionCenterUseCase
}

// NewCollectionCenterHandler construye el handler.
func NewCollectionCenterHandler(uc *usecase.CollectionCenterUseCase) *CollectionCenterHandler {
	return &CollectionCenterHandler{uc: uc}
}

// List godoc
// @Summary      Listar centros de acopio
// @Description  Por defecto solo los activos, ordenados por nombre.
// @Tags         collection-centers
// @Security     Bearer
// @Produce      json
// @Param        include_inactive  query  bool  false  "Incluir inactivos (ADMIN, MANAGER)"
// @Success      200  {array}  dto.CollectionCenterResponse
// @Router       /api/collection-centers [get]
func (h *CollectionCenterHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), c.QueryBool("include_inactive", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear centro de acopio
// @Tags         collection-centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCollectionCenterRequest  true  "Datos del centro"
// @Success      201   {object}  dto.CollectionCenterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/collection-centers [post]
func (h *CollectionCenterHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCollectionCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar centro de acopio
// @Tags         collection-centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                                true  "ID del centro"
// @Param        body  body  dto.UpdateCollectionCenterRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.CollectionCenterResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/collection-centers/{id} [patch]
func (h *CollectionCenterHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCollectionCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar centro de acopio sin referencias
// @Tags         collection-centers
// @Security     Bearer
// @Param        id   path  string  true  "ID del centro"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/collection-centers/{id} [delete]
func (h *CollectionCenterHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
