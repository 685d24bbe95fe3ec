package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/usecase"
)

// DeliveryHandler maneja las peticiones HTTP de entregas de leche (protegido).
type DeliveryHandler struct {
	uc *usecase.DeliveryUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *usecase.DeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// List godoc
// @Summary      Listar entregas visibles
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        start      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end        query  string  false  "Hasta, incluido (YYYY-MM-DD)"
// @Param        farmer_id  query  string  false  "Filtrar por productor"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.DeliveryListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	q := usecase.ListDeliveriesQuery{
		Start:       c.Query("start"),
		End:         c.Query("end"),
		FarmerID:    c.Query("farmer_id"),
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)},
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar entrega
// @Description  Tras registrar se envía un SMS al productor sin esperar el resultado.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "Datos de la entrega"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.FarmerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "farmer_id es requerido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Corregir entrega
// @Description  Una entrega incluida en un pago completado no se puede modificar.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la entrega"
// @Param        body  body  dto.UpdateDeliveryRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [put]
func (h *DeliveryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar entrega
// @Description  Una entrega incluida en un pago completado no se puede eliminar.
// @Tags         deliveries
// @Security     Bearer
// @Param        id   path  string  true  "ID de la entrega"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
