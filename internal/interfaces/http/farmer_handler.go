package http

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/usecase"
)

// FarmerHandler maneja las peticiones HTTP de productores (protegido).
type FarmerHandler struct {
	uc *usecase.FarmerUseCase
}

// NewFarmerHandler construye el handler.
func NewFarmerHandler(uc *usecase.FarmerUseCase) *FarmerHandler {
	return &FarmerHandler{uc: uc}
}

// List godoc
// @Summary      Listar productores visibles
// @Tags         farmers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.FarmerListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/farmers [get]
func (h *FarmerHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), GetActor(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener productor por ID
// @Tags         farmers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del productor"
// @Success      200  {object}  dto.FarmerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/farmers/{id} [get]
func (h *FarmerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar productor
// @Description  El código F#### lo asigna el sistema.
// @Tags         farmers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFarmerRequest  true  "Datos del productor"
// @Success      201   {object}  dto.FarmerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/farmers [post]
func (h *FarmerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFarmerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus godoc
// @Summary      Activar o desactivar productor
// @Tags         farmers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del productor"
// @Param        body  body  dto.UpdateFarmerStatusRequest  true  "Estado"
// @Success      200   {object}  dto.FarmerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/farmers/{id}/status [patch]
func (h *FarmerHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateFarmerStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetActive(c.UserContext(), GetActor(c), c.Params("id"), in.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar productores desde CSV
// @Description  Multipart con campo "file" o cuerpo text/csv. Encabezado: name,phone,email,location,address,bankName,accountNumber,accountName,pricePerL,collectionCenterCode
// @Tags         farmers
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  false  "Archivo CSV"
// @Success      200   {object}  dto.FarmerImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/farmers/import [post]
func (h *FarmerHandler) Import(c *fiber.Ctx) error {
	var r io.Reader
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
		}
		defer f.Close()
		r = f
	} else {
		if len(c.Body()) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere un archivo CSV"})
		}
		r = bytes.NewReader(c.Body())
	}
	out, err := h.uc.ImportCSV(c.UserContext(), GetActor(c), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar productor
// @Description  Edición parcial; el código F#### no cambia.
// @Tags         farmers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del productor"
// @Param        body  body  dto.UpdateFarmerRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.FarmerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/farmers/{id} [put]
func (h *FarmerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFarmerRequest
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
// @Summary      Eliminar productor sin entregas ni pagos
// @Tags         farmers
// @Security     Bearer
// @Param        id   path  string  true  "ID del productor"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/farmers/{id} [delete]
func (h *FarmerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
