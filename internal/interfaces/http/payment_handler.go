package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/payments"
)

// PaymentHandler maneja conciliación, registro y exportación de pagos (protegido).
type PaymentHandler struct {
	uc *payments.UseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.UseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func periodQuery(c *fiber.Ctx) dto.PeriodQuery {
	return dto.PeriodQuery{
		Start:    c.Query("start"),
		End:      c.Query("end"),
		Interval: c.QueryInt("interval", 0),
	}
}

// Reconciliation godoc
// @Summary      Conciliación de pagos del período
// @Description  Una fila por productor visible: litros, monto y estado de pago. Usar end o interval (15|30).
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        start     query  string  true   "Inicio (YYYY-MM-DD)"
// @Param        end       query  string  false  "Fin, incluido (YYYY-MM-DD)"
// @Param        interval  query  int     false  "Días del período (15 o 30)"
// @Success      200       {object}  dto.ReconciliationResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /api/payments/reconciliation [get]
func (h *PaymentHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext(), GetActor(c), periodQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Pagos registrados en el período
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        start     query  string  true   "Inicio (YYYY-MM-DD)"
// @Param        end       query  string  false  "Fin, incluido (YYYY-MM-DD)"
// @Param        interval  query  int     false  "Días del período (15 o 30)"
// @Success      200       {array}   dto.PaymentResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListPayments(c.UserContext(), GetActor(c), periodQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Marcar productor como pagado
// @Description  Recalcula litros y monto del período y registra un pago COMPLETED. El SMS se envía después.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarkPaidRequest  true  "farmer_id, start, end|interval"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) MarkPaid(c *fiber.Ctx) error {
	var in dto.MarkPaidRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.FarmerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "farmer_id es requerido"})
	}
	out, err := h.uc.MarkPaid(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MarkPaidBulk godoc
// @Summary      Pago masivo
// @Description  Cada productor se procesa por separado; los fallos se informan por ítem y no revierten los éxitos.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkMarkPaidRequest  true  "farmer_ids, start, end|interval"
// @Success      200   {object}  dto.BulkMarkPaidResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payments/bulk [post]
func (h *PaymentHandler) MarkPaidBulk(c *fiber.Ctx) error {
	var in dto.BulkMarkPaidRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.MarkPaidBulk(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar conciliación a XLSX
// @Tags         payments
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start     query  string  true   "Inicio (YYYY-MM-DD)"
// @Param        end       query  string  false  "Fin, incluido (YYYY-MM-DD)"
// @Param        interval  query  int     false  "Días del período (15 o 30)"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payments/export.xlsx [get]
func (h *PaymentHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	filename, err := h.uc.Export(c.UserContext(), GetActor(c), periodQuery(c), &buf)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

// Receipt godoc
// @Summary      Comprobante PDF de un pago
// @Tags         payments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pago"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/receipt.pdf [get]
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	doc, err := h.uc.Receipt(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment("payment_" + c.Params("id") + ".pdf")
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(doc)
}
