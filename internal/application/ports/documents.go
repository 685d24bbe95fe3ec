package ports

import (
	"io"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/payroll"
)

// SpreadsheetExporter escribe la planilla de pagos de un período.
type SpreadsheetExporter interface {
	ExportPayments(w io.Writer, period payroll.Period, rows []payroll.Row, currency string) error
}

// ReceiptGenerator genera el comprobante PDF de un pago registrado.
type ReceiptGenerator interface {
	GenerateReceipt(farmer entity.Farmer, payment entity.Payment, currency string) ([]byte, error)
}
