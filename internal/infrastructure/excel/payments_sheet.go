// Package excel exporta la conciliación de pagos como planilla XLSX.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/ports"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/payroll"
)

var _ ports.SpreadsheetExporter = (*PaymentsExporter)(nil)

// SheetName hoja donde se escriben las filas.
const SheetName = "Payments"

// Headers encabezados de la planilla, en orden de columna.
var Headers = []string{"Farmer", "Total Liters", "Price/Liter", "Total Amount", "Status", "Payment Date"}

// PaymentsExporter escribe una fila por productor conciliado.
type PaymentsExporter struct{}

// NewPaymentsExporter construye el exportador.
func NewPaymentsExporter() *PaymentsExporter { return &PaymentsExporter{} }

// ExportPayments escribe el libro en w. Las cantidades van como números para que la planilla pueda sumarlas.
func (e *PaymentsExporter) ExportPayments(w io.Writer, period payroll.Period, rows []payroll.Row, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       fmt.Sprintf("Payments %s", period),
		Description: "Amounts in " + currency,
	}); err != nil {
		return err
	}

	// Encabezados
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	// Datos
	for i, r := range rows {
		rowNo := i + 2
		liters, _ := r.TotalLiters.Float64()
		price, _ := r.Farmer.PricePerLiter.Float64()
		amount, _ := r.TotalAmount.Float64()
		paidAt := ""
		if r.PaidAt != nil {
			paidAt = r.PaidAt.In(period.Loc).Format(payroll.DateLayout)
		}
		values := []any{r.Farmer.Name, liters, price, amount, r.Status, paidAt}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowNo)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "F", 16); err != nil {
		return err
	}
	return f.Write(w)
}
