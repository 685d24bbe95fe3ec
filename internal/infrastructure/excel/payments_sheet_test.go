package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/payroll"
	"github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/excel"
)

func TestExportPayments_EncabezadosYFilas(t *testing.T) {
	kigali := time.FixedZone("CAT", 2*60*60)
	period, err := payroll.ParsePeriod("2024-06-01", "2024-06-15", kigali)
	require.NoError(t, err)

	// 22:30 UTC del 15 de junio ya es 16 de junio en Kigali.
	paidAt := time.Date(2024, 6, 15, 22, 30, 0, 0, time.UTC)
	rows := []payroll.Row{
		{
			Farmer:      &entity.Farmer{Name: "Jean", PricePerLiter: decimal.NewFromInt(300)},
			TotalLiters: decimal.NewFromInt(25),
			TotalAmount: decimal.NewFromInt(7500),
			Status:      entity.PaymentCompleted,
			PaidAt:      &paidAt,
			IsPaid:      true,
		},
		{
			Farmer:      &entity.Farmer{Name: "Aline", PricePerLiter: decimal.RequireFromString("312.5")},
			TotalLiters: decimal.RequireFromString("10.5"),
			TotalAmount: decimal.RequireFromString("3281.25"),
			Status:      entity.PaymentPending,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, excel.NewPaymentsExporter().ExportPayments(&buf, period, rows, "RWF"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, excel.Headers, got[0])
	assert.Equal(t, []string{"Jean", "25", "300", "7500", "COMPLETED", "2024-06-16"}, got[1])
	assert.Equal(t, []string{"Aline", "10.5", "312.5", "3281.25", "PENDING"}, got[2],
		"una celda final vacía no aparece en GetRows")

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Payments 2024-06-01..2024-06-15", props.Title)
	assert.Equal(t, "Amounts in RWF", props.Description)
}

func TestExportPayments_SinFilas(t *testing.T) {
	period, err := payroll.ParsePeriod("2024-06-01", "2024-06-15", time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, excel.NewPaymentsExporter().ExportPayments(&buf, period, nil, "RWF"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, excel.Headers, got[0])
}
