// Package pdf genera el comprobante de pago a productores.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  COOPERATIVA            │  N° Pago + Fecha    │
//	│  ───────────────────────────────────────────  │
//	│  PRODUCTOR: Código + Nombre + Teléfono        │
//	│  CUENTA: Banco / N° / Titular                 │
//	│  ───────────────────────────────────────────  │
//	│  Período | Litros | Precio/L | Total          │
//	│  ───────────────────────────────────────────  │
//	│  TOTAL PAGADO                    QR (ref)     │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/ports"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

var _ ports.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa ports.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	cooperative string
}

// NewReceiptGenerator construye el generador; cooperative es el nombre impreso en el encabezado.
func NewReceiptGenerator(cooperative string) *ReceiptGenerator {
	return &ReceiptGenerator{cooperative: cooperative}
}

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(farmer entity.Farmer, payment entity.Payment, currency string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pago", true).
		WithAuthor(g.cooperative, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.cooperative, payment))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(farmerRow(farmer))
	m.AddRows(accountRow(farmer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(payment, currency))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(payment, currency))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la cooperativa (izq) y referencia + fecha del pago (der).
func headerRow(cooperative string, payment entity.Payment) core.Row {
	fecha := payment.CreatedAt.Format("02/01/2006")
	if payment.PaidAt != nil {
		fecha = payment.PaidAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(cooperative, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortRef(payment.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func farmerRow(f entity.Farmer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PRODUCTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(f.FarmerCode+"  "+f.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Tel: "+nonEmpty(f.Phone, "—")+"   |   "+nonEmpty(f.Location, "—"),
				props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func accountRow(f entity.Farmer) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Banco: %s   |   Cuenta: %s   |   Titular: %s",
				nonEmpty(f.BankName, "—"),
				nonEmpty(f.AccountNumber, "—"),
				nonEmpty(f.AccountName, "—"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Período", 3, align.Left),
		h("Litros", 3, align.Right),
		h("Precio/L", 3, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func detailRow(p entity.Payment, currency string) core.Row {
	cell := func(s string, a align.Type) core.Col {
		return col.New(3).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(p.PeriodKey, align.Left),
		cell(p.TotalQuantityLiters.StringFixed(2)+" L", align.Right),
		cell(formatMoney(p.RatePerLiter)+" "+currency, align.Right),
		cell(formatMoney(p.TotalAmount)+" "+currency, align.Right),
	)
}

// totalRow: total pagado (izq) y QR con la referencia completa del pago (der).
func totalRow(p entity.Payment, currency string) core.Row {
	return row.New(30).Add(
		col.New(8).Add(
			text.New("TOTAL PAGADO", props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 4,
			}),
			text.New(formatMoney(p.TotalAmount)+" "+currency, props.Text{
				Style: fontstyle.Bold, Size: 14, Top: 10,
			}),
			text.New("Estado: "+p.Status, props.Text{Size: 8, Top: 20, Color: colorGray}),
		),
		col.New(4).Add(code.NewQr(p.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortRef(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "N° " + strings.ToUpper(id)
}

// formatMoney separa miles con coma y muestra decimales solo si los hay.
// Ej: 7500 → "7,500"; 1234567.5 → "1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf)
	if frac != "00" {
		out += "." + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
