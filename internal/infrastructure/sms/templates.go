package sms

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Plantillas en kinyarwanda de los avisos al productor.
const (
	deliveryTemplate = "Muraho %s! Amata yawe ya %sL yashyizwemo muri sisitemu ku wa %s. Murakoze!"
	paymentTemplate  = "Muraho %s! Amafaranga yawe ya %s %s ya %s yashyuwe. Murakoze!"
)

var printer = message.NewPrinter(language.English)

// DeliveryMessage aviso de entrega registrada. La fecha va como dd/mm/aaaa en loc.
func DeliveryMessage(farmerName string, liters decimal.Decimal, at time.Time, loc *time.Location) string {
	if loc != nil {
		at = at.In(loc)
	}
	return printer.Sprintf(deliveryTemplate, farmerName, liters.String(), at.Format("02/01/2006"))
}

// PaymentMessage aviso de pago registrado, con separador de miles en el monto.
func PaymentMessage(farmerName string, amount decimal.Decimal, currency, periodLabel string) string {
	return printer.Sprintf(paymentTemplate, farmerName, FormatAmount(amount), currency, periodLabel)
}

// FormatAmount 7500 → "7,500"; 7500.5 → "7,500.50".
func FormatAmount(amount decimal.Decimal) string {
	if amount.Equal(amount.Truncate(0)) {
		return printer.Sprintf("%d", amount.IntPart())
	}
	f, _ := amount.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}
