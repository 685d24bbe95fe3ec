package ports

import (
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// Notifier define el puerto de salida para avisar al productor (SMS) de una entrega o un pago.
// Las implementaciones no bloquean al llamador y nunca devuelven el error del envío:
// la escritura que originó el aviso ya está confirmada y no se revierte.
type Notifier interface {
	DeliveryRecorded(farmer entity.Farmer, delivery entity.Delivery)
	PaymentRecorded(farmer entity.Farmer, payment entity.Payment, periodLabel string)
}

// NopNotifier descarta todos los avisos (SMS deshabilitado o tests).
type NopNotifier struct{}

func (NopNotifier) DeliveryRecorded(entity.Farmer, entity.Delivery)       {}
func (NopNotifier) PaymentRecorded(entity.Farmer, entity.Payment, string) {}
