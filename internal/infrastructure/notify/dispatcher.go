// Package notify despacha los avisos a productores en segundo plano.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/ports"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/sms"
)

// Verificar en tiempo de compilación que Dispatcher implementa Notifier.
var _ ports.Notifier = (*Dispatcher)(nil)

// Sender envía un mensaje de texto a un teléfono.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// Config parámetros del despachador.
type Config struct {
	Timeout  time.Duration  // plazo de cada envío, independiente de la petición HTTP
	Location *time.Location // zona horaria de las fechas en los mensajes
	Currency string
}

// Dispatcher implementa Notifier: arma el mensaje y lo envía en una goroutine.
// Los fallos solo se registran en el log.
type Dispatcher struct {
	sender Sender
	cfg    Config
	log    zerolog.Logger
	wg     sync.WaitGroup
}

// NewDispatcher construye el despachador.
func NewDispatcher(sender Sender, cfg Config, log zerolog.Logger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Dispatcher{sender: sender, cfg: cfg, log: log}
}

// DeliveryRecorded avisa al productor de una entrega registrada.
func (d *Dispatcher) DeliveryRecorded(farmer entity.Farmer, delivery entity.Delivery) {
	msg := sms.DeliveryMessage(farmer.Name, delivery.QuantityLiters, delivery.OccurredAt, d.cfg.Location)
	d.dispatch("delivery", farmer, delivery.ID, msg)
}

// PaymentRecorded avisa al productor de un pago registrado.
func (d *Dispatcher) PaymentRecorded(farmer entity.Farmer, payment entity.Payment, periodLabel string) {
	msg := sms.PaymentMessage(farmer.Name, payment.TotalAmount, d.cfg.Currency, periodLabel)
	d.dispatch("payment", farmer, payment.ID, msg)
}

func (d *Dispatcher) dispatch(kind string, farmer entity.Farmer, refID, msg string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Str("kind", kind).Str("ref_id", refID).
					Err(fmt.Errorf("panic: %v", r)).Msg("aviso SMS abortado")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		defer cancel()

		if err := d.sender.Send(ctx, farmer.Phone, msg); err != nil {
			d.log.Warn().Err(err).
				Str("kind", kind).
				Str("farmer_id", farmer.ID).
				Str("ref_id", refID).
				Msg("aviso SMS no enviado")
			return
		}
		d.log.Debug().Str("kind", kind).Str("farmer_id", farmer.ID).Str("ref_id", refID).Msg("aviso SMS enviado")
	}()
}

// Wait espera los envíos en curso o hasta que ctx venza (apagado ordenado).
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
