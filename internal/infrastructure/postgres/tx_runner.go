package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/payments"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/usecase"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// Ensure TxRunner implements payments.TxRunner, usecase.FarmerTxRunner and usecase.LedgerTxRunner.
var _ payments.TxRunner = (*TxRunner)(nil)
var _ usecase.FarmerTxRunner = (*TxRunner)(nil)
var _ usecase.LedgerTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPayment inicia una transacción con repos de productores, entregas y pagos
// (registro de pagos y escrituras de entregas).
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	farmerRepo repository.FarmerRepository,
	deliveryRepo repository.DeliveryRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewFarmerRepository(tx), NewDeliveryRepository(tx), NewPaymentRepository(tx))
	})
}

// RunFarmer inicia una transacción con el repo de productores y el contador de códigos.
// El incremento del contador se revierte junto con el INSERT si este falla.
func (r *TxRunner) RunFarmer(ctx context.Context, fn func(
	farmerRepo repository.FarmerRepository,
	seq repository.FarmerCodeSequence,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewFarmerRepository(tx), NewCounterRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
