package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/farmercode"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

var _ repository.FarmerCodeSequence = (*CounterRepo)(nil)

const farmerCodeCounter = "farmer_code"

// CounterRepo contadores con nombre en la tabla counters. El UPDATE ... RETURNING toma
// el lock de la fila, así que dos transacciones concurrentes nunca reciben el mismo valor.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Debe usarse dentro de la tx que inserta el productor.
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// NextFarmerNumber incrementa y devuelve el contador de códigos de productor.
func (r *CounterRepo) NextFarmerNumber(ctx context.Context) (int64, error) {
	const query = `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`
	var n int64
	if err := r.q.QueryRow(ctx, query, farmerCodeCounter).Scan(&n); err != nil {
		return 0, fmt.Errorf("next farmer number: %w", err)
	}
	return n, nil
}

// ResyncFarmerNumber lleva el contador al mayor sufijo de farmers.farmer_code si está atrasado.
// El formato del código lo interpreta farmercode; los códigos que no lo siguen se ignoran.
func (r *CounterRepo) ResyncFarmerNumber(ctx context.Context) error {
	rows, err := r.q.Query(ctx, `SELECT farmer_code FROM farmers`)
	if err != nil {
		return fmt.Errorf("resync farmer number: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("resync farmer number: %w", err)
	}
	const query = `
		INSERT INTO counters (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = GREATEST(counters.value, EXCLUDED.value)`
	if _, err := r.q.Exec(ctx, query, farmerCodeCounter, farmercode.MaxSuffix(codes)); err != nil {
		return fmt.Errorf("resync farmer number: %w", err)
	}
	return nil
}
