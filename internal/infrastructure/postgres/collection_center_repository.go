package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

var _ repository.CollectionCenterRepository = (*CollectionCenterRepo)(nil)

const centerColumns = `id, name, code, location, address, phone, manager, capacity, is_active, created_at, updated_at`

// CollectionCenterRepo implementación del puerto CollectionCenterRepository sobre PostgreSQL.
type CollectionCenterRepo struct {
	q Querier
}

// NewCollectionCenterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCollectionCenterRepository(q Querier) *CollectionCenterRepo {
	return &CollectionCenterRepo{q: q}
}

// Create persiste un nuevo centro de acopio.
func (r *CollectionCenterRepo) Create(ctx context.Context, c *entity.CollectionCenter) error {
	query := `
		INSERT INTO collection_centers (` + centerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Code, c.Location, nullIfEmpty(c.Address), nullIfEmpty(c.Phone), nullIfEmpty(c.Manager),
		c.Capacity, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert collection center: %w", err)
	}
	return nil
}

// GetByID obtiene un centro por ID. Devuelve nil, nil si no existe.
func (r *CollectionCenterRepo) GetByID(ctx context.Context, id string) (*entity.CollectionCenter, error) {
	return scanCenter(r.q.QueryRow(ctx, `SELECT `+centerColumns+` FROM collection_centers WHERE id = $1`, id))
}

// GetByCode obtiene un centro por su código.
func (r *CollectionCenterRepo) GetByCode(ctx context.Context, code string) (*entity.CollectionCenter, error) {
	return scanCenter(r.q.QueryRow(ctx, `SELECT `+centerColumns+` FROM collection_centers WHERE code = $1`, code))
}

// List lista centros por nombre.
func (r *CollectionCenterRepo) List(ctx context.Context, includeInactive bool) ([]*entity.CollectionCenter, error) {
	query := `SELECT ` + centerColumns + ` FROM collection_centers WHERE is_active OR $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list collection centers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CollectionCenter
	for rows.Next() {
		c, err := scanCenter(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos y el estado de un centro.
func (r *CollectionCenterRepo) Update(ctx context.Context, c *entity.CollectionCenter) error {
	query := `
		UPDATE collection_centers
		SET name = $2, location = $3, address = $4, phone = $5, manager = $6, capacity = $7,
		    is_active = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Location, nullIfEmpty(c.Address), nullIfEmpty(c.Phone), nullIfEmpty(c.Manager),
		c.Capacity, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update collection center: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra un centro sin historial. Con productores, entregas o usuarios asignados se rechaza.
func (r *CollectionCenterRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM collection_centers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el centro tiene productores, entregas o usuarios; desactívelo", domain.ErrConflict)
		}
		return fmt.Errorf("delete collection center: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCenter(row pgx.Row) (*entity.CollectionCenter, error) {
	var (
		c                       entity.CollectionCenter
		address, phone, manager *string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Location, &address, &phone, &manager,
		&c.Capacity, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan collection center: %w", err)
	}
	c.Address, c.Phone, c.Manager = deref(address), deref(phone), deref(manager)
	return &c, nil
}
