package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

var _ repository.FarmerRepository = (*FarmerRepo)(nil)

const farmerSelect = `
	SELECT f.id, f.farmer_code, f.name, f.phone, f.email, f.location, f.address,
	       f.bank_name, f.account_number, f.account_name, f.price_per_liter,
	       f.collection_center_id, f.is_active, f.created_at, f.updated_at,
	       (SELECT COUNT(*) FROM deliveries d WHERE d.farmer_id = f.id) AS delivery_count
	FROM farmers f`

// FarmerRepo implementación del puerto FarmerRepository sobre PostgreSQL.
type FarmerRepo struct {
	q Querier
}

// NewFarmerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFarmerRepository(q Querier) *FarmerRepo {
	return &FarmerRepo{q: q}
}

// Create persiste un productor con su código ya asignado.
func (r *FarmerRepo) Create(ctx context.Context, f *entity.Farmer) error {
	query := `
		INSERT INTO farmers (id, farmer_code, name, phone, email, location, address,
		                     bank_name, account_number, account_name, price_per_liter,
		                     collection_center_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.FarmerCode, f.Name, f.Phone, nullIfEmpty(f.Email), f.Location, nullIfEmpty(f.Address),
		nullIfEmpty(f.BankName), nullIfEmpty(f.AccountNumber), nullIfEmpty(f.AccountName), f.PricePerLiter,
		f.CollectionCenterID, f.IsActive, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: centro de acopio inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert farmer: %w", err)
	}
	return nil
}

// GetByID obtiene un productor por ID. Devuelve nil, nil si no existe.
func (r *FarmerRepo) GetByID(ctx context.Context, id string) (*entity.Farmer, error) {
	return scanFarmer(r.q.QueryRow(ctx, farmerSelect+` WHERE f.id = $1`, id))
}

// GetForUpdate obtiene el productor con SELECT ... FOR UPDATE. Solo tiene efecto dentro de una tx.
func (r *FarmerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Farmer, error) {
	return scanFarmer(r.q.QueryRow(ctx, farmerSelect+` WHERE f.id = $1 FOR UPDATE OF f`, id))
}

// List pagina los productores visibles, más recientes primero.
func (r *FarmerRepo) List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.Farmer, error) {
	if scope.IsEmpty() {
		return []*entity.Farmer{}, nil
	}
	cond, args := scopeCondition(scope, "f.collection_center_id", nil)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY f.created_at DESC LIMIT $%d OFFSET $%d`,
		farmerSelect, cond, len(args)-1, len(args))
	return r.list(ctx, query, args)
}

// ListAll devuelve todos los productores visibles ordenados por código.
func (r *FarmerRepo) ListAll(ctx context.Context, scope access.Scope) ([]*entity.Farmer, error) {
	if scope.IsEmpty() {
		return []*entity.Farmer{}, nil
	}
	cond, args := scopeCondition(scope, "f.collection_center_id", nil)
	return r.list(ctx, farmerSelect+` WHERE `+cond+` ORDER BY f.farmer_code`, args)
}

// SetActive activa o desactiva un productor.
func (r *FarmerRepo) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE farmers SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update farmer status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFarmerNotFound
	}
	return nil
}

// Update guarda los datos editables del productor.
func (r *FarmerRepo) Update(ctx context.Context, f *entity.Farmer) error {
	query := `
		UPDATE farmers
		SET name = $2, phone = $3, email = $4, location = $5, address = $6, bank_name = $7,
		    account_number = $8, account_name = $9, price_per_liter = $10,
		    collection_center_id = $11, is_active = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Phone, nullIfEmpty(f.Email), f.Location, nullIfEmpty(f.Address),
		nullIfEmpty(f.BankName), nullIfEmpty(f.AccountNumber), nullIfEmpty(f.AccountName),
		f.PricePerLiter, f.CollectionCenterID, f.IsActive, f.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: centro de acopio inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update farmer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFarmerNotFound
	}
	return nil
}

// Delete borra el productor. Las entregas y pagos lo referencian sin cascada: con historial no se borra.
func (r *FarmerRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM farmers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el productor tiene entregas o pagos; desactívelo", domain.ErrConflict)
		}
		return fmt.Errorf("delete farmer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFarmerNotFound
	}
	return nil
}

func (r *FarmerRepo) list(ctx context.Context, query string, args []any) ([]*entity.Farmer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	defer rows.Close()
	list := []*entity.Farmer{}
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func scanFarmer(row pgx.Row) (*entity.Farmer, error) {
	var (
		f                                            entity.Farmer
		email, address, bankName, account, accountNm *string
	)
	err := row.Scan(&f.ID, &f.FarmerCode, &f.Name, &f.Phone, &email, &f.Location, &address,
		&bankName, &account, &accountNm, &f.PricePerLiter,
		&f.CollectionCenterID, &f.IsActive, &f.CreatedAt, &f.UpdatedAt, &f.DeliveryCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan farmer: %w", err)
	}
	f.Email, f.Address = deref(email), deref(address)
	f.BankName, f.AccountNumber, f.AccountName = deref(bankName), deref(account), deref(accountNm)
	return &f, nil
}
