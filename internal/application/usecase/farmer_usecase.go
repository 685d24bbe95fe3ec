package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/access"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/farmercode"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
)

// FarmerTxRunner ejecuta fn en una transacción con el repo de productores y el contador de códigos.
type FarmerTxRunner interface {
	RunFarmer(ctx context.Context, fn func(
		farmerRepo repository.FarmerRepository,
		seq repository.FarmerCodeSequence,
	) error) error
}

// FarmerConfig parámetros de alta de productores.
type FarmerConfig struct {
	DefaultPricePerLiter decimal.Decimal
	CodeRetries          int // intentos ante un código ya ocupado
}

// FarmerUseCase casos de uso de productores.
type FarmerUseCase struct {
	repo    repository.FarmerRepository
	centers repository.CollectionCenterRepository
	tx      FarmerTxRunner
	cfg     FarmerConfig
}

// NewFarmerUseCase construye el caso de uso.
func NewFarmerUseCase(repo repository.FarmerRepository, centers repository.CollectionCenterRepository, tx FarmerTxRunner, cfg FarmerConfig) *FarmerUseCase {
	if cfg.CodeRetries < 1 {
		cfg.CodeRetries = 1
	}
	return &FarmerUseCase{repo: repo, centers: centers, tx: tx, cfg: cfg}
}

// Create registra un productor y le asigna el siguiente código F####.
// Un OPERATOR solo registra en su propio centro; el centro debe estar activo.
func (uc *FarmerUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateFarmerRequest) (*dto.FarmerResponse, error) {
	scopes, err := writeScopes(actor)
	if err != nil {
		return nil, err
	}
	name, phone, location := strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone), strings.TrimSpace(in.Location)
	if name == "" || phone == "" || location == "" {
		return nil, fmt.Errorf("%w: name, phone y location son obligatorios", domain.ErrInvalidInput)
	}
	price := uc.cfg.DefaultPricePerLiter
	if in.PricePerLiter != nil {
		price = *in.PricePerLiter
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: precio por litro negativo", domain.ErrInvalidInput)
	}
	centerID := strings.TrimSpace(in.CollectionCenterID)
	if centerID == "" {
		centerID = ownCenter(actor)
	}
	if err := uc.checkCenter(ctx, scopes.Farmers, centerID); err != nil {
		return nil, err
	}

	now := time.Now()
	farmer := &entity.Farmer{
		ID:                 uuid.New().String(),
		Name:               name,
		Phone:              phone,
		Email:              strings.TrimSpace(in.Email),
		Location:           location,
		Address:            in.Address,
		BankName:           in.BankName,
		AccountNumber:      in.AccountNumber,
		AccountName:        in.AccountName,
		PricePerLiter:      price,
		CollectionCenterID: centerID,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.insertWithCode(ctx, farmer); err != nil {
		return nil, err
	}
	return toFarmerResponse(farmer), nil
}

// insertWithCode toma un número del contador e inserta el productor en la misma transacción.
// Si el código ya existe (cargado fuera del contador) resincroniza y reintenta.
func (uc *FarmerUseCase) insertWithCode(ctx context.Context, farmer *entity.Farmer) error {
	for attempt := 0; attempt < uc.cfg.CodeRetries; attempt++ {
		resync := attempt > 0
		err := uc.tx.RunFarmer(ctx, func(farmerRepo repository.FarmerRepository, seq repository.FarmerCodeSequence) error {
			if resync {
				if err := seq.ResyncFarmerNumber(ctx); err != nil {
					return err
				}
			}
			n, err := seq.NextFarmerNumber(ctx)
			if err != nil {
				return err
			}
			farmer.FarmerCode = farmercode.Format(n)
			return farmerRepo.Create(ctx, farmer)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
	}
	farmer.FarmerCode = ""
	return domain.ErrFarmerCodeExhausted
}

func (uc *FarmerUseCase) checkCenter(ctx context.Context, scope access.Scope, centerID string) error {
	if centerID == "" {
		return fmt.Errorf("%w: collection_center_id es obligatorio", domain.ErrInvalidInput)
	}
	if !scope.AllowsCenter(centerID) {
		return domain.ErrForbidden
	}
	center, err := uc.centers.GetByID(ctx, centerID)
	if err != nil {
		return err
	}
	if center == nil {
		return fmt.Errorf("%w: centro de acopio %q", domain.ErrInvalidInput, centerID)
	}
	if !center.IsActive {
		return domain.ErrCenterInactive
	}
	return nil
}

// GetByID obtiene un productor visible para el actor. Fuera de alcance equivale a inexistente.
func (uc *FarmerUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.FarmerResponse, error) {
	scopes, err := access.Resolve(actor)
	if err != nil {
		return nil, err
	}
	farmer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if farmer == nil || !scopes.AllowsFarmer(farmer) {
		return nil, domain.ErrFarmerNotFound
	}
	return toFarmerResponse(farmer), nil
}

// List pagina los productores visibles, más recientes primero.
func (uc *FarmerUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.FarmerListResponse, error) {
	scopes, err := access.Resolve(actor)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, scopes.Farmers, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FarmerResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *toFarmerResponse(f))
	}
	return &dto.FarmerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// SetActive activa o desactiva un productor visible.
func (uc *FarmerUseCase) SetActive(ctx context.Context, actor entity.Actor, id string, active bool) (*dto.FarmerResponse, error) {
	scopes, err := writeScopes(actor)
	if err != nil {
		return nil, err
	}
	farmer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if farmer == nil || !scopes.AllowsFarmer(farmer) {
		return nil, domain.ErrFarmerNotFound
	}
	if err := uc.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	farmer.IsActive = active
	return toFarmerResponse(farmer), nil
}

// Update edita los datos de un productor visible. El código F#### no cambia.
// Mover al productor a otro centro exige que el actor pueda escribir en ese centro.
func (uc *FarmerUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateFarmerRequest) (*dto.FarmerResponse, error) {
	scopes, err := writeScopes(actor)
	if err != nil {
		return nil, err
	}
	farmer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if farmer == nil || !scopes.AllowsFarmer(farmer) {
		return nil, domain.ErrFarmerNotFound
	}

	required := func(dst *string, v *string, field string) error {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			return fmt.Errorf("%w: %s no puede quedar vacío", domain.ErrInvalidInput, field)
		}
		*dst = t
		return nil
	}
	if err := required(&farmer.Name, in.Name, "name"); err != nil {
		return nil, err
	}
	if err := required(&farmer.Phone, in.Phone, "phone"); err != nil {
		return nil, err
	}
	if err := required(&farmer.Location, in.Location, "location"); err != nil {
		return nil, err
	}
	if in.Email != nil {
		farmer.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		farmer.Address = *in.Address
	}
	if in.BankName != nil {
		farmer.BankName = *in.BankName
	}
	if in.AccountNumber != nil {
		farmer.AccountNumber = *in.AccountNumber
	}
	if in.AccountName != nil {
		farmer.AccountName = *in.AccountName
	}
	if in.PricePerLiter != nil {
		if in.PricePerLiter.IsNegative() {
			return nil, fmt.Errorf("%w: precio por litro negativo", domain.ErrInvalidInput)
		}
		farmer.PricePerLiter = *in.PricePerLiter
	}
	if in.CollectionCenterID != nil {
		centerID := strings.TrimSpace(*in.CollectionCenterID)
		if centerID != farmer.CollectionCenterID {
			if err := uc.checkCenter(ctx, scopes.Farmers, centerID); err != nil {
				return nil, err
			}
			farmer.CollectionCenterID = centerID
		}
	}

	farmer.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, farmer); err != nil {
		return nil, err
	}
	return toFarmerResponse(farmer), nil
}

// Delete borra un productor visible sin historial. Con entregas o pagos devuelve
// ErrConflict; en ese caso corresponde desactivarlo.
func (uc *FarmerUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	scopes, err := writeScopes(actor)
	if err != nil {
		return err
	}
	farmer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if farmer == nil || !scopes.AllowsFarmer(farmer) {
		return domain.ErrFarmerNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// importColumns columnas reconocidas del CSV (sin distinguir mayúsculas).
var importColumns = []string{
	"name", "phone", "email", "location", "address",
	"bankname", "accountnumber", "accountname", "priceperl", "collectioncentercode",
}

// ImportCSV registra productores desde un CSV con encabezado. Las filas inválidas se
// informan y se omiten; las válidas se registran cada una con su propio código.
func (uc *FarmerUseCase) ImportCSV(ctx context.Context, actor entity.Actor, r io.Reader) (*dto.FarmerImportResult, error) {
	if _, err := writeScopes(actor); err != nil {
		return nil, err
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV sin encabezado", domain.ErrInvalidInput)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("%w: falta la columna name (esperadas: %s)", domain.ErrInvalidInput, strings.Join(importColumns, ","))
	}

	result := &dto.FarmerImportResult{Errors: []string{}}
	centers := map[string]string{} // código → id
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", line, err))
			continue
		}
		field := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		if field("name") == "" && field("phone") == "" {
			continue
		}

		req := dto.CreateFarmerRequest{
			Name:          field("name"),
			Phone:         field("phone"),
			Email:         field("email"),
			Location:      field("location"),
			Address:       field("address"),
			BankName:      field("bankname"),
			AccountNumber: field("accountnumber"),
			AccountName:   field("accountname"),
		}
		if p := field("priceperl"); p != "" {
			price, err := decimal.NewFromString(p)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("fila %d: precio %q inválido", line, p))
				continue
			}
			req.PricePerLiter = &price
		}
		if code := field("collectioncentercode"); code != "" {
			id, ok := centers[code]
			if !ok {
				center, err := uc.centers.GetByCode(ctx, code)
				if err != nil {
					return nil, err
				}
				if center != nil {
					id = center.ID
				}
				centers[code] = id
			}
			if id == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("fila %d: centro de acopio %q no existe", line, code))
				continue
			}
			req.CollectionCenterID = id
		}

		if _, err := uc.Create(ctx, actor, req); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", line, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func toFarmerResponse(f *entity.Farmer) *dto.FarmerResponse {
	if f == nil {
		return nil
	}
	return &dto.FarmerResponse{
		ID:                 f.ID,
		FarmerCode:         f.FarmerCode,
		Name:               f.Name,
		Phone:              f.Phone,
		Email:              f.Email,
		Location:           f.Location,
		Address:            f.Address,
		BankName:           f.BankName,
		AccountNumber:      f.AccountNumber,
		AccountName:        f.AccountName,
		PricePerLiter:      f.PricePerLiter,
		CollectionCenterID: f.CollectionCenterID,
		IsActive:           f.IsActive,
		DeliveryCount:      f.DeliveryCount,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}
