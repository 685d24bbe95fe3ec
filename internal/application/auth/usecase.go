package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/repository"
	"github.com/jhoicas/cooperativa-lactea-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y gestión de usuarios.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	centerRepo repository.CollectionCenterRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, centerRepo repository.CollectionCenterRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, centerRepo: centerRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email y password (mínimo 8 caracteres) son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.IsKnownRole(in.Role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	existing, err := uc.userRepo.FindByLogin(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	centerID, err := uc.checkCenter(ctx, in.CollectionCenterID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:                 uuid.New().String(),
		Email:              email,
		Username:           strings.TrimSpace(in.Username),
		PasswordHash:       string(hash),
		Name:               name,
		Role:               in.Role,
		CollectionCenterID: centerID,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email o username y password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	centerID := ""
	if user.CollectionCenterID != nil {
		centerID = *user.CollectionCenterID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, centerID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ListUsers pagina los usuarios.
func (uc *AuthUseCase) ListUsers(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.userRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// UpdateUser cambia nombre, rol, centro o estado. El cambio rige desde la siguiente petición del usuario.
func (uc *AuthUseCase) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !entity.IsKnownRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.CollectionCenterID != nil {
		user.CollectionCenterID, err = uc.checkCenter(ctx, in.CollectionCenterID)
		if err != nil {
			return nil, err
		}
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// DeleteUser borra un usuario sin actividad registrada. Nadie puede borrarse a sí mismo.
func (uc *AuthUseCase) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrConflict)
	}
	return uc.userRepo.Delete(ctx, id)
}

// ResolveActor carga la identidad vigente del usuario del token.
// El rol y el centro salen de la base de datos, no del token, así un cambio de
// asignación rige de inmediato.
func (uc *AuthUseCase) ResolveActor(ctx context.Context, userID string) (entity.Actor, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return entity.Actor{}, err
	}
	if user == nil {
		return entity.Actor{}, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return entity.Actor{}, domain.ErrForbidden
	}
	if !entity.IsKnownRole(user.Role) {
		return entity.Actor{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, user.Role)
	}
	return user.Actor(), nil
}

// checkCenter valida un centro opcional; "" o nil significan sin centro.
func (uc *AuthUseCase) checkCenter(ctx context.Context, id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	center, err := uc.centerRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, fmt.Errorf("%w: centro de acopio %q", domain.ErrNotFound, *id)
	}
	v := center.ID
	return &v, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Username:           u.Username,
		Name:               u.Name,
		Role:               u.Role,
		CollectionCenterID: u.CollectionCenterID,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
