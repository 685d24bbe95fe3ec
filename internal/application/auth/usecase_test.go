package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/auth"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/cooperativa-lactea-api/pkg/jwt"
)

// ── repos en memoria ──

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByLogin(_ context.Context, login string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, login) || (u.Username != "" && u.Username == login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

type memCenters struct{ byID map[string]*entity.CollectionCenter }

func (m memCenters) Create(context.Context, *entity.CollectionCenter) error { return nil }
func (m memCenters) GetByID(_ context.Context, id string) (*entity.CollectionCenter, error) {
	return m.byID[id], nil
}
func (m memCenters) GetByCode(context.Context, string) (*entity.CollectionCenter, error) {
	return nil, nil
}
func (m memCenters) List(context.Context, bool) ([]*entity.CollectionCenter, error) { return nil, nil }
func (m memCenters) Update(context.Context, *entity.CollectionCenter) error         { return nil }
func (m memCenters) Delete(context.Context, string) error                           { return nil }

const secret = "test-secret"

func newAuth() (*auth.AuthUseCase, *memUsers) {
	users := &memUsers{byID: map[string]*entity.User{}}
	centers := memCenters{byID: map[string]*entity.CollectionCenter{
		"centerA": {ID: "centerA", Name: "Musanze", Code: "CC-A", IsActive: true},
	}}
	return auth.NewAuthUseCase(users, centers, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "coop-test"}), users
}

func strPtr(s string) *string { return &s }

func register(t *testing.T, uc *auth.AuthUseCase, email, role string, center *string) *dto.UserResponse {
	t.Helper()
	u, err := uc.RegisterUser(context.Background(), dto.CreateUserRequest{
		Email: email, Password: "password123", Name: "Usuario", Role: role, CollectionCenterID: center,
	})
	require.NoError(t, err)
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_Validaciones(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	u := register(t, uc, "  Operador@Coop.RW ", entity.RoleOperator, strPtr("centerA"))
	assert.Equal(t, "operador@coop.rw", u.Email)
	require.NotNil(t, u.CollectionCenterID)
	assert.Equal(t, "centerA", *u.CollectionCenterID)

	_, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "operador@coop.rw", Password: "password123", Role: entity.RoleViewer})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "x@coop.rw", Password: "corta", Role: entity.RoleViewer})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "x@coop.rw", Password: "password123", Role: "bodeguero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "x@coop.rw", Password: "password123", Role: entity.RoleOperator, CollectionCenterID: strPtr("no-existe")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_GeneraTokenConRolYCentro(t *testing.T) {
	uc, _ := newAuth()
	u := register(t, uc, "op@coop.rw", entity.RoleOperator, strPtr("centerA"))

	res, err := uc.Login(context.Background(), dto.LoginRequest{Login: "op@coop.rw", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := pkgjwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, entity.RoleOperator, claims.Role)
	assert.Equal(t, "centerA", claims.CollectionCenterID)
}

func TestLogin_CredencialesInvalidasOCuentaInactiva(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()
	u := register(t, uc, "op@coop.rw", entity.RoleOperator, nil)

	_, err := uc.Login(ctx, dto.LoginRequest{Login: "op@coop.rw", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Login: "nadie@coop.rw", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	users.byID[u.ID].IsActive = false
	_, err = uc.Login(ctx, dto.LoginRequest{Login: "op@coop.rw", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad vigente
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveActor_ReflejaCambiosInmediatos(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	u := register(t, uc, "op@coop.rw", entity.RoleOperator, nil)

	actor, err := uc.ResolveActor(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOperator, actor.Role)
	assert.Nil(t, actor.CollectionCenterID)

	_, err = uc.UpdateUser(ctx, u.ID, dto.UpdateUserRequest{CollectionCenterID: strPtr("centerA")})
	require.NoError(t, err)
	actor, err = uc.ResolveActor(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, actor.CollectionCenterID)
	assert.Equal(t, "centerA", *actor.CollectionCenterID)

	// "" desasigna el centro.
	_, err = uc.UpdateUser(ctx, u.ID, dto.UpdateUserRequest{CollectionCenterID: strPtr("")})
	require.NoError(t, err)
	actor, err = uc.ResolveActor(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, actor.CollectionCenterID)

	off := false
	_, err = uc.UpdateUser(ctx, u.ID, dto.UpdateUserRequest{IsActive: &off})
	require.NoError(t, err)
	_, err = uc.ResolveActor(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResolveActor_UsuarioInexistenteYRolDesconocido(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()

	_, err := uc.ResolveActor(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	users.byID["legacy"] = &entity.User{ID: "legacy", Role: "bodeguero", IsActive: true}
	_, err = uc.ResolveActor(ctx, "legacy")
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestUpdateUser_RolInvalido(t *testing.T) {
	uc, _ := newAuth()
	u := register(t, uc, "m@coop.rw", entity.RoleManager, nil)

	_, err := uc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{Role: strPtr("ROOT")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateUser(context.Background(), "no-existe", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()
	adminUser := register(t, uc, "admin@coop.rw", entity.RoleAdmin, nil)
	op := register(t, uc, "op@coop.rw", entity.RoleOperator, strPtr("centerA"))

	err := uc.DeleteUser(ctx, adminUser.ID, adminUser.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "nadie se borra a sí mismo")

	require.NoError(t, uc.DeleteUser(ctx, adminUser.ID, op.ID))
	assert.NotContains(t, users.byID, op.ID)

	assert.ErrorIs(t, uc.DeleteUser(ctx, adminUser.ID, op.ID), domain.ErrUserNotFound)
}
