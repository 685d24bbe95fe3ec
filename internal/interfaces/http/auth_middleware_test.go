package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	apphttp "github.com/jhoicas/cooperativa-lactea-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/cooperativa-lactea-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCenterID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "cooperativa-lactea-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	// Ruta protegida: JWT + RBAC
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testCenterID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET al path y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	code, _ := body["code"].(string)
	return code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"ADMIN debe poder acceder a ruta restringida a ADMIN")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRole_OperadorAccedeRutaDeEscritura(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleManager, entity.RoleOperator)
	resp := doRequest(t, app, "/protected", tokenForRole(t, entity.RoleOperator))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_ViewerBloqueadoEnRutaDeEscritura(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleManager, entity.RoleOperator)
	resp := doRequest(t, app, "/protected", tokenForRole(t, entity.RoleViewer))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"VIEWER no debe poder registrar datos")
	assert.Equal(t, "FORBIDDEN", bodyCode(t, resp))
}

// Caso 2b: un rol fuera del catálogo se rechaza aunque figure en la lista permitida.
func TestRequireRole_RolDesconocido_Retorna403(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, "bodeguero")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_ROLE", bodyCode(t, resp))
}

// Caso 3: Token sin claim de rol → HTTP 401.
func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token sin rol debe retornar 401")
	assert.Equal(t, "MISSING_ROLE", bodyCode(t, resp))
}

// Caso 4: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", bodyCode(t, resp))
}

// Caso 5: Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer"} {
		resp := doRequest(t, app, "/protected", header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		resp.Body.Close()
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtractaClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"center_id": apphttp.GetCenterID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	resp := doRequest(t, app, "/me", tokenForRole(t, entity.RoleOperator))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCenterID, body["center_id"])
	assert.Equal(t, entity.RoleOperator, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests LoadActor: la identidad vigente sale de la base de datos
// ──────────────────────────────────────────────────────────────────────────────

type fakeResolver struct {
	actors map[string]entity.Actor
	err    error
}

func (r fakeResolver) ResolveActor(_ context.Context, userID string) (entity.Actor, error) {
	if r.err != nil {
		return entity.Actor{}, r.err
	}
	a, ok := r.actors[userID]
	if !ok {
		return entity.Actor{}, domain.ErrUnauthorized
	}
	return a, nil
}

func buildActorApp(resolver apphttp.ActorResolver, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/scoped",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.LoadActor(resolver),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			a := apphttp.GetActor(c)
			center := ""
			if a.CollectionCenterID != nil {
				center = *a.CollectionCenterID
			}
			return c.JSON(fiber.Map{"id": a.ID, "role": a.Role, "center_id": center})
		},
	)
	return app
}

// Un cambio de rol en la base de datos rige aunque el token diga otra cosa.
func TestLoadActor_RolDeLaBaseDeDatosPrevalece(t *testing.T) {
	other := "centerZ"
	resolver := fakeResolver{actors: map[string]entity.Actor{
		testUserID: {ID: testUserID, Role: entity.RoleOperator, CollectionCenterID: &other},
	}}
	app := buildActorApp(resolver, entity.RoleAdmin, entity.RoleOperator)

	resp := doRequest(t, app, "/scoped", tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleOperator, body["role"])
	assert.Equal(t, "centerZ", body["center_id"])

	// Degradado a VIEWER: la misma petición ya no pasa RequireRole.
	resolver.actors[testUserID] = entity.Actor{ID: testUserID, Role: entity.RoleViewer}
	resp2 := doRequest(t, app, "/scoped", tokenForRole(t, entity.RoleAdmin))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

func TestLoadActor_Errores(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: %q", domain.ErrUnknownRole, "SUPERUSER"), http.StatusForbidden, "UNKNOWN_ROLE"},
		{fmt.Errorf("db caída"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := buildActorApp(fakeResolver{err: tc.err}, entity.RoleAdmin)
			resp := doRequest(t, app, "/scoped", tokenForRole(t, entity.RoleAdmin))
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, bodyCode(t, resp))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg: integridad del generate/parse con role
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleManager, testCenterID, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testCenterID, claims.CollectionCenterID)
	assert.Equal(t, entity.RoleManager, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleAdmin, "", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleAdmin, "", testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
