// seed_admin aplica las migraciones y crea el primer usuario ADMIN.
//
// Uso: go run ./cmd/seed_admin <email> <password> [nombre]
// Lee la conexión a PostgreSQL de la misma configuración que el servidor.
// Si el email ya existe no hace nada.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/cooperativa-lactea-api/internal/application/auth"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/dto"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
	"github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cooperativa-lactea-api/pkg/config"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed_admin <email> <password> [nombre]")
		os.Exit(2)
	}
	name := "Administrador"
	if len(os.Args) > 3 {
		name = os.Args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	uc := auth.NewAuthUseCase(
		postgres.NewUserRepository(pool),
		postgres.NewCollectionCenterRepository(pool),
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
	)
	user, err := uc.RegisterUser(ctx, dto.CreateUserRequest{
		Email:    os.Args[1],
		Password: os.Args[2],
		Name:     name,
		Role:     entity.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		fmt.Printf("El usuario %s ya existe, nada que hacer.\n", os.Args[1])
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Administrador creado: %s (%s)\n", user.Email, user.ID)
}
