package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/cooperativa-lactea-api/internal/application/analytics"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/auth"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/payments"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/usecase"
	"github.com/jhoicas/cooperativa-lactea-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CenterUC    *usecase.CollectionCenterUseCase
	FarmerUC    *usecase.FarmerUseCase
	DeliveryUC  *usecase.DeliveryUseCase
	PaymentsUC  *payments.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	Activity    ActivityRecorder // nil: sin bitácora
	Log         zerolog.Logger
	JWTSecret   string
}

// Roles por operación. VIEWER lee todo pero no escribe.
var (
	rolesAll    = []string{entity.RoleAdmin, entity.RoleManager, entity.RoleOperator, entity.RoleViewer}
	rolesWrite  = []string{entity.RoleAdmin, entity.RoleManager, entity.RoleOperator}
	rolesManage = []string{entity.RoleAdmin, entity.RoleManager}
	rolesAdmin  = []string{entity.RoleAdmin}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: Bearer Token + identidad vigente en la base de datos + bitácora de escrituras
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), LoadActor(deps.AuthUC), AuditMiddleware(deps.Activity, deps.Log))
	read := RequireRole(rolesAll...)
	write := RequireRole(rolesWrite...)

	protected.Get("/auth/me", authHandler.Me)

	// Users
	users := protected.Group("/users")
	users.Get("/", RequireRole(rolesManage...), authHandler.ListUsers)
	users.Post("/", RequireRole(rolesAdmin...), authHandler.CreateUser)
	users.Patch("/:id", RequireRole(rolesAdmin...), authHandler.UpdateUser)
	users.Delete("/:id", RequireRole(rolesAdmin...), authHandler.DeleteUser)

	// Collection centers
	centers := protected.Group("/collection-centers")
	centerHandler := NewCollectionCenterHandler(deps.CenterUC)
	centers.Get("/", read, centerHandler.List)
	centers.Post("/", RequireRole(rolesManage...), centerHandler.Create)
	centers.Patch("/:id", RequireRole(rolesManage...), centerHandler.Update)
	centers.Delete("/:id", RequireRole(rolesManage...), centerHandler.Delete)

	// Farmers
	farmers := protected.Group("/farmers")
	farmerHandler := NewFarmerHandler(deps.FarmerUC)
	farmers.Get("/", read, farmerHandler.List)
	farmers.Post("/", write, farmerHandler.Create)
	farmers.Post("/import", write, farmerHandler.Import)
	farmers.Get("/:id", read, farmerHandler.GetByID)
	farmers.Put("/:id", write, farmerHandler.Update)
	farmers.Delete("/:id", write, farmerHandler.Delete)
	farmers.Patch("/:id/status", write, farmerHandler.UpdateStatus)

	// Deliveries
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveries.Get("/", read, deliveryHandler.List)
	deliveries.Post("/", write, deliveryHandler.Create)
	deliveries.Put("/:id", write, deliveryHandler.Update)
	deliveries.Delete("/:id", write, deliveryHandler.Delete)

	// Payments
	pays := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentsUC)
	pays.Get("/reconciliation", read, paymentHandler.Reconciliation)
	pays.Get("/export.xlsx", read, paymentHandler.Export)
	pays.Get("/", read, paymentHandler.List)
	pays.Post("/", write, paymentHandler.MarkPaid)
	pays.Post("/bulk", write, paymentHandler.MarkPaidBulk)
	pays.Get("/:id/receipt.pdf", read, paymentHandler.Receipt)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", read, dashboardHandler.GetStats)
}
