package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zona horaria de la cooperativa en imágenes sin zoneinfo

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/cooperativa-lactea-api/internal/application/analytics"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/auth"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/payments"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/ports"
	"github.com/jhoicas/cooperativa-lactea-api/internal/application/usecase"
	infraexcel "github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/excel"
	infranotify "github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/postgres"
	infrasms "github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/sms"
	httpRouter "github.com/jhoicas/cooperativa-lactea-api/internal/interfaces/http"
	"github.com/jhoicas/cooperativa-lactea-api/pkg/config"
	"github.com/jhoicas/cooperativa-lactea-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	loc := cfg.App.Location()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", loc.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	// El contador de códigos nunca queda por debajo de los códigos ya asignados
	if err := postgres.NewCounterRepository(pool).ResyncFarmerNumber(ctx); err != nil {
		log.Fatal().Err(err).Msg("sincronizar contador de productores")
	}

	userRepo := postgres.NewUserRepository(pool)
	centerRepo := postgres.NewCollectionCenterRepository(pool)
	farmerRepo := postgres.NewFarmerRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Avisos SMS: sin credenciales FDI se descartan
	var notifier ports.Notifier = ports.NopNotifier{}
	var dispatcher *infranotify.Dispatcher
	if cfg.SMS.Enabled() {
		dispatcher = infranotify.NewDispatcher(infrasms.NewClient(cfg.SMS), infranotify.Config{
			Timeout:  cfg.Payments.NotifyTimeout,
			Location: loc,
			Currency: cfg.Payments.Currency,
		}, log.Component("notify"))
		notifier = dispatcher
	} else {
		log.Warn().Msg("FDI_SMS_USERNAME/FDI_SMS_PASSWORD vacíos: avisos SMS deshabilitados")
	}

	authUC := auth.NewAuthUseCase(userRepo, centerRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	centerUC := usecase.NewCollectionCenterUseCase(centerRepo)
	farmerUC := usecase.NewFarmerUseCase(farmerRepo, centerRepo, txRunner, usecase.FarmerConfig{
		DefaultPricePerLiter: cfg.Payments.DefaultPricePerLiter,
		CodeRetries:          cfg.Payments.FarmerCodeRetries,
	})
	deliveryUC := usecase.NewDeliveryUseCase(deliveryRepo, farmerRepo, centerRepo, txRunner, notifier, loc)
	paymentsUC := payments.NewUseCase(payments.Deps{
		Farmers:    farmerRepo,
		Deliveries: deliveryRepo,
		Payments:   paymentRepo,
		Tx:         txRunner,
		Notifier:   notifier,
		Sheets:     infraexcel.NewPaymentsExporter(),
		Receipts:   infrapdf.NewReceiptGenerator(cfg.App.Name),
	}, payments.Config{
		Location: loc,
		Currency: cfg.Payments.Currency,
	}, log.Component("payments"))
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024, // importación CSV
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cooperativa Láctea API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CenterUC:    centerUC,
		FarmerUC:    farmerUC,
		DeliveryUC:  deliveryUC,
		PaymentsUC:  paymentsUC,
		DashboardUC: dashboardUC,
		Activity:    activityRepo,
		Log:         log.Component("http"),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if dispatcher != nil {
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("avisos SMS pendientes al apagar")
		}
	}

	log.Info().Msg("aplicación detenida")
}
