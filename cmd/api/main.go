package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/despachanota/despachanota-api/internal/application/auth"
	"github.com/despachanota/despachanota-api/internal/application/configs"
	"github.com/despachanota/despachanota-api/internal/application/emission"
	"github.com/despachanota/despachanota-api/internal/application/metrics"
	"github.com/despachanota/despachanota-api/internal/application/settings"
	"github.com/despachanota/despachanota-api/internal/infrastructure/email"
	"github.com/despachanota/despachanota-api/internal/infrastructure/focusnfe"
	"github.com/despachanota/despachanota-api/internal/infrastructure/postgres"
	httpRouter "github.com/despachanota/despachanota-api/internal/interfaces/http"
	"github.com/despachanota/despachanota-api/pkg/cipher"
	"github.com/despachanota/despachanota-api/pkg/config"
	"github.com/despachanota/despachanota-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	key, err := cfg.Crypto.Key()
	if err != nil {
		log.Fatal().Err(err).Msg("clave de cifrado")
	}
	secrets, err := cipher.New(key)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar cifrado")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	settingsRepo := postgres.NewUserSettingsRepository(pool)
	configRepo := postgres.NewInvoiceConfigRepository(pool)
	emissionRepo := postgres.NewInvoiceEmissionRepository(pool)

	// El token del API fiscal es por usuario (cifrado en settings), así que el
	// gateway se construye por emisión, no en el arranque.
	gateways := func(token string) emission.Gateway {
		return focusnfe.NewClient(token, cfg.FocusNFe.Environment)
	}
	probe := func(ctx context.Context, token string) string {
		return focusnfe.NewClient(token, cfg.FocusNFe.Environment).CheckHealth(ctx)
	}

	var mailer emission.EmailSender
	if cfg.Mailgun.Domain != "" && cfg.Mailgun.APIKey != "" {
		mailer = email.NewMailgunDispatcher(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, cfg.Mailgun.FromAddress)
	} else {
		log.Warn().Msg("Mailgun sin configurar: el envío de notas por correo queda deshabilitado")
	}

	authUC := auth.NewUseCase(userRepo, settingsRepo, secrets, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	configUC := configs.NewUseCase(configRepo, secrets)
	settingsUC := settings.NewUseCase(userRepo, settingsRepo, secrets)
	metricsUC := metrics.NewUseCase(configRepo, emissionRepo, settingsRepo, secrets, probe)
	orchestrator := emission.NewOrchestrator(configRepo, settingsRepo, emissionRepo, secrets, gateways, mailer, log)
	sweep := emission.NewSweep(configRepo, orchestrator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Despacha Nota API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ConfigUC:     configUC,
		SettingsUC:   settingsUC,
		MetricsUC:    metricsUC,
		Orchestrator: orchestrator,
		Sweep:        sweep,
		JWTSecret:    cfg.JWT.Secret,
		CronSecret:   cfg.Cron.Secret,
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

	log.Info().Msg("aplicación detenida")
}
