package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/despachanota/despachanota-api/internal/application/auth"
	"github.com/despachanota/despachanota-api/internal/application/configs"
	"github.com/despachanota/despachanota-api/internal/application/emission"
	"github.com/despachanota/despachanota-api/internal/application/metrics"
	"github.com/despachanota/despachanota-api/internal/application/settings"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	ConfigUC     *configs.UseCase
	SettingsUC   *settings.UseCase
	MetricsUC    *metrics.UseCase
	Orchestrator *emission.Orchestrator
	Sweep        *emission.Sweep
	JWTSecret    string
	CronSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Segundo factor: requiere sesión (token del login) pero no el totp_ok.
	authGroup.Post("/verify-totp", AuthMiddleware(deps.JWTSecret), authHandler.VerifyTOTP)

	// Cron (autenticado con secreto compartido, no JWT)
	cronHandler := NewCronHandler(deps.Sweep, deps.CronSecret)
	api.Post("/cron/emit-invoices", cronHandler.EmitInvoices)

	// Rutas protegidas: Bearer Token + segundo factor verificado.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireTOTP())

	// Configuraciones de NFS-e
	invoices := protected.Group("/invoices")
	configHandler := NewConfigHandler(deps.ConfigUC)
	invoices.Post("/", configHandler.Create)
	invoices.Get("/", configHandler.List)
	invoices.Get("/:id", configHandler.GetByID)
	invoices.Put("/:id", configHandler.Update)
	invoices.Delete("/:id", configHandler.Delete)

	// Emisión y pipeline
	emissionHandler := NewEmissionHandler(deps.Orchestrator)
	invoices.Post("/:id/emit", emissionHandler.Emit)
	pipeline := protected.Group("/pipeline")
	pipeline.Get("/", emissionHandler.Pipeline)
	pipeline.Post("/:id/cancel", emissionHandler.Cancel)

	// Settings
	settingsGroup := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settingsGroup.Get("/", settingsHandler.Get)
	settingsGroup.Put("/", settingsHandler.Update)
	settingsGroup.Post("/reset-totp", settingsHandler.ResetTOTP)

	// Métricas
	metricsHandler := NewMetricsHandler(deps.MetricsUC)
	protected.Get("/metrics", metricsHandler.Dashboard)
	protected.Get("/government-status", metricsHandler.GovernmentStatus)
}
