package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/despachanota/despachanota-api/internal/application/emission"
	"github.com/despachanota/despachanota-api/internal/infrastructure/email"
	"github.com/despachanota/despachanota-api/internal/infrastructure/focusnfe"
	"github.com/despachanota/despachanota-api/internal/infrastructure/postgres"
	"github.com/despachanota/despachanota-api/pkg/cipher"
	"github.com/despachanota/despachanota-api/pkg/config"
	"github.com/despachanota/despachanota-api/pkg/logger"
)

// Ejecuta el barrido diario una sola vez y termina: pensado para un cron
// externo (crontab, CronJob de k8s) como alternativa al endpoint HTTP.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	key, err := cfg.Crypto.Key()
	if err != nil {
		log.Fatal().Err(err).Msg("clave de cifrado")
	}
	secrets, err := cipher.New(key)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar cifrado")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	settingsRepo := postgres.NewUserSettingsRepository(pool)
	configRepo := postgres.NewInvoiceConfigRepository(pool)
	emissionRepo := postgres.NewInvoiceEmissionRepository(pool)

	gateways := func(token string) emission.Gateway {
		return focusnfe.NewClient(token, cfg.FocusNFe.Environment)
	}

	var mailer emission.EmailSender
	if cfg.Mailgun.Domain != "" && cfg.Mailgun.APIKey != "" {
		mailer = email.NewMailgunDispatcher(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, cfg.Mailgun.FromAddress)
	}

	orchestrator := emission.NewOrchestrator(configRepo, settingsRepo, emissionRepo, secrets, gateways, mailer, log)
	sweep := emission.NewSweep(configRepo, orchestrator, log)

	report, err := sweep.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("barrido diario")
	}

	out, _ := json.Marshal(report)
	fmt.Println(string(out))
}
