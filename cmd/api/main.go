package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	_ "github.com/jhoicas/fbr-invoicing/docs"
	"github.com/jhoicas/fbr-invoicing/internal/bootstrap"
	httpRouter "github.com/jhoicas/fbr-invoicing/internal/interfaces/http"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
	"github.com/jhoicas/fbr-invoicing/pkg/logger"
)

// @title                       FBR Invoicing API
// @version                     1.0
// @description                 Facturación digital FBR (Pakistán) multiusuario.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	container, err := bootstrap.New(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer container.Close()

	// Compromisos pendientes de una corrida anterior (FBR aceptó, la DB falló).
	report, err := container.RecoverPending(ctx)
	switch {
	case errors.Is(err, bootstrap.ErrReplayUnavailable):
		log.Warn().Msg("almacenamiento en memoria: no se reproduce el journal de compromisos pendientes")
	case err != nil:
		log.Error().Err(err).Msg("recuperación de compromisos pendientes")
	case report.Pending > 0:
		log.Info().
			Int("pending", report.Pending).
			Int("recovered", len(report.Recovered)).
			Int("failed", len(report.Failed)).
			Msg("recuperación de compromisos pendientes")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, log.WithComponent("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FBR Invoicing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": cfg.App.Name,
			"fbr":     container.Gateway.Environment(),
			"mock":    container.Gateway.IsMock(),
		})
	})

	httpRouter.Router(app, container.RouterDeps())

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
