package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
)

// AppConfig opciones de la app Fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string // lista separada por comas; vacío = sin CORS
	BodyLimit   int
}

// NewApp crea la app Fiber con recover, request id, CORS y access log.
func NewApp(cfg AppConfig, log zerolog.Logger) *fiber.App {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = 1 << 20
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 45,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: cfg.CORSOrigins != "*",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		}))
	}
	app.Use(AccessLog(log))
	return app
}

// errorHandler responde los *fiber.Error con el mismo formato que los handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}
	if code == fiber.StatusInternalServerError {
		return respondError(c, err)
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: errorCode(code), Message: err.Error()})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		return "HTTP_ERROR"
	}
}
