package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/momo-score/internal/config"
	"github.com/insightdelivered/momo-score/internal/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDLocal  = "requestid"
)

// NewApp builds the fiber app with middleware and routes.
func NewApp(cfg config.ServerConfig, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "momo-score",
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestIDMiddleware)
	app.Use(requestLogger(h.Log))
	app.Use(recover.New())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type," + requestIDHeader,
	}))

	h.RegisterRoutes(app)
	return app
}

// errorHandler renders fiber errors and recovered panics in the API's error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}
	return writeError(c, status, msg)
}

func requestIDMiddleware(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDHeader, id)
	c.Locals(requestIDLocal, id)
	return c.Next()
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

// requestLogger writes one line per request. Errors from the chain are
// rendered first so the logged status is the one the client sees. Handlers
// get a logger carrying the request id through the user context.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := log.With().Str("request_id", requestID(c)).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext(), reqLog))

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			reqLog.Error().Err(chainErr).
				Str("path", c.Path()).
				Msg("request failed")
		}

		reqLog.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
		return nil
	}
}
