package httpserver

import (
	"errors"
	"planner/pkg/config"
	"planner/pkg/metrics"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const defaultBodyLimit = 1024 * 1024

func NewFiber(conf config.Config, m *metrics.Metrics) *fiber.App {
	bodyLimit := conf.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 1024 * 100,
			BodyLimit:      bodyLimit,
			ErrorHandler:   errorHandler,
		},
	)

	app.Use(
		cors.New(cors.Config{
			AllowOrigins:  "*", // Разрешаем все источники по умолчанию
			ExposeHeaders: "Content-Disposition",
		}),
		recover.New(recover.Config{
			EnableStackTrace: true,
		}),
		logger.New(),
		metricsMiddleware(m),
	)

	return app
}

// errorHandler сохраняет код *fiber.Error (404 неизвестного маршрута, 413 и т.д.), остальное - 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// metricsMiddleware считает запросы по шаблону маршрута, чтобы id в пути не раздували кардинальность.
func metricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Path()
		method := c.Method()
		if r := c.Route(); r != nil {
			if r.Path != "" {
				path = r.Path
			}
			if r.Method != "" {
				method = r.Method
			}
		}
		method = normalizeHTTPMethod(method)

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		statusStr := strconv.Itoa(status)
		m.API.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.API.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
		return err
	}
}

// normalizeHTTPMethod приводит метод к стандартному виду; нестандартные методы схлопываются в OTHER.
func normalizeHTTPMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodPatch,
		fiber.MethodHead, fiber.MethodOptions, fiber.MethodTrace, fiber.MethodConnect:
		return method
	default:
		return "OTHER"
	}
}
