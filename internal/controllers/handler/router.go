package handler

import (
	"planner/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	handler  Handler
	app      *fiber.App
	conf     *config.Config
	logger   *zap.SugaredLogger
	gatherer prometheus.Gatherer
}

func NewRouter(handler Handler, app *fiber.App, conf *config.Config, logger *zap.SugaredLogger, gatherer prometheus.Gatherer) *Router {
	return &Router{
		logger:   logger,
		app:      app,
		conf:     conf,
		handler:  handler,
		gatherer: gatherer,
	}
}

func (r *Router) RegisterRouter() {
	r.app.Get("/health", r.handler.HealthCheck)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	r.app.Route("/calendar", func(router fiber.Router) {

		router.Use("/swagger/*", swagger.New(swagger.Config{
			DeepLinking: false,
			URL:         "/calendar/swagger/doc.json",
		}))

		api := router.Group("/api")

		v1 := api.Group("/v1")

		v1.Post("/event", r.handler.CreateEvent)
		v1.Get("/event", r.handler.GetEvents)
		v1.Patch("/event", r.handler.UpdateEvent)
		v1.Post("/event/conflicts", r.handler.CheckConflicts)
		// export.ics раньше /event/:id, иначе уйдет в GetEvent
		v1.Get("/event/export.ics", r.handler.ExportICS)
		v1.Get("/event/:id", r.handler.GetEvent)
		v1.Get("/event/:id/occurrences", r.handler.Occurrences)
		v1.Delete("/event/:id", r.handler.DeleteEvent)

		v1.Get("/notifications", r.handler.Notifications)
		v1.Post("/notifications/:id/ack", r.handler.AckNotification)

		v1.Get("/calendar", r.handler.Calendar)
		v1.Get("/holidays", r.handler.Holidays)
		v1.Get("/meta", r.handler.Meta)
	})
}
