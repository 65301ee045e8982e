package route

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/content/events/controller"
	"kizuna_web/internals/features/content/events/model"
	"kizuna_web/internals/store"
)

// Read-only JSON, mounted under /api/public.
func EventPublicRoutes(api fiber.Router, events store.Table[model.EventModel]) {
	ctrl := controller.NewEventController(events)

	g := api.Group("/events")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
}

// Session-gated JSON, mounted under /api/a.
func EventAdminRoutes(api fiber.Router, events store.Table[model.EventModel]) {
	ctrl := controller.NewEventController(events)

	g := api.Group("/events")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Patch)
	g.Delete("/:id", ctrl.Delete)
}

// Admin HTML forms, mounted under /admin.
func EventFormRoutes(admin fiber.Router, events store.Table[model.EventModel], gate fiber.Handler) {
	ctrl := controller.NewEventFormController(events)

	g := admin.Group("/events", gate)
	g.Get("/new", ctrl.New)
	g.Post("/new", ctrl.Create)
	g.Get("/edit/:id", ctrl.Edit)
	g.Post("/edit/:id", ctrl.Update)
	g.Post("/delete/:id", ctrl.Delete)
}
