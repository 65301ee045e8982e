package route

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/content/news/controller"
	"kizuna_web/internals/features/content/news/model"
	"kizuna_web/internals/store"
)

func NewsPublicRoutes(api fiber.Router, news store.Table[model.NewsModel]) {
	ctrl := controller.NewNewsController(news)

	g := api.Group("/news")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
}

func NewsAdminRoutes(api fiber.Router, news store.Table[model.NewsModel]) {
	ctrl := controller.NewNewsController(news)

	g := api.Group("/news")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Patch)
	g.Delete("/:id", ctrl.Delete)
}

func NewsFormRoutes(admin fiber.Router, news store.Table[model.NewsModel], gate fiber.Handler) {
	ctrl := controller.NewNewsFormController(news)

	g := admin.Group("/news", gate)
	g.Get("/new", ctrl.New)
	g.Post("/new", ctrl.Create)
	g.Get("/edit/:id", ctrl.Edit)
	g.Post("/edit/:id", ctrl.Update)
	g.Post("/delete/:id", ctrl.Delete)
}
