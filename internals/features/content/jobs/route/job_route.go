package route

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/content/jobs/controller"
	"kizuna_web/internals/features/content/jobs/service"
)

// Mounted under /api/public behind the jobs pass.
func JobPublicRoutes(api fiber.Router, jobs *service.JobService, gate fiber.Handler) {
	ctrl := controller.NewJobController(jobs)

	api.Get("/jobs", gate, ctrl.ListActive)
}

func JobAdminRoutes(api fiber.Router, jobs *service.JobService) {
	ctrl := controller.NewJobController(jobs)

	g := api.Group("/jobs")
	g.Get("/", ctrl.ListAll)
	g.Get("/:id", ctrl.GetByID)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Patch)
	g.Put("/:id/pdf", ctrl.PutPDF)
	g.Delete("/:id/pdf", ctrl.DeletePDF)
	g.Delete("/:id", ctrl.Delete)
}

func JobFormRoutes(admin fiber.Router, jobs *service.JobService, gate fiber.Handler) {
	ctrl := controller.NewJobFormController(jobs)

	g := admin.Group("/jobs", gate)
	g.Get("/new", ctrl.New)
	g.Post("/new", ctrl.Create)
	g.Get("/edit/:id", ctrl.Edit)
	g.Post("/edit/:id", ctrl.Update)
	g.Post("/edit/:id/pdf/delete", ctrl.DeletePDF)
	g.Post("/delete/:id", ctrl.Delete)
}
