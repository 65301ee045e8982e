package route

import (
	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/features/site/controller"
)

func SitePageRoutes(app *fiber.App, ctrl *controller.SiteController, unlockLimiter fiber.Handler) {
	app.Get("/", ctrl.Home)
	app.Get("/about", ctrl.About)
	app.Get("/events", ctrl.EventsPage)
	app.Get("/news", ctrl.NewsPage)
	app.Get("/jobs", ctrl.JobsPage)
	app.Post("/jobs/unlock", unlockLimiter, ctrl.Unlock)
}

// AdminPageRoutes mounts the dashboard behind the session gate and the setup
// page without it.
func AdminPageRoutes(admin fiber.Router, dash *controller.DashboardController, setup *controller.SetupController, gate fiber.Handler) {
	admin.Get("/", gate, func(c *fiber.Ctx) error { return c.Redirect("/admin/dashboard", fiber.StatusSeeOther) })
	admin.Get("/dashboard", gate, dash.Show)
	admin.Get("/setup", setup.Show)
}
