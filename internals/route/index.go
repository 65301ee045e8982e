package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/configs"
	eventModel "kizuna_web/internals/features/content/events/model"
	eventRoute "kizuna_web/internals/features/content/events/route"
	jobService "kizuna_web/internals/features/content/jobs/service"
	jobRoute "kizuna_web/internals/features/content/jobs/route"
	newsModel "kizuna_web/internals/features/content/news/model"
	newsRoute "kizuna_web/internals/features/content/news/route"
	siteController "kizuna_web/internals/features/site/controller"
	siteRoute "kizuna_web/internals/features/site/route"
	authService "kizuna_web/internals/features/users/auth/service"
	authRoute "kizuna_web/internals/features/users/auth/route"
	"kizuna_web/internals/helpers/storage"
	"kizuna_web/internals/middlewares"
	authMiddleware "kizuna_web/internals/middlewares/auth"
	"kizuna_web/internals/store"
)

var startTime time.Time

// Deps is everything the routes need, built once in main (or a test).
type Deps struct {
	Settings *configs.Settings

	Events store.Table[eventModel.EventModel]
	News   store.Table[newsModel.NewsModel]
	Jobs   *jobService.JobService

	Sessions *authService.SessionManager
	JobsPass *authService.JobsPass

	Bucket storage.Bucket
	// DBPing backs /health and the setup page.
	DBPing func(ctx context.Context) error
	// LimiterStorage may be nil; limiters then count in memory.
	LimiterStorage fiber.Storage
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	secure := !d.Settings.IsDevelopment()

	loginLimiter := middlewares.LoginRateLimiter(d.LimiterStorage)
	unlockLimiter := middlewares.UnlockRateLimiter(d.LimiterStorage)

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, d)

	// ===================== PUBLIC PAGES =====================
	log.Println("[INFO] Setting up site pages...")
	site := siteController.NewSiteController(d.Events, d.News, d.Jobs, d.JobsPass, secure)
	siteRoute.SitePageRoutes(app, site, unlockLimiter)

	// ===================== ADMIN PAGES (cookie + csrf) =====================
	log.Println("[INFO] Setting up ADMIN pages (csrf, session per route)...")
	admin := app.Group("/admin", middlewares.CSRFMiddleware(secure))
	pageGate := authMiddleware.RequireAdminPage(d.Sessions)

	authRoute.AuthPageRoutes(admin, d.Sessions, loginLimiter, pageGate, secure)
	siteRoute.AdminPageRoutes(admin,
		siteController.NewDashboardController(d.Events, d.News, d.Jobs),
		siteController.NewSetupController(d.Settings,
			siteController.Check{Name: "データベース", Ping: d.DBPing},
			siteController.Check{Name: "ストレージ (" + d.Bucket.Name() + ")", Ping: d.Bucket.Ping},
		),
		pageGate,
	)
	eventRoute.EventFormRoutes(admin, d.Events, pageGate)
	newsRoute.NewsFormRoutes(admin, d.News, pageGate)
	jobRoute.JobFormRoutes(admin, d.Jobs, pageGate)

	// ===================== JSON API =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthAPIRoutes(app, d.Sessions, loginLimiter)

	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	eventRoute.EventPublicRoutes(public, d.Events)
	newsRoute.NewsPublicRoutes(public, d.News)
	jobRoute.JobPublicRoutes(public, d.Jobs, authMiddleware.RequireJobsPassAPI(d.JobsPass))

	log.Println("[INFO] Setting up ADMIN group (bearer)...")
	api := app.Group("/api/a", authMiddleware.RequireAdminAPI(d.Sessions))
	eventRoute.EventAdminRoutes(api, d.Events)
	newsRoute.NewsAdminRoutes(api, d.News)
	jobRoute.JobAdminRoutes(api, d.Jobs)
}
