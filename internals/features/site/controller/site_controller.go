package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	eventModel "kizuna_web/internals/features/content/events/model"
	jobService "kizuna_web/internals/features/content/jobs/service"
	newsModel "kizuna_web/internals/features/content/news/model"
	authService "kizuna_web/internals/features/users/auth/service"
	helper "kizuna_web/internals/helpers"
	authMiddleware "kizuna_web/internals/middlewares/auth"
	"kizuna_web/internals/store"
	"kizuna_web/internals/views"
)

const homeLimit = 3

// SiteController renders the public pages. List failures are logged and the
// page falls back to its empty state; visitors never see a store error.
type SiteController struct {
	Events       store.Table[eventModel.EventModel]
	News         store.Table[newsModel.NewsModel]
	Jobs         *jobService.JobService
	Pass         *authService.JobsPass
	SecureCookie bool

	now func() time.Time
}

func NewSiteController(
	events store.Table[eventModel.EventModel],
	news store.Table[newsModel.NewsModel],
	jobs *jobService.JobService,
	pass *authService.JobsPass,
	secure bool,
) *SiteController {
	return &SiteController{Events: events, News: news, Jobs: jobs, Pass: pass, SecureCookie: secure, now: time.Now}
}

// GET /
func (ctrl *SiteController) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	today := datatypes.Date(helper.Today(ctrl.now(), views.Location()))

	events, err := ctrl.Events.List(ctx, store.ListOptions{
		OrderBy:   "date",
		Direction: store.Asc,
		Gte:       map[string]any{"date": today},
		Limit:     homeLimit,
	})
	if err != nil {
		log.Printf("[WARN] home: upcoming events: %v", err)
		events = nil
	}
	news, err := ctrl.News.List(ctx, store.ListOptions{
		OrderBy:   "published_date",
		Direction: store.Desc,
		Limit:     homeLimit,
	})
	if err != nil {
		log.Printf("[WARN] home: latest news: %v", err)
		news = nil
	}
	return views.Site(c, "home", "home", fiber.Map{"Events": events, "News": news})
}

// GET /about
func (ctrl *SiteController) About(c *fiber.Ctx) error {
	return views.Site(c, "about", "about", fiber.Map{"Title": "私たちについて"})
}

// GET /events
func (ctrl *SiteController) EventsPage(c *fiber.Ctx) error {
	rows, err := ctrl.Events.List(c.UserContext(), store.ListOptions{OrderBy: "date", Direction: store.Asc})
	if err != nil {
		log.Printf("[WARN] events page: %v", err)
		rows = nil
	}
	return views.Site(c, "events", "events", fiber.Map{"Title": "イベント", "Events": rows})
}

// GET /news
func (ctrl *SiteController) NewsPage(c *fiber.Ctx) error {
	rows, err := ctrl.News.List(c.UserContext(), store.ListOptions{OrderBy: "published_date", Direction: store.Desc})
	if err != nil {
		log.Printf("[WARN] news page: %v", err)
		rows = nil
	}
	return views.Site(c, "news", "news", fiber.Map{"Title": "お知らせ", "News": rows})
}

// GET /jobs: the prompt until the browser holds a valid pass.
func (ctrl *SiteController) JobsPage(c *fiber.Ctx) error {
	if !authMiddleware.HasJobsPass(c, ctrl.Pass) {
		return ctrl.locked(c, fiber.StatusOK, "")
	}
	rows, err := ctrl.Jobs.ListActive(c.UserContext())
	if err != nil {
		log.Printf("[WARN] jobs page: %v", err)
		rows = nil
	}
	return views.Site(c, "jobs", "jobs", fiber.Map{"Title": "求人情報", "Jobs": rows})
}

// POST /jobs/unlock
func (ctrl *SiteController) Unlock(c *fiber.Ctx) error {
	token, exp, err := ctrl.Pass.Unlock(c.FormValue("password"))
	if err != nil {
		return ctrl.locked(c, fiber.StatusUnauthorized, err.Error())
	}
	c.Cookie(&fiber.Cookie{
		Name:     authService.JobsPassCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   ctrl.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/jobs", fiber.StatusSeeOther)
}

func (ctrl *SiteController) locked(c *fiber.Ctx, status int, msg string) error {
	c.Status(status)
	return views.Site(c, "jobs_locked", "jobs", fiber.Map{"Title": "求人情報", "Error": msg})
}
