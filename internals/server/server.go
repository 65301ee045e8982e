// Package server assembles the Fiber app from its dependencies, so main and
// the HTTP tests run the exact same stack.
package server

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"kizuna_web/internals/middlewares"
	routes "kizuna_web/internals/route"
	"kizuna_web/internals/views"
)

// requestTimeout matches statement_timeout in the database DSN.
const requestTimeout = 5 * time.Second

// bodySlack leaves room for the other form fields next to the PDF.
const bodySlack = 1 << 20

func New(d routes.Deps) *fiber.App {
	cfg := fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		Views:                 views.NewEngine(),
		ErrorHandler:          middlewares.ErrorHandler,
		BodyLimit:             int(d.Settings.PDFMaxBytes) + bodySlack,
		DisableStartupMessage: true,
		// Parsed form values end up in stored rows; they must not alias
		// fasthttp's reused request buffers.
		Immutable: true,
	}
	// X-Forwarded-For is honoured only from the configured proxies, otherwise
	// a client could pick its own IP and dodge the limiters.
	if len(d.Settings.TrustedProxies) > 0 {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
		cfg.EnableTrustedProxyCheck = true
		cfg.TrustedProxies = d.Settings.TrustedProxies
	}
	app := fiber.New(cfg)

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.RequestContext(requestTimeout))

	middlewares.SetupMiddlewares(app, d.Settings, d.LimiterStorage)
	routes.SetupRoutes(app, d)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second
	return app
}
