package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/helpers/storage"
)

func BaseRoutes(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if d.DBPing == nil || d.DBPing(ctx) != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"storage":        d.Bucket.Name(),
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    d.Settings.AppEnv,
		})
	})

	// Objects of the in-process bucket, for local runs without cloud storage.
	if mem, ok := d.Bucket.(*storage.MemoryBucket); ok {
		app.Get("/_objects/:key", func(c *fiber.Ctx) error {
			obj, found := mem.Get(c.Params("key"))
			if !found {
				return fiber.ErrNotFound
			}
			c.Set(fiber.HeaderContentType, obj.ContentType)
			c.Set(fiber.HeaderContentDisposition, "inline")
			return c.Send(obj.Data)
		})
	}
}
