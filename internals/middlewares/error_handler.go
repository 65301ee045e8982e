package middlewares

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/views"
)

// ErrorHandler is the app-wide fallback: JSON envelope under /api, the
// plain error page everywhere else.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "サーバーでエラーが発生しました。"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= 500 {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	if strings.HasPrefix(c.Path(), "/api") {
		return helper.JsonError(c, code, msg)
	}
	if code == fiber.StatusNotFound {
		msg = "ページが見つかりませんでした。"
	}
	if rerr := views.Error(c, code, msg); rerr != nil {
		log.Printf("[ERROR] render error page: %v", rerr)
		return c.Status(code).SendString(msg)
	}
	return nil
}
