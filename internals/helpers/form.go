package helper

import (
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const DashboardPath = "/admin/dashboard"

// Notice codes carried to the dashboard after a form succeeds. The dashboard
// owns the wording, so the query string never carries display text.
const (
	NoticeCreated  = "created"
	NoticeUpdated  = "updated"
	NoticeDeleted  = "deleted"
	NoticeMissing  = "missing"
	NoticePDFGone  = "pdf_removed"
	NoticeJobSaved = "job_updated"
)

func RedirectWithNotice(c *fiber.Ctx, code string) error {
	return c.Redirect(DashboardPath+"?notice="+url.QueryEscape(code), fiber.StatusSeeOther)
}

// FormError turns a validator failure into one inline message. labels maps
// struct field names to what the form calls them.
func FormError(err error, labels map[string]string) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var missing, malformed []string
	for _, fe := range ve {
		label := labels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		if fe.Tag() == "required" {
			missing = append(missing, "「"+label+"」")
		} else {
			malformed = append(malformed, "「"+label+"」")
		}
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, strings.Join(missing, "")+"を入力してください。")
	}
	if len(malformed) > 0 {
		parts = append(parts, strings.Join(malformed, "")+"の値が正しくありません。")
	}
	return strings.Join(parts, " ")
}
