package controller

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/configs"
	"kizuna_web/internals/views"
)

// Check is one reachability probe shown on the setup page.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type settingRow struct {
	Label  string
	Env    string
	Set    bool
	Masked string
}

type checkRow struct {
	Name   string
	OK     bool
	Detail string
}

// SetupController is a read-only view of the backend configuration for
// local development. Values are never shown in full and cannot be edited.
type SetupController struct {
	Settings *configs.Settings
	Checks   []Check
}

func NewSetupController(s *configs.Settings, checks ...Check) *SetupController {
	return &SetupController{Settings: s, Checks: checks}
}

// GET /admin/setup (development only)
func (ctrl *SetupController) Show(c *fiber.Ctx) error {
	if !ctrl.Settings.IsDevelopment() {
		return fiber.ErrNotFound
	}

	s := ctrl.Settings
	rows := []settingRow{
		row("データベース ホスト", "DB_HOST", s.DBHost, false),
		row("データベース名", "DB_NAME", s.DBName, false),
		row("データベース ユーザー", "DB_USER", s.DBUser, false),
		row("データベース パスワード", "DB_PASSWORD", s.DBPassword, true),
		row("セッション署名鍵", "JWT_SECRET", s.JWTSecret, true),
		row("求人情報パスワード", "JOBS_BOARD_PASSWORD", s.JobsBoardPassword, true),
		row("管理者メールアドレス", "ADMIN_EMAIL", s.AdminEmail, false),
		row("ストレージ", "STORAGE_DRIVER", s.StorageDriver, false),
	}
	switch s.StorageDriver {
	case "b2":
		rows = append(rows,
			row("B2 アカウントID", "B2_ACCOUNT_ID", s.B2AccountID, false),
			row("B2 アプリケーションキー", "B2_APP_KEY", s.B2AppKey, true),
			row("B2 バケット", "B2_BUCKET", s.B2Bucket, false),
		)
	case "oss", "":
		rows = append(rows,
			row("OSS エンドポイント", "ALI_OSS_ENDPOINT", s.OSSEndpoint, false),
			row("OSS アクセスキー", "ALI_OSS_ACCESS_KEY", s.OSSAccessKey, true),
			row("OSS シークレットキー", "ALI_OSS_SECRET_KEY", s.OSSSecretKey, true),
			row("OSS バケット", "ALI_OSS_BUCKET", s.OSSBucket, false),
		)
	}
	rows = append(rows, row("Redis", "REDIS_URL", s.RedisURL, true))

	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()
	checks := make([]checkRow, 0, len(ctrl.Checks))
	for _, ch := range ctrl.Checks {
		r := checkRow{Name: ch.Name, OK: true}
		switch {
		case ch.Ping == nil:
			r.OK, r.Detail = false, "未設定"
		default:
			if err := ch.Ping(ctx); err != nil {
				r.OK, r.Detail = false, err.Error()
			}
		}
		checks = append(checks, r)
	}

	return views.Admin(c, "setup", fiber.Map{
		"Title":    "セットアップ",
		"Settings": rows,
		"Checks":   checks,
	})
}

func row(label, env, value string, secret bool) settingRow {
	return settingRow{Label: label, Env: env, Set: value != "", Masked: mask(value, secret)}
}

// mask keeps a short prefix of non-secret values so the admin can tell
// which host or bucket is configured. Secrets show nothing.
func mask(v string, secret bool) string {
	if v == "" {
		return ""
	}
	if secret || utf8.RuneCountInString(v) <= 4 {
		return "********"
	}
	r := []rune(v)
	return string(r[:4]) + "****"
}
