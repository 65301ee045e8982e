package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// =======================
// SETTINGS
// =======================

// Settings is the typed view of the process environment. It is built once in
// main and handed to the pieces that need it.
type Settings struct {
	AppEnv string
	Port   string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	JWTSecret  string
	SessionTTL time.Duration

	JobsBoardPassword string
	JobsPassTTL       time.Duration

	AdminEmail    string
	AdminPassword string

	StorageDriver string // "oss" | "b2"
	StoragePrefix string
	PDFMaxBytes   int64

	OSSEndpoint      string
	OSSAccessKey     string
	OSSSecretKey     string
	OSSSecurityToken string
	OSSBucket        string
	OSSPublicBase    string

	B2AccountID  string
	B2AppKey     string
	B2Bucket     string
	B2PublicBase string

	RedisURL           string
	CORSAllowedOrigins []string
	// Proxies whose X-Forwarded-For is believed. Empty trusts no one.
	TrustedProxies []string

	BlacklistCleanupSpec string
}

func (s *Settings) IsDevelopment() bool {
	return strings.EqualFold(s.AppEnv, "development")
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() *Settings {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env not found, using system environment")
		} else {
			log.Println("✅ .env loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system environment")
	}

	s := FromEnv()

	if s.JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if s.JobsBoardPassword == "" {
		log.Println("❌ JOBS_BOARD_PASSWORD is not set, the job board cannot be unlocked")
	}
	return s
}

// FromEnv reads settings without touching .env files.
func FromEnv() *Settings {
	return &Settings{
		AppEnv: GetEnv("APP_ENV", "production"),
		Port:   GetEnv("PORT", "3000"),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		JWTSecret:  GetEnv("JWT_SECRET"),
		SessionTTL: time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,

		JobsBoardPassword: GetEnv("JOBS_BOARD_PASSWORD"),
		JobsPassTTL:       time.Duration(envInt("JOBS_PASS_TTL_DAYS", 365)) * 24 * time.Hour,

		AdminEmail:    strings.ToLower(strings.TrimSpace(GetEnv("ADMIN_EMAIL"))),
		AdminPassword: GetEnv("ADMIN_PASSWORD"),

		StorageDriver: strings.ToLower(GetEnv("STORAGE_DRIVER", "oss")),
		StoragePrefix: GetEnv("STORAGE_PREFIX", "job-pdfs"),
		PDFMaxBytes:   int64(envInt("PDF_MAX_BYTES", 10*1024*1024)),

		OSSEndpoint:      GetEnv("ALI_OSS_ENDPOINT"),
		OSSAccessKey:     GetEnv("ALI_OSS_ACCESS_KEY"),
		OSSSecretKey:     GetEnv("ALI_OSS_SECRET_KEY"),
		OSSSecurityToken: GetEnv("ALI_OSS_SECURITY_TOKEN"),
		OSSBucket:        GetEnv("ALI_OSS_BUCKET"),
		OSSPublicBase:    GetEnv("ALI_OSS_PUBLIC_BASE"),

		B2AccountID:  GetEnv("B2_ACCOUNT_ID"),
		B2AppKey:     GetEnv("B2_APP_KEY"),
		B2Bucket:     GetEnv("B2_BUCKET"),
		B2PublicBase: GetEnv("B2_PUBLIC_BASE"),

		RedisURL:           GetEnv("REDIS_URL"),
		CORSAllowedOrigins: splitList(GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		TrustedProxies:     splitList(GetEnv("TRUSTED_PROXIES")),

		BlacklistCleanupSpec: GetEnv("BLACKLIST_CLEANUP_CRON", "@daily"),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("[WARN] %s=%q is not a positive integer, using %d", key, v, def)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(development bool) gormLogger.Interface {
	level := gormLogger.Warn
	if development {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
