package database

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kizuna_web/internals/configs"
)

// ConnectDB opens the Postgres pool. Statement timeout matches the 5s request guard in main.
func ConnectDB(s *configs.Settings) (*gorm.DB, error) {
	log.Println("🔌 Connecting to PostgreSQL...")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=kizuna_web&options=-c statement_timeout=5000",
		s.DBUser, s.DBPassword, s.DBHost, s.DBPort, s.DBName, s.DBSSLMode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(s.IsDevelopment()),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	log.Println("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("[WARN] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// columnDefaulter is implemented by models whose DB defaults cannot live in
// the gorm tag.
type columnDefaulter interface {
	TableName() string
	ColumnDefaults() map[string]string
}

// Migrate creates the tables the site needs. Models are passed in so this
// package stays free of feature imports.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("[WARN] pgcrypto extension: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}
	// AutoMigrate may drop defaults it does not know about, so these run on every boot.
	for _, stmt := range columnDefaultStatements(models...) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("column default: %w", err)
		}
	}
	return nil
}

func columnDefaultStatements(models ...any) []string {
	var out []string
	for _, m := range models {
		cd, ok := m.(columnDefaulter)
		if !ok {
			continue
		}
		defaults := cd.ColumnDefaults()
		cols := make([]string, 0, len(defaults))
		for col := range defaults {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			out = append(out, fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s`,
				quoteIdent(cd.TableName()), quoteIdent(col), defaults[col]))
		}
	}
	return out
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(context.Background(), db); err != nil {
			log.Printf("[WARN] warm-up ping err: %v", err)
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
