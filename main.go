package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"kizuna_web/internals/configs"
	database "kizuna_web/internals/databases"
	eventModel "kizuna_web/internals/features/content/events/model"
	jobModel "kizuna_web/internals/features/content/jobs/model"
	jobService "kizuna_web/internals/features/content/jobs/service"
	newsModel "kizuna_web/internals/features/content/news/model"
	authModel "kizuna_web/internals/features/users/auth/model"
	"kizuna_web/internals/features/users/auth/repository"
	scheduler "kizuna_web/internals/features/users/auth/scheduler"
	authService "kizuna_web/internals/features/users/auth/service"
	"kizuna_web/internals/helpers/storage"
	middlewares "kizuna_web/internals/middlewares"
	routes "kizuna_web/internals/route"
	"kizuna_web/internals/server"
	"kizuna_web/internals/store"
)

func main() {
	s := configs.LoadEnv()

	// 🔌 DB connect + pool + schema + warm-up
	db, err := database.ConnectDB(s)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	database.TunePool(db)
	if err := database.Migrate(db,
		&eventModel.EventModel{},
		&newsModel.NewsModel{},
		&jobModel.JobModel{},
		&authModel.AdminUserModel{},
		&authModel.TokenBlacklist{},
	); err != nil {
		log.Fatalf("❌ migrate: %v", err)
	}
	database.WarmUpQueries(db)

	// 🪣 PDF bucket
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	bucket, err := storage.Open(bootCtx, s)
	cancelBoot()
	if err != nil {
		log.Fatalf("❌ storage: %v", err)
	}
	log.Printf("[STORAGE] using %s", bucket.Name())

	// 🚦 limiter counters shared across instances when Redis is configured
	var limiterStorage fiber.Storage
	redisStore, err := middlewares.NewRedisStorage(s.RedisURL, "kizuna:limiter:")
	if err != nil {
		log.Printf("[WARN] redis unavailable, limiter counts in memory: %v", err)
	} else if redisStore != nil {
		limiterStorage = redisStore
	}

	blacklist := repository.NewGormBlacklist(db)
	sessions := authService.NewSessionManager(
		store.NewGormTable[authModel.AdminUserModel](db, authModel.AdminSpec),
		blacklist, s.JWTSecret, s.SessionTTL,
	)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sessions.EnsureAdmin(seedCtx, s.AdminEmail, s.AdminPassword); err != nil {
		log.Printf("[WARN] seed admin: %v", err)
	}
	cancelSeed()

	// ⏱ scheduler setelah DB siap
	cron, err := scheduler.StartBlacklistCleanupScheduler(blacklist, s.BlacklistCleanupSpec)
	if err != nil {
		log.Printf("[WARN] blacklist cleanup not scheduled: %v", err)
	}

	app := server.New(routes.Deps{
		Settings: s,
		Events:   store.NewGormTable[eventModel.EventModel](db, eventModel.Spec),
		News:     store.NewGormTable[newsModel.NewsModel](db, newsModel.Spec),
		Jobs: jobService.NewJobService(
			store.NewGormTable[jobModel.JobModel](db, jobModel.Spec),
			jobService.NewPDFGateway(bucket, s.PDFMaxBytes),
		),
		Sessions:       sessions,
		JobsPass:       authService.NewJobsPass(s.JobsBoardPassword, s.JWTSecret, s.JobsPassTTL),
		Bucket:         bucket,
		DBPing:         func(ctx context.Context) error { return database.Ping(ctx, db) },
		LimiterStorage: limiterStorage,
	})

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", s.Port)
		if err := app.Listen("0.0.0.0:" + s.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if cron != nil {
		<-cron.Stop().Done()
	}
	if redisStore != nil {
		_ = redisStore.Close()
	}
	database.Close(db)
}
