package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bizpulse/roadmap/internal/application"
	approadmaps "github.com/bizpulse/roadmap/internal/application/roadmaps"
	"github.com/bizpulse/roadmap/internal/config"
	"github.com/bizpulse/roadmap/internal/domain/playbooks"
	domain "github.com/bizpulse/roadmap/internal/domain/roadmaps"
	aiopenai "github.com/bizpulse/roadmap/internal/infra/ai/openai"
	mysqlp "github.com/bizpulse/roadmap/internal/infra/db/mysql"
	postgresp "github.com/bizpulse/roadmap/internal/infra/db/postgres"
	"github.com/bizpulse/roadmap/internal/infra/httpserver"
	minioStore "github.com/bizpulse/roadmap/internal/infra/storage"
	"github.com/bizpulse/roadmap/internal/logger"
	"github.com/bizpulse/roadmap/internal/middleware"
)

func main() {
	// .env kalau ada; diam-diam lanjut kalau tidak
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	appLog := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	// connect DB sesuai driver
	var (
		db   *sql.DB
		repo domain.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewRoadmapRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewRoadmapRepository(db)
	}
	defer db.Close()

	// playbook generator (optional, butuh API key)
	var generator playbooks.Generator
	if cfg.OpenAI.APIKey != "" {
		generator = aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		appLog.Warn("no openai api key configured, playbooks stay empty", nil)
	}

	// snapshot archive (optional)
	var archive domain.SnapshotStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// init service
	svc := &approadmaps.Service{
		Repo:      repo,
		Generator: generator,
		Archive:   archive,
		Clock:     application.SystemClock{},
		Log:       appLog,
	}

	// init router
	handler := httpserver.NewRouter(svc, appLog, httpserver.Options{
		RateLimitCapacity:   cfg.RateLimit.Capacity,
		RateLimitRefillRate: cfg.RateLimit.RefillRate,
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		appLog.Info("server listening", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	appLog.Info("shutting down server", nil)

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		appLog.Error("shutdown error", map[string]interface{}{"err": err.Error()})
	}
}
