package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/beancode/signalist-backend/internal/data/db"
	"github.com/beancode/signalist-backend/internal/data/repos/runs"
	"github.com/beancode/signalist-backend/internal/data/repos/users"
	"github.com/beancode/signalist-backend/internal/data/repos/watchlist"
	"github.com/beancode/signalist-backend/internal/digest"
	httpserver "github.com/beancode/signalist-backend/internal/http"
	httpH "github.com/beancode/signalist-backend/internal/http/handlers"
	"github.com/beancode/signalist-backend/internal/platform/envutil"
	"github.com/beancode/signalist-backend/internal/platform/finnhub"
	"github.com/beancode/signalist-backend/internal/platform/gemini"
	"github.com/beancode/signalist-backend/internal/platform/logger"
	"github.com/beancode/signalist-backend/internal/platform/sendgrid"
	"github.com/beancode/signalist-backend/internal/scheduler"
	"github.com/beancode/signalist-backend/internal/temporalx"
	"github.com/beancode/signalist-backend/internal/temporalx/digestrun"
	"github.com/beancode/signalist-backend/internal/temporalx/temporalworker"
	"github.com/beancode/signalist-backend/internal/temporalx/welcomerun"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	defer postgresService.Close()
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := users.NewUserRepo(thePG, log)
	watchlistRepo := watchlist.NewWatchlistRepo(thePG, log)
	runRepo := runs.NewDigestRunRepo(thePG, log)

	// Redis (optional; only backs the news cache)
	var rdb *goredis.Client
	if addr := envutil.String("REDIS_ADDR", ""); addr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		})
		defer rdb.Close()
	}

	// Outbound clients
	log.Info("Setting up outbound clients from main...")
	newsClient, err := finnhub.New(log, finnhub.ConfigFromEnv(), rdb)
	if err != nil {
		log.Error("Could not init Finnhub client", "error", err)
		os.Exit(1)
	}
	llmClient, err := gemini.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init Gemini client", "error", err)
		os.Exit(1)
	}
	mailClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init SendGrid client", "error", err)
		os.Exit(1)
	}

	// Pipeline stages
	concurrency := envutil.Int("DIGEST_CONCURRENCY", 8)
	directory := digest.NewDirectoryReader(log, thePG, userRepo)
	resolver := digest.NewWatchlistResolver(log, thePG, watchlistRepo)
	bundles := digest.NewBundleBuilder(log, resolver, newsClient, concurrency)
	summarizer := digest.NewSummarizer(log, llmClient, concurrency)
	dispatcher := digest.NewDispatcher(log, mailClient, concurrency)

	// Temporal
	log.Info("Setting up Temporal from main...")
	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Temporal dial failed", "error", err)
		os.Exit(1)
	}
	var sched *scheduler.Scheduler
	if temporalClient != nil {
		defer temporalClient.Close()

		digestActs := &digestrun.Activities{
			Log:        log,
			DB:         thePG,
			Directory:  directory,
			Bundles:    bundles,
			Summarizer: summarizer,
			Dispatcher: dispatcher,
			Runs:       runRepo,
		}
		welcomeActs := &welcomerun.Activities{
			Log:        log,
			Summarizer: summarizer,
			Dispatcher: dispatcher,
		}
		runner, err := temporalworker.NewRunner(log, temporalClient, digestActs, welcomeActs)
		if err != nil {
			log.Error("Could not init Temporal worker", "error", err)
			os.Exit(1)
		}
		if err := runner.Start(rootCtx); err != nil {
			log.Error("Temporal worker start failed", "error", err)
			os.Exit(1)
		}

		sched, err = scheduler.New(log, temporalClient)
		if err != nil {
			log.Error("Could not init scheduler", "error", err)
			os.Exit(1)
		}
		if err := sched.Start(rootCtx); err != nil {
			log.Error("Scheduler start failed", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("TEMPORAL_ADDRESS not set; digest schedule and welcome flow are disabled")
	}

	// HTTP
	log.Info("Setting up HTTP server from main...")
	srv := httpserver.NewServer(httpserver.RouterConfig{
		SignupHandler: httpH.NewSignupHandler(log, thePG, userRepo, temporalClient),
		DigestHandler: httpH.NewDigestHandler(log, thePG, runRepo, sched),
		HealthHandler: httpH.NewHealthHandler(),
	})

	address := envutil.String("HTTP_ADDR", ":8080")
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(address) }()
	log.Info("HTTP server listening", "address", address)

	select {
	case <-rootCtx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
}
