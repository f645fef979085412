package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/olamidek/coursehub/internal/config"
	"github.com/olamidek/coursehub/internal/db"
	"github.com/olamidek/coursehub/internal/notifications"
	"github.com/olamidek/coursehub/internal/observability"
	"github.com/olamidek/coursehub/internal/queue"
	"github.com/olamidek/coursehub/internal/queue/redisclient"
	"github.com/olamidek/coursehub/internal/queue/worker"
	"github.com/olamidek/coursehub/internal/repo/postgres"
	"github.com/olamidek/coursehub/internal/whatsapp"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	prom := observability.NewProm(prometheus.NewRegistry())

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	redisCli := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer redisCli.Close()

	if err := redisCli.Ping(ctx); err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	enrollmentsRepo := postgres.NewEnrollmentsRepo(pool, prom)

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(log),
		notifications.ProtectedNotifierConfig{},
	)

	host, _ := os.Hostname()
	workerID := host + "-" + strconv.Itoa(os.Getpid())

	w := worker.New(worker.Config{
		DequeueWait: 2 * time.Second,
		WorkerID:    workerID,
	}, queue.New(redisCli.Raw()), notifier, enrollmentsRepo, whatsapp.NewBuilder(cfg.WhatsAppNumber), log, prom)

	// health endpoints on a side port
	healthSrv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port+1),
		Handler:           w.HealthHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health server failed", "err", err)
		}
	}()

	log.Info("worker started", "worker_id", workerID)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
	}

	sctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(sctx)

	log.Info("worker shutdown complete")
}
