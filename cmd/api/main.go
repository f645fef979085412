package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olamidek/coursehub/internal/auth"
	"github.com/olamidek/coursehub/internal/authprovider"
	"github.com/olamidek/coursehub/internal/cache"
	"github.com/olamidek/coursehub/internal/config"
	"github.com/olamidek/coursehub/internal/db"
	"github.com/olamidek/coursehub/internal/domain/session"
	httpx "github.com/olamidek/coursehub/internal/http"
	"github.com/olamidek/coursehub/internal/http/handlers"
	"github.com/olamidek/coursehub/internal/observability"
	"github.com/olamidek/coursehub/internal/queue"
	"github.com/olamidek/coursehub/internal/queue/redisclient"
	"github.com/olamidek/coursehub/internal/repo/postgres"
	"github.com/olamidek/coursehub/internal/storefront"
	"github.com/olamidek/coursehub/internal/whatsapp"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	// tracing
	shutdownTracer, err := observability.InitTracer(ctx, "coursehub-api", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// storage
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	productsRepo := postgres.NewProductsRepo(pool, prom)
	profilesRepo := postgres.NewProfilesRepo(pool, prom)
	enrollmentsRepo := postgres.NewEnrollmentsRepo(pool, prom)
	accountsRepo := postgres.NewAccountsRepo(pool, prom)
	refreshRepo := postgres.NewRefreshTokensRepo(pool)

	if err := db.EnsureSeedCatalog(ctx, pool, cfg, productsRepo); err != nil {
		log.Warn("catalog seeding failed", "err", err)
	}

	// redis job queue (optional: the storefront sells without it)
	var notices handlers.NoticeEnqueuer

	redisCli := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer redisCli.Close()

	redisPing := func() error {
		pctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()
		return redisCli.Ping(pctx)
	}

	if err := redisPing(); err != nil {
		log.Warn("redis unreachable, checkout notices disabled", "err", err)
	} else {
		notices = queue.New(redisCli.Raw())
	}

	// auth provider + session hub
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	provider := authprovider.NewLocal(accountsRepo, profilesRepo, jwtManager, refreshRepo, cfg.AdminEmail, log)

	policy := session.EmailAdminPolicy(cfg.AdminEmail)

	hub := storefront.NewHub(func() *storefront.Controller {
		return storefront.NewController(productsRepo, profilesRepo, enrollmentsRepo, policy, log, prom)
	}, log)

	detach := hub.Attach(provider)
	defer detach()

	dbPing := func() error {
		pctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()
		return pool.Ping(pctx)
	}

	router := httpx.NewRouter(httpx.RouterDeps{
		Cfg:      cfg,
		Log:      log,
		Prom:     prom,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Hub:      hub,
		Provider: provider,
		Verifier: jwtManager,
		Cache:    cache.New(10 * time.Second),
		Notices:  notices,
		Links:    whatsapp.NewBuilder(cfg.WhatsAppNumber),
		Pings: map[string]func() error{
			"db": dbPing,
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if err := shutdownTracer(sctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
