package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comandapos/internal/config"
	"comandapos/internal/infra"
	"comandapos/internal/middleware"
	"comandapos/internal/notify"
	"comandapos/internal/repository"
	"comandapos/internal/router"
	"comandapos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// SIGINT / SIGTERM cancelan ctx: servidor, workers y relay terminan juntos.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Eventos ──────────────────────────────────────────────────────────────
	// Los servicios publican en Redis; el relay de cada instancia reenvía al
	// hub local, que alimenta los clientes SSE.
	hub := notify.NewHub(64)
	sinks := []notify.Sink{notify.NewRedisSink(rdb, cfg.EventsChannel)}

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	breakers := []*infra.CircuitBreaker{smtpCB}

	if cfg.RabbitMQURL != "" {
		amqpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("amqp"))
		amqpSink, err := notify.NewAMQPSink(cfg.RabbitMQURL, cfg.EventsExchange, amqpCB)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, events will not be replicated")
		} else {
			defer amqpSink.Close()
			sinks = append(sinks, amqpSink)
			breakers = append(breakers, amqpCB)
		}
	}
	broadcaster := notify.NewBroadcaster(sinks...)

	// ── Workers ──────────────────────────────────────────────────────────────
	// Handlers wired here (composition root) so the pool has full access to
	// the infrastructure it needs.
	mailer := infra.NewMailer(cfg, smtpCB)
	dispatcher := worker.NewDispatcher(rdb)
	pool := worker.NewPool(rdb)
	comprobantes := worker.NewComprobanteWorker(
		repository.NewFacturaRepository(db), dispatcher, cfg.BusinessName, cfg.PDFStoragePath, mailer.Enabled(),
	)
	pool.Handle(worker.QueueComprobante, worker.JobComprobante, comprobantes.Process)
	pool.Handle(worker.QueueEmail, worker.JobEmail, worker.NewEmailWorker(mailer).Process)

	limiter := middleware.NewRateLimiter(1000, time.Minute) // 1000 req/min per IP

	r := router.New(router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Hub:      hub,
		Notif:    broadcaster,
		Jobs:     dispatcher,
		Limiter:  limiter,
		Breakers: breakers,
	})

	// WriteTimeout 0: el stream SSE queda abierto mientras el cliente esté conectado.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("comanda backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return pool.Run(gctx, cfg.WorkerPoolSize) })
	g.Go(func() error { return notify.Relay(gctx, rdb, cfg.EventsChannel, hub) })
	g.Go(func() error {
		limiter.Purge(gctx, 5*time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev pretty, prod JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
