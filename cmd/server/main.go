package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/config"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/infra"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/router"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async tasks (notifications, e-mail,
	// closing reports). Worker handlers are wired here (composition root) so
	// that the pool has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	terminalRepo := repository.NewTerminalRepository(db)
	movementRepo := repository.NewCashMovementRepository(db)
	remittanceRepo := repository.NewCashRemittanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueNotifications, worker.NewNotificationWorker(notificationRepo, userRepo, mailer))
	pool.Register(worker.QueueReports, worker.NewReportWorker(
		sessionRepo, terminalRepo, movementRepo, userRepo, dispatcher, cfg.PDFStoragePath,
	))
	pool.Start(ctx, cfg.WorkerPoolSize)

	// Reminds administrators about cash remittances that sat unconfirmed.
	worker.StartRemittanceCron(ctx, worker.RemittanceCronConfig{
		Remittances: remittanceRepo,
		Users:       userRepo,
		Dispatcher:  dispatcher,
		RDB:         rdb,
	})

	r := router.New(cfg, db, rdb, mailer.Breaker())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Farmacias Vallenar backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
