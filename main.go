package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_server_go/auth"
	"study_server_go/config"
	"study_server_go/controllers"
	"study_server_go/cycle"
	"study_server_go/data"
	"study_server_go/notify"
	"study_server_go/scheduler"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	log := config.NewLogger(cfg, os.Stderr)

	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := data.Open(ctx, cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	notifiers := notify.Multi{notify.NewLogNotifier(log)}
	if cfg.RedisAddr != "" {
		redisNotifier, err := notify.NewRedisNotifier(ctx, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, cycle notices will only be logged")
		} else {
			defer redisNotifier.Close()
			notifiers = append(notifiers, redisNotifier)
			log.Info().Str("channel", redisNotifier.Channel()).Msg("publishing cycle notices to redis")
		}
	}

	mode, err := cycle.ParseMode(cfg.CompletionMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid completion mode")
	}
	engine := cycle.NewEngine(store, notifiers, log, cycle.WithMode(mode))
	log.Info().Str("mode", string(engine.Mode())).Msg("cycle engine ready")

	sweeper := scheduler.NewSweeper(store, engine, scheduler.Options{
		Interval:   cfg.RecoveryInterval,
		StaleAfter: cfg.RecoveryStaleAfter,
		AutoResume: cfg.RecoveryAutoResume,
	}, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start intent sweeper")
	}
	defer sweeper.Stop()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	handler := controllers.NewHandler(store, engine, tokens, log)
	router := controllers.NewRouter(handler, tokens, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
