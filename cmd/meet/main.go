package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iaas-dront/frontend-meet2/internal/adapters/assistant"
	"github.com/iaas-dront/frontend-meet2/internal/adapters/httpui"
	"github.com/iaas-dront/frontend-meet2/internal/adapters/media"
	"github.com/iaas-dront/frontend-meet2/internal/adapters/signalchat"
	"github.com/iaas-dront/frontend-meet2/internal/adapters/wschan"
	"github.com/iaas-dront/frontend-meet2/internal/app/session"
	"github.com/iaas-dront/frontend-meet2/internal/config"
	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	provider, err := media.New(ctx, media.Config{
		StunServers: cfg.StunServers,
		QuietWindow: cfg.QuietWindow,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("media setup failed")
	}

	opts := wschan.Options{SendBuffer: cfg.SendBuffer, WriteTimeout: cfg.WriteTimeout}
	sig, err := signalchat.Dial(ctx, cfg.SignalURL, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("signaling channel dial failed")
	}
	ai, err := assistant.Dial(ctx, cfg.AssistantURL, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("assistant channel dial failed")
	}

	self := domain.ResolveUser(cfg.DisplayName, cfg.Email)
	eng := session.New(domain.RoomID(cfg.Room), self, session.Deps{
		Signal:    sig,
		Assistant: ai,
		Media:     provider,
		// Ending the call hands control back by stopping the process.
		Nav: core.NavigatorFunc(cancel),
	})
	if err := eng.Start(); err != nil {
		log.Fatal().Err(err).Msg("session start failed")
	}

	r := httpui.SetupRouter(cfg, eng)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("room", cfg.Room).Str("user", self.Username).Msg("meet client started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	// Safety net: if the session was not ended explicitly, release device
	// handles and listeners anyway.
	eng.Close()
	sig.Close()
	ai.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Client exited gracefully")
}
