package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/router"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/config"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/logger"

	"github.com/joho/godotenv"
)

// @title AlgoForge Studios API
// @version 1.0
// @description Course catalog, leads, blog and back office API
// @host localhost:8080
// @BasePath /api
// @Schemes http https

func main() {
	// 1. Load configuration
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info")
		boot.Fatal().Err(err).Msg("Error loading config")
	}
	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Warn().Msg("No .env file found")
	}

	// 2. Build router (and connect backing services)
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	r, shutdownDeps, err := router.New(startCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	// 3. Create HTTP server. No write timeout: chat replies stream for as long
	// as the upstream model keeps generating.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 4. Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Listen failed")
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownDeps(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close backing services")
	}
	log.Info().Msg("Server shut down gracefully")
}
