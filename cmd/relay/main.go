package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskcrafter/internal/config"
	"taskcrafter/internal/relay"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := relay.NewHub()
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.RelayPort,
		Handler: relay.NewRouter(hub, cfg.ClientURL),
	}

	go func() {
		log.Printf("🚀 Relay running on port %s\n", cfg.RelayPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down relay...")

	// Hijacked websocket connections are not tracked by Shutdown; the hub closes them.
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Relay forced to shutdown: %s", err)
	}

	log.Println("✅ Relay exited properly")
}
