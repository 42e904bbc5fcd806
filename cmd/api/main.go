package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeroQue/academy-player/internal/app"
	"github.com/NeroQue/academy-player/internal/config"
)

// main entry point - sets up everything and starts the server
func main() {
	cfg, err := config.Load(os.Getenv("ACADEMY_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %s\n", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %s\n", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		a.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
