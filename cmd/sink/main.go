package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayaz345/mage-ai/internal/app"
	"github.com/ayaz345/mage-ai/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("sink stopped: %v", err)
	}
}
