package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"minigames_backend/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.NewApp().Run(ctx); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
