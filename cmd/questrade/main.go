package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/questrade/internal/cli"
)

func main() {
	if err := cli.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg := cli.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(cfg, os.Stdout, os.Stderr).Run(ctx, os.Args[1:])
	stop()

	os.Exit(code)
}
