package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wakerelay/wakerelay/internal/config"
	"github.com/wakerelay/wakerelay/internal/logging"
	"github.com/wakerelay/wakerelay/internal/push"
	"github.com/wakerelay/wakerelay/internal/registry"
	"github.com/wakerelay/wakerelay/internal/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML/JSON config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() // best-effort flush

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := push.NewSender(push.SenderConfig{
		Log:            logger.Named("push"),
		Servers:        cfg.Push.Servers,
		DialTimeout:    cfg.Push.DialTimeout,
		RequestTimeout: cfg.Push.RequestTimeout,
	})
	defer sender.Close()

	reg := registry.NewInMemory(cfg.Relay.SessionLimit)
	srv := server.NewNodeServer(cfg, logger, reg, sender)

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}
