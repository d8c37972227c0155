package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/letterpress/internal/buildinfo"
	"github.com/dmitrijs2005/letterpress/internal/client/cli"
	"github.com/dmitrijs2005/letterpress/internal/client/config"
	"github.com/dmitrijs2005/letterpress/internal/logging"
	"github.com/dmitrijs2005/letterpress/internal/tracing"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewZapLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var traceOut io.Writer
	if cfg.TraceStdout {
		traceOut = os.Stderr
	}
	shutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "letterpress",
		ServiceVersion: buildinfo.Version,
		Writer:         traceOut,
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdown(sctx)
	}()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return
	}

	app.Run(ctx)

}
