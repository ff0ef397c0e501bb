package main

// The code to start and stop the records HTTP server.

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ColinToft/RunPlanner/internal/config"
	"github.com/ColinToft/RunPlanner/internal/db"
	"github.com/ColinToft/RunPlanner/pkg/records"
	"github.com/ColinToft/RunPlanner/pkg/records/endpoints"
	"github.com/ColinToft/RunPlanner/pkg/records/transport"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	var (
		cfg      = config.Load()
		logger   log.Logger
		httpAddr = net.JoinHostPort(cfg.Address, cfg.RecordsPort)
	)

	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "svc", "records")
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(cfg.LogLevel, level.InfoValue())))

	pool, err := db.ConnectPostgres(cfg.PostgresURL)
	if err != nil {
		level.Error(logger).Log("db", "postgres", "during", "Connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		level.Error(logger).Log("db", "postgres", "during", "EnsureSchema", "err", err)
		os.Exit(1)
	}

	var (
		service     = records.NewService(records.NewStore(pool), logger)
		endpoints   = endpoints.NewEndpointSet(service)
		httpHandler = transport.NewHTTPHandler(endpoints, logger)
	)

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		level.Error(logger).Log("transport", "HTTP", "during", "Listen", "err", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		level.Info(logger).Log("transport", "HTTP", "addr", httpAddr)
		err := httpServer.Serve(httpListener)
		if err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("transport", "HTTP", "during", "Serve", "err", err)
		}
	}()

	// Wait for an interrupt signal to stop the server.
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	level.Info(logger).Log("signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = httpServer.Shutdown(ctx)
	if err != nil {
		level.Error(logger).Log("transport", "HTTP", "during", "Shutdown", "err", err)
	}
	httpListener.Close()

	level.Info(logger).Log("transport", "HTTP", "status", "stopped")
}
