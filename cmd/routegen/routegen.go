package main

// The code to start and stop the route suggestion HTTP server.

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ColinToft/RunPlanner/internal/config"
	"github.com/ColinToft/RunPlanner/internal/db"
	"github.com/ColinToft/RunPlanner/pkg/routegen"
	"github.com/ColinToft/RunPlanner/pkg/routegen/endpoints"
	"github.com/ColinToft/RunPlanner/pkg/routegen/transport"
	"github.com/ColinToft/RunPlanner/pkg/routing"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	var (
		cfg      = config.Load()
		logger   log.Logger
		httpAddr = net.JoinHostPort(cfg.Address, cfg.RoutegenPort)
	)

	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "svc", "routegen")
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(cfg.LogLevel, level.InfoValue())))

	if cfg.RoutesAPIKey == "" {
		level.Warn(logger).Log("msg", "ROUTES_API_KEY is not set, routes will be approximated locally")
	}

	// The cache is optional. Without REDIS_ADDR every request goes to the routing service.
	var cache routing.Cache
	if rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword); rdb != nil {
		defer rdb.Close()
		cache = routing.NewRedisCache(rdb, cfg.RouteCacheTTL)
		level.Info(logger).Log("cache", "redis", "addr", cfg.RedisAddr)
	}

	var (
		backend = routing.NewGoogleBackend(routing.GoogleConfig{
			URL:          cfg.RoutesAPIURL,
			APIKey:       cfg.RoutesAPIKey,
			LanguageCode: cfg.RoutesLanguageCode,
			Units:        cfg.RoutesUnits,
		}, &http.Client{})
		client = routing.NewClient(backend, cache, routing.Config{
			ProbeTimeout:   cfg.RoutesProbeTimeout,
			RequestTimeout: cfg.RoutesRequestTimeout,
			MaxRetries:     cfg.RoutesMaxRetries,
		}, log.With(logger, "component", "routing"))
	)

	var (
		service     = routegen.NewService(client, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
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

	// Give in-flight suggestions time to finish their routing calls.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RoutesRequestTimeout+cfg.RoutesProbeTimeout)
	defer cancel()

	err = httpServer.Shutdown(ctx)
	if err != nil {
		level.Error(logger).Log("transport", "HTTP", "during", "Shutdown", "err", err)
	}
	httpListener.Close()

	level.Info(logger).Log("transport", "HTTP", "status", "stopped")
}
