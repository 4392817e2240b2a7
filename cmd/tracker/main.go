package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/anime-tracker/internal/handlers"
	"github.com/example/anime-tracker/internal/jikan"
	"github.com/example/anime-tracker/internal/platform/analytics"
	"github.com/example/anime-tracker/internal/platform/config"
	"github.com/example/anime-tracker/internal/platform/db"
	"github.com/example/anime-tracker/internal/platform/httpserver"
	"github.com/example/anime-tracker/internal/platform/logging"
	"github.com/example/anime-tracker/internal/platform/natsconn"
	"github.com/example/anime-tracker/internal/platform/run"
	"github.com/example/anime-tracker/internal/ratelimit"
	"github.com/example/anime-tracker/internal/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Open(ctx)
	if err != nil {
		log.Error("open database", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	if err := watchlist.Migrate(ctx, pool); err != nil {
		log.Error("apply watchlist schema", zap.Error(err))
		run.Exit(1)
	}
	store := watchlist.NewPostgresStore(pool)

	// One pacing gate for all upstream traffic from this process.
	client := jikan.New(cfg.JikanBaseURL, ratelimit.NewPacer(ratelimit.DefaultInterval))

	events := analytics.New(nil, log)
	if cfg.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
		if err != nil {
			log.Error("connect nats", zap.Error(err))
			run.Exit(1)
		}
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			log.Error("init jetstream", zap.Error(err))
			run.Exit(1)
		}
		events = analytics.New(js, log)
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ReadyFunc: func() error {
			c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(c)
		},
	})

	apiHandlers := &handlers.API{Log: log, Jikan: client, Store: store, Events: events}
	apiHandlers.Register(r)

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.HTTP.Addr,
		ServiceName: cfg.ServiceName,
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			runner.Graceful(srv.Shutdown)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
