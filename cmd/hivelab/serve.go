package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	redisstore "github.com/alexisbeaulieu97/hivelab/internal/adapters/redis"
	"github.com/alexisbeaulieu97/hivelab/internal/config"
	"github.com/alexisbeaulieu97/hivelab/internal/engine"
	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	"github.com/alexisbeaulieu97/hivelab/internal/metrics"
	"github.com/alexisbeaulieu97/hivelab/internal/server"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

const storePingTimeout = 3 * time.Second

type serveOptions struct {
	Addr string
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolve, validate and tool state HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address, overriding server.addr")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootFlags, opts serveOptions) error {
	app, err := newAppContext(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	srvCfg := app.Config.Server
	if opts.Addr != "" {
		srvCfg.Addr = opts.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, app.Config.Store, app.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			app.Log.Error(err, "close state store")
		}
	}()

	recorder := metrics.NewRecorder()
	handler := server.NewHandler(server.Options{
		Engine:       app.engine(engine.WithObserver(recorder)),
		Registry:     app.Registry,
		Store:        store,
		Metrics:      recorder,
		Logger:       app.componentLogger("server"),
		MaxBodyBytes: srvCfg.MaxBodyBytes,
	})

	if err := server.Run(ctx, server.New(srvCfg, handler), srvCfg.ShutdownTimeout, app.Log); err != nil {
		return newCommandError("serve", "running http server", err, "Check that the listen address is free.")
	}
	return nil
}

// openStore builds the configured snapshot store and returns its closer.
func openStore(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (state.Store, func() error, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		log.Debug("using in-memory state store")
		return state.NewMemoryStore(), func() error { return nil }, nil
	case config.BackendRedis:
		store := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisstore.WithPrefix(cfg.Redis.Prefix),
			redisstore.WithTTL(cfg.Redis.TTL),
		)

		pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, nil, newCommandError("serve", "connecting to redis at "+cfg.Redis.Addr, err, "Check store.redis.addr and that redis is reachable.")
		}

		log.With("addr", cfg.Redis.Addr).Info("using redis state store")
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
