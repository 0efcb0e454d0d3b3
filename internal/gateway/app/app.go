package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"scriptdeck/internal/artifact"
	"scriptdeck/internal/conversation"
	"scriptdeck/internal/gateway/config"
	"scriptdeck/internal/gateway/handler"
	"scriptdeck/internal/gateway/server"
	"scriptdeck/internal/llm"
	"scriptdeck/internal/notify"
	"scriptdeck/internal/workspace"
)

type App struct {
	server *server.Server
	store  workspace.Store
	gen    llm.ScriptGenerator
	sink   notify.Sink
	logger *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	gen, err := llm.NewFromConfig(ctx, llm.ProviderConfig{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		GroqAPIKey: cfg.LLM.GroqAPIKey,
		RPS:        cfg.LLM.RPS,
		Burst:      cfg.LLM.Burst,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build generator: %w", err)
	}
	logger.Info("generation provider ready", zap.String("provider", gen.Name()))

	sink, err := buildSink(ctx, cfg)
	if err != nil {
		_ = store.Close()
		_ = gen.Close()
		return nil, fmt.Errorf("build notification sink: %w", err)
	}

	notifier := notify.NewSinkNotifier(sink, logger)
	convs := conversation.NewManager(gen, notifier, store, logger)

	svc := handler.NewService(store, convs, sink, logger)
	mux := server.NewMux(svc)
	srv := server.New(cfg.Port, mux, logger)

	return &App{
		server: srv,
		store:  store,
		gen:    gen,
		sink:   sink,
		logger: logger,
	}, nil
}

func buildStore(cfg *config.Config) (workspace.Store, error) {
	base, err := workspace.New(workspace.Config{
		Driver:      cfg.Store.Driver,
		SQLitePath:  cfg.Store.SQLitePath,
		PostgresDSN: cfg.Store.PostgresDSN,
	})
	if err != nil {
		return nil, err
	}

	var store workspace.Store = base
	if cfg.Artifact.Enabled {
		blobs, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		store, err = workspace.NewOffloadStore(store, blobs, cfg.Artifact.Threshold)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
	}
	if cfg.Store.CacheEntries > 0 {
		cached, err := workspace.NewCachedStore(store, cfg.Store.CacheEntries)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		store = cached
	}
	return store, nil
}

func buildSink(ctx context.Context, cfg *config.Config) (notify.Sink, error) {
	if cfg.Notify.RedisURL != "" {
		return notify.NewRedisSink(ctx, cfg.Notify.RedisURL, cfg.Notify.TTL)
	}
	return notify.NewMemorySink(0), nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	_ = a.gen.Close()
	_ = a.store.Close()
	if closer, ok := a.sink.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	return err
}
