package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/rkorrapolu/sye-agent/internal/classifier"
	"github.com/rkorrapolu/sye-agent/internal/config"
	"github.com/rkorrapolu/sye-agent/internal/database"
	"github.com/rkorrapolu/sye-agent/internal/embedder"
	"github.com/rkorrapolu/sye-agent/internal/graph"
	"github.com/rkorrapolu/sye-agent/internal/knowledge"
	"github.com/rkorrapolu/sye-agent/internal/llm/providers"
	"github.com/rkorrapolu/sye-agent/internal/observability"
	"github.com/rkorrapolu/sye-agent/internal/semcache"
	"github.com/rkorrapolu/sye-agent/internal/vector"
)

// app holds the loaded configuration and the shared collaborators commands
// build from it. Constructed once per invocation in setupApp.
type app struct {
	cfg            *config.Config
	logger         *slog.Logger
	tracerProvider *sdktrace.TracerProvider
}

var theApp *app

// setupApp loads configuration, builds the logger, and initializes tracing.
// Runs before every command except the ones skipSetup names.
func setupApp(cmd *cobra.Command, args []string) error {
	if skipSetup(cmd) {
		return nil
	}

	path := flagConfig
	if path == "" {
		path = defaultConfigPath()
	}

	loader := config.NewLoader(config.NewValidator())
	cfg, err := loader.LoadWithDefaults(path)
	if err != nil {
		return err
	}

	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, os.Stderr)
	slog.SetDefault(logger)

	tp, err := observability.InitTracing(cmd.Context(), observability.TracingConfig{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}

	theApp = &app{cfg: cfg, logger: logger, tracerProvider: tp}
	return nil
}

// teardownApp flushes pending spans after the command finishes.
func teardownApp(cmd *cobra.Command, args []string) error {
	if theApp == nil {
		return nil
	}
	return observability.ShutdownTracing(cmd.Context(), theApp.tracerProvider)
}

// connectGraph builds and connects the Neo4j client. The caller owns the
// returned client and must Close it.
func (a *app) connectGraph(ctx context.Context) (graph.Client, error) {
	client, err := graph.NewNeo4jClient(a.cfg.Graph)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// buildCache assembles the semantic cache from the configured vector store
// and embedder. Cache assembly failure degrades to nil: lookups then go
// straight to the graph.
func (a *app) buildCache() *semcache.Cache {
	cfg := a.cfg.Vector
	cfg.StoragePath = expandHome(cfg.StoragePath)

	store, err := vector.New(cfg)
	if err != nil {
		a.logger.Warn("vector store unavailable, running without semantic cache", "error", err)
		return nil
	}
	emb, err := embedder.New(a.cfg.Embedder)
	if err != nil {
		a.logger.Warn("embedder unavailable, running without semantic cache", "error", err)
		return nil
	}
	cache, err := semcache.New(store, emb, a.cfg.Cache, a.logger)
	if err != nil {
		a.logger.Warn("semantic cache unavailable", "error", err)
		return nil
	}
	return cache
}

// knowledgeService builds the lookup service over client, wrapped with
// tracing when tracing is enabled.
func (a *app) knowledgeService(client graph.Client, cache *semcache.Cache) (knowledge.Service, error) {
	svc, err := knowledge.NewService(client, cache, a.logger)
	if err != nil {
		return nil, err
	}
	if a.cfg.Tracing.Enabled {
		svc = knowledge.NewTracedService(svc, otel.Tracer("sye-agent/knowledge"))
	}
	return svc, nil
}

// openStore opens the classification database. The caller must Close it.
func (a *app) openStore() (*database.Database, *database.ClassificationDAO, error) {
	db, err := database.Open(expandHome(a.cfg.Database.Path))
	if err != nil {
		return nil, nil, err
	}
	return db, database.NewClassificationDAO(db), nil
}

// buildPipeline assembles the full classification pipeline. Graph and cache
// collaborators are optional; the three providers are not.
func (a *app) buildPipeline(ctx context.Context) (*classifier.Pipeline, func(), error) {
	first, err := providers.New(a.cfg.LLM.First)
	if err != nil {
		return nil, nil, err
	}
	second, err := providers.New(a.cfg.LLM.Second)
	if err != nil {
		return nil, nil, err
	}
	arbiter, err := providers.New(a.cfg.LLM.Arbiter)
	if err != nil {
		return nil, nil, err
	}

	cache := a.buildCache()

	var svc knowledge.Service
	client, err := a.connectGraph(ctx)
	if err != nil {
		a.logger.Warn("graph unavailable, classification will not be persisted to the graph", "error", err)
		client = nil
	} else {
		svc, err = a.knowledgeService(client, cache)
		if err != nil {
			client.Close(ctx)
			return nil, nil, err
		}
	}

	db, dao, err := a.openStore()
	if err != nil {
		if client != nil {
			client.Close(ctx)
		}
		return nil, nil, err
	}

	pipeline, err := classifier.New(classifier.Config{
		First:     first,
		Second:    second,
		Arbiter:   arbiter,
		Knowledge: svc,
		Cache:     cache,
		Store:     dao,
		Logger:    a.logger,
	})
	if err != nil {
		db.Close()
		if client != nil {
			client.Close(ctx)
		}
		return nil, nil, err
	}

	cleanup := func() {
		db.Close()
		if client != nil {
			client.Close(context.Background())
		}
	}
	return pipeline, cleanup, nil
}
