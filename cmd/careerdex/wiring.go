package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/config"
	"github.com/kailas-cloud/careerdex/internal/db"
	"github.com/kailas-cloud/careerdex/internal/db/qdrant"
	"github.com/kailas-cloud/careerdex/internal/db/sqlite"
	"github.com/kailas-cloud/careerdex/internal/db/valkey"
	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/metrics"
	"github.com/kailas-cloud/careerdex/internal/repository/embcache"
	anthropicTransport "github.com/kailas-cloud/careerdex/internal/transport/anthropic"
	ollamaTransport "github.com/kailas-cloud/careerdex/internal/transport/ollama"
	openaiTransport "github.com/kailas-cloud/careerdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/careerdex/internal/usecase/embedding"
)

const (
	defaultOllamaURL     = "http://localhost:11434"
	ollamaRequestTimeout = 30 * time.Second
	anthropicMaxRetries  = 2
)

// embedderChain is the assembled query/document encoder.
type embedderChain struct {
	embedder domain.Embedder
	health   *embeddinguc.InstrumentedEmbedder
	close    func()
}

// buildEmbedder assembles the decorator chain: provider -> Instrumented ->
// Cached (when enabled). The cache sits outermost so provider metrics count
// only real provider calls.
func (a *app) buildEmbedder(ctx context.Context) (embedderChain, error) {
	cfg := a.cfg.Embedding

	base, err := newBaseEmbedder(cfg)
	if err != nil {
		return embedderChain{}, err
	}

	instrumented := embeddinguc.NewInstrumentedEmbedder(
		base, cfg.Provider, cfg.Model, cfg.MaxBatchSize, a.logger,
	)
	chain := embedderChain{embedder: instrumented, health: instrumented, close: func() {}}

	if !a.cfg.Cache.Enabled {
		return chain, nil
	}

	kv, err := valkey.NewStore(valkey.Config{
		Addrs:     a.cfg.Cache.Addrs,
		Password:  a.cfg.Cache.Password,
		KeyPrefix: a.cfg.VectorStore.KeyPrefix,
	})
	if err == nil {
		err = kv.Ping(ctx)
		if err != nil {
			kv.Close()
		}
	}
	if err != nil {
		a.logger.Warn("Embedding cache disabled", zap.Error(err))
		return chain, nil
	}

	chain.embedder = embcache.New(
		instrumented, kv, cfg.Model,
		time.Duration(a.cfg.Cache.TTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, a.logger,
	)
	chain.close = kv.Close
	a.logger.Info("Embedding cache enabled", zap.Strings("addrs", a.cfg.Cache.Addrs))
	return chain, nil
}

func newBaseEmbedder(cfg config.EmbeddingConfig) (domain.Embedder, error) {
	switch cfg.Provider {
	case config.EmbedderHash:
		return embeddinguc.NewHashEmbedder(cfg.Dimensions), nil
	case config.EmbedderOpenAI:
		if cfg.BaseURL == "" && cfg.APIKey == "" {
			return nil, fmt.Errorf("embedding.base_url or embedding.api_key is required for provider %q", cfg.Provider)
		}
		return openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case config.EmbedderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		return ollamaTransport.NewEmbedder(baseURL, cfg.Model, ollamaRequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// buildCompleter returns nil (template advice) when no credential is set.
func buildCompleter(cfg config.AdvisorConfig) (domain.Completer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	switch cfg.Provider {
	case config.AdvisorOpenAI:
		return openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case config.AdvisorAnthropic:
		c, err := anthropicTransport.NewCompleter(anthropicTransport.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			MaxRetries: anthropicMaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("anthropic completer: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown advisor provider %q", cfg.Provider)
	}
}

// openStore connects to the configured vector store. A remote store that
// cannot be reached is an error unless fallback_to_local_on_remote_failure
// is set, in which case the local sqlite store is opened instead.
func openStore(ctx context.Context, cfg config.VectorStoreConfig, logger *zap.Logger) (db.Store, error) {
	driver := cfg.ResolveDriver()

	store, err := connectStore(ctx, driver, cfg)
	if err == nil {
		return store, nil
	}
	if driver == config.DriverSQLite || !cfg.FallbackToLocalOnRemoteFailure {
		return nil, err
	}

	logger.Warn("Remote vector store unavailable, using local store",
		zap.String("driver", driver),
		zap.String("local_path", cfg.LocalPath),
		zap.Error(err),
	)
	return connectStore(ctx, config.DriverSQLite, cfg)
}

func connectStore(ctx context.Context, driver string, cfg config.VectorStoreConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch driver {
	case config.DriverQdrant:
		store, err = qdrant.NewStore(qdrant.Config{URL: cfg.URL, APIKey: cfg.APIKey})
	case config.DriverValkey:
		store, err = valkey.NewStore(valkey.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
	case config.DriverSQLite:
		store, err = sqlite.Open(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown vector store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if err := db.WaitForReady(ctx, store, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s store not ready: %w", driver, err)
	}
	return store, nil
}
