package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/repository/fallback"
	searchrepo "github.com/kailas-cloud/careerdex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/careerdex/internal/transport/chi"
	advisoruc "github.com/kailas-cloud/careerdex/internal/usecase/advisor"
	healthuc "github.com/kailas-cloud/careerdex/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/careerdex/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/careerdex/internal/usecase/search"
	"github.com/kailas-cloud/careerdex/internal/version"
)

func newServeCommand(load func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			return a.serve(cmd.Context())
		},
	}
}

// searchBackend is the backend chosen at startup plus what health checks
// ping and what shutdown closes.
type searchBackend struct {
	backend searchuc.Backend
	pinger  healthuc.Pinger
	close   func()
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger

	logger.Info("Starting careerdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("vector_store", cfg.VectorStore.ResolveDriver()),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("advisor_provider", cfg.Advisor.Provider),
	)

	// Services that fail to start stay nil; the server still comes up and
	// reports them as unavailable. Interfaces are assigned only on success
	// so nil checks see an untyped nil.
	var (
		searcher     recommenduc.Searcher
		advisor      recommenduc.Advisor
		searchPinger healthuc.Pinger
		embChecker   healthuc.EmbeddingChecker
	)

	chain, err := a.buildEmbedder(ctx)
	if err != nil {
		logger.Error("Search engine unavailable: embedder", zap.Error(err))
	} else {
		defer chain.close()
		embChecker = chain.health

		sb := a.openSearchBackend(ctx)
		defer sb.close()
		if sb.pinger != nil {
			searchPinger = sb.pinger
		}
		searcher = searchuc.New(sb.backend, chain.embedder, logger)
	}

	completer, err := buildCompleter(cfg.Advisor)
	if err != nil {
		logger.Error("Advisor unavailable", zap.Error(err))
	} else {
		svc := advisoruc.New(completer, advisoruc.Options{
			Provider:    cfg.Advisor.Provider,
			Temperature: cfg.Advisor.Temperature,
			MaxTokens:   cfg.Advisor.MaxTokens,
		}, logger)
		logger.Info("Advisor ready", zap.String("provider", svc.Provider()))
		advisor = svc
	}

	recommender := recommenduc.New(searcher, advisor, cfg.HTTP.TopK)
	healthSvc := healthuc.New(searchPinger, embChecker)

	server := chiTransport.NewServer(recommender, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.HTTP.ServiceName, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// openSearchBackend prefers the vector store, then the local embeddings
// file, and finally no backend at all, in which case searches fail with
// domain.ErrNoSearchBackend.
func (a *app) openSearchBackend(ctx context.Context) searchBackend {
	cfg := a.cfg
	logger := a.logger

	store, err := openStore(ctx, cfg.VectorStore, logger)
	if err == nil {
		_, err = store.Count(ctx, cfg.VectorStore.Collection)
		if err == nil {
			logger.Info("Search backend ready", zap.String("backend", store.Driver()))
			return searchBackend{
				backend: searchrepo.New(store, cfg.VectorStore.Collection),
				pinger:  store,
				close:   store.Close,
			}
		}
		store.Close()
	}
	logger.Warn("Vector store unavailable, falling back to local search", zap.Error(err))

	idx, err := fallback.Load(
		cfg.Data.Path(cfg.Data.DatasetFile),
		cfg.Data.Path(cfg.Data.EmbeddingsFile),
	)
	if err != nil {
		logger.Error("Local fallback data unavailable, searches will fail", zap.Error(err))
		return searchBackend{close: func() {}}
	}

	logger.Info("Search backend ready", zap.String("backend", idx.Name()), zap.Int("rows", idx.Len()))
	return searchBackend{backend: idx, pinger: idx, close: func() {}}
}
