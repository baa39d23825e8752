package careerdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/db"
	dbQdrant "github.com/kailas-cloud/careerdex/internal/db/qdrant"
	dbSQLite "github.com/kailas-cloud/careerdex/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/careerdex/internal/db/valkey"
	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	"github.com/kailas-cloud/careerdex/internal/repository/fallback"
	searchrepo "github.com/kailas-cloud/careerdex/internal/repository/search"
	advisoruc "github.com/kailas-cloud/careerdex/internal/usecase/advisor"
	embeddinguc "github.com/kailas-cloud/careerdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/careerdex/internal/usecase/health"
	indexeruc "github.com/kailas-cloud/careerdex/internal/usecase/indexer"
	recommenduc "github.com/kailas-cloud/careerdex/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/careerdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCollection       = "careers"
	defaultVectorDimensions = 384

	advisorProvider    = "custom"
	advisorTemperature = 0.7
	advisorMaxTokens   = 150
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, query string, maxEducationLevel, topK int) ([]recommendation.Result, error)
}

type recommendUseCase interface {
	Recommend(ctx context.Context, p profile.Profile) (recommenduc.Response, error)
}

// Client is the careerdex SDK entry point.
type Client struct {
	store      db.Store // nil when searching a fallback index
	pinger     healthuc.Pinger
	embedder   domain.Embedder
	collection string
	dims       int
	topK       int

	searchSvc searchUseCase
	recSvc    recommendUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. With a store option the provided context bounds the
// initial readiness check; with WithFallbackIndex the files are loaded
// eagerly.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		collection:       defaultCollection,
		vectorDimensions: defaultVectorDimensions,
		topK:             searchuc.DefaultTopK,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" && cfg.fallbackDataset == "" {
		return nil, errors.New(
			"careerdex: search backend required (use WithQdrant, WithValkey, WithSQLite or WithFallbackIndex)",
		)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	if cfg.driver == "" {
		idx, err := fallback.Load(cfg.fallbackDataset, cfg.fallbackEmbeddings)
		if err != nil {
			return nil, fmt.Errorf("careerdex: load fallback index: %w", err)
		}
		return wireClient(nil, idx, idx, cfg, obs), nil
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.WaitForReady(ctx, store, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("careerdex: store not ready: %w", err)
	}

	return wireClient(store, searchrepo.New(store, cfg.collection), store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "qdrant":
		s, err := dbQdrant.NewStore(dbQdrant.Config{URL: cfg.url, APIKey: cfg.apiKey})
		if err != nil {
			return nil, fmt.Errorf("careerdex: create qdrant store: %w", err)
		}
		return s, nil
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("careerdex: create valkey store: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := dbSQLite.Open(cfg.path)
		if err != nil {
			return nil, fmt.Errorf("careerdex: open sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("careerdex: unknown driver %q", cfg.driver)
	}
}

func wireClient(
	store db.Store, backend searchuc.Backend, pinger healthuc.Pinger,
	cfg *clientConfig, obs *observer,
) *Client {
	nop := zap.NewNop()

	// Hash encoder unless the caller brings a model.
	var emb interface {
		domain.Embedder
		healthuc.EmbeddingChecker
	} = embeddinguc.NewHashEmbedder(cfg.vectorDimensions)
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	}

	var completer domain.Completer
	if cfg.completer != nil {
		completer = &completerAdapter{inner: cfg.completer}
	}

	searchSvc := searchuc.New(backend, emb, nop)
	advisor := advisoruc.New(completer, advisoruc.Options{
		Provider:    advisorProvider,
		Temperature: advisorTemperature,
		MaxTokens:   advisorMaxTokens,
	}, nop)

	return &Client{
		store:      store,
		pinger:     pinger,
		embedder:   emb,
		collection: cfg.collection,
		dims:       cfg.vectorDimensions,
		topK:       cfg.topK,
		searchSvc:  searchSvc,
		recSvc:     recommenduc.New(searchSvc, advisor, cfg.topK),
		healthSvc:  healthuc.New(pinger, emb),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks search backend connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Recommend searches occupations for the profile and narrates the matches.
// An education level outside 1..5 fails with ErrInvalidProfile.
func (c *Client) Recommend(ctx context.Context, p Profile) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	r, err := c.recSvc.Recommend(ctx, p.toInternal())
	if err != nil {
		return Response{}, fmt.Errorf("recommend: %w", err)
	}
	return fromResponse(r), nil
}

// Search returns the closest occupations to a free-text query with job zone
// at most maxEducationLevel, best first.
func (c *Client) Search(ctx context.Context, query string, maxEducationLevel int) (res []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	results, err := c.searchSvc.Search(ctx, query, maxEducationLevel, c.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromResults(results), nil
}

// Index recreates the collection from a cleaned dataset, writes the
// embeddings file and uploads every record. Failed batches are counted in
// the report, not returned as errors.
func (c *Client) Index(ctx context.Context, opts IndexOptions) (rep IndexReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("index", start, err) }()

	if c.store == nil {
		return IndexReport{}, errors.New("careerdex: index requires a store (use WithQdrant, WithValkey or WithSQLite)")
	}

	svc := indexeruc.New(c.store, c.embedder, indexeruc.Options{
		Collection:     c.collection,
		Dimensions:     c.dims,
		BatchSize:      opts.BatchSize,
		DatasetPath:    opts.DatasetPath,
		EmbeddingsPath: opts.EmbeddingsPath,
	}, zap.NewNop())

	r, err := svc.Run(ctx)
	if err != nil {
		return fromIndexReport(r), fmt.Errorf("index: %w", err)
	}
	return fromIndexReport(r), nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchFallback(ctx, a, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// HealthCheck delegates when the inner embedder can check itself.
func (a *embedderAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// completerAdapter wraps public Completer to satisfy internal domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	return a.inner.Complete(ctx, CompletionRequest{
		System:      req.System,
		User:        req.User,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}
