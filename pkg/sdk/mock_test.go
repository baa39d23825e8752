package careerdex

import (
	"context"

	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	healthuc "github.com/kailas-cloud/careerdex/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/careerdex/internal/usecase/recommend"
)

// --- public interface mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchFn   func(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
	healthErr error
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

func (m *mockBatchEmbedder) HealthCheck(context.Context) error { return m.healthErr }

type mockCompleter struct {
	got  CompletionRequest
	text string
	err  error
}

func (m *mockCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	m.got = req
	return m.text, m.err
}

// --- use case mocks ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string, maxEducationLevel, topK int) ([]recommendation.Result, error)
}

func (m *mockSearchUC) Search(
	ctx context.Context, query string, maxEducationLevel, topK int,
) ([]recommendation.Result, error) {
	return m.searchFn(ctx, query, maxEducationLevel, topK)
}

type mockRecommendUC struct {
	recommendFn func(ctx context.Context, p profile.Profile) (recommenduc.Response, error)
}

func (m *mockRecommendUC) Recommend(ctx context.Context, p profile.Profile) (recommenduc.Response, error) {
	return m.recommendFn(ctx, p)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }
