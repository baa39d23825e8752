package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
)

// --- Mocks ---

type mockBackend struct {
	results []recommendation.Result
	err     error
	gotZone int
	gotTopK int
	gotVec  []float32
}

func (m *mockBackend) FilteredSearch(
	_ context.Context, vector []float32, maxZone, topK int,
) ([]recommendation.Result, error) {
	m.gotVec, m.gotZone, m.gotTopK = vector, maxZone, topK
	return m.results, m.err
}

func (m *mockBackend) Name() string { return "mock" }

type mockEmbedder struct {
	vec     []float32
	err     error
	gotText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.gotText = text
	return domain.EmbeddingResult{Embedding: m.vec}, m.err
}

// --- Tests ---

func TestSearch_NoBackend(t *testing.T) {
	svc := New(nil, &mockEmbedder{}, zap.NewNop())
	_, err := svc.Search(context.Background(), "q", 3, 5)
	if !errors.Is(err, domain.ErrNoSearchBackend) {
		t.Fatalf("expected ErrNoSearchBackend, got %v", err)
	}
	if svc.Backend() != "" {
		t.Errorf("expected empty backend name")
	}
}

func TestSearch_DelegatesToBackend(t *testing.T) {
	b := &mockBackend{results: []recommendation.Result{{Title: "Registered Nurses", MatchScore: 81.2}}}
	e := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(b, e, zap.NewNop())

	res, err := svc.Search(context.Background(), "nursing. My skills are: care.", 3, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].Title != "Registered Nurses" {
		t.Errorf("unexpected results %+v", res)
	}
	if e.gotText != "nursing. My skills are: care." {
		t.Errorf("unexpected embedded text %q", e.gotText)
	}
	if b.gotZone != 3 || b.gotTopK != 5 || len(b.gotVec) != 2 {
		t.Errorf("unexpected backend args zone=%d topK=%d vec=%v", b.gotZone, b.gotTopK, b.gotVec)
	}
	if svc.Backend() != "mock" {
		t.Errorf("unexpected backend %q", svc.Backend())
	}
}

func TestSearch_DefaultsAndClamps(t *testing.T) {
	b := &mockBackend{}
	svc := New(b, &mockEmbedder{vec: []float32{1}}, zap.NewNop())

	if _, err := svc.Search(context.Background(), "q", 9, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.gotTopK != DefaultTopK || b.gotZone != 5 {
		t.Errorf("expected topK=%d zone=5, got topK=%d zone=%d", DefaultTopK, b.gotTopK, b.gotZone)
	}
}

func TestSearch_TruncatesToTopK(t *testing.T) {
	b := &mockBackend{results: make([]recommendation.Result, 8)}
	svc := New(b, &mockEmbedder{vec: []float32{1}}, zap.NewNop())

	res, _ := svc.Search(context.Background(), "q", 5, 3)
	if len(res) != 3 {
		t.Errorf("expected 3 results, got %d", len(res))
	}
}

func TestSearch_EmbedError(t *testing.T) {
	svc := New(&mockBackend{}, &mockEmbedder{err: domain.ErrEmbeddingProviderError}, zap.NewNop())
	_, err := svc.Search(context.Background(), "q", 3, 5)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected embedding error, got %v", err)
	}
}

func TestSearch_BackendError(t *testing.T) {
	svc := New(&mockBackend{err: errors.New("timeout")}, &mockEmbedder{vec: []float32{1}}, zap.NewNop())
	if _, err := svc.Search(context.Background(), "q", 3, 5); err == nil {
		t.Fatal("expected error")
	}
}
