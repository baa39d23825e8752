package indexer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/dataset"
	"github.com/kailas-cloud/careerdex/internal/db"
	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

// --- Mocks ---

type mockStore struct {
	recreated   *db.CollectionDefinition
	recreateErr error
	batches     [][]db.Point
	failBatch   int // 1-based index of the batch to fail, 0 = none
}

func (m *mockStore) RecreateCollection(_ context.Context, def *db.CollectionDefinition) error {
	m.recreated = def
	return m.recreateErr
}

func (m *mockStore) Upsert(_ context.Context, _ string, points []db.Point) error {
	m.batches = append(m.batches, points)
	if len(m.batches) == m.failBatch {
		return errors.New("upload failed")
	}
	return nil
}

func (m *mockStore) Driver() string { return "mock" }

type mockEmbedder struct {
	dims  int
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: make([]float32, m.dims)}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.calls++
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, m.dims)
		out[i][0] = float32(i)
	}
	return domain.BatchEmbeddingResult{Embeddings: out}, nil
}

// --- Tests ---

func writeDataset(t *testing.T, n int) (string, string) {
	t.Helper()
	dir := t.TempDir()
	records := make([]occupation.Record, n)
	for i := range records {
		records[i] = occupation.New("code", "Title", "desc", "skills", i%5+1)
	}
	path := filepath.Join(dir, "gold.csv")
	if err := dataset.WriteGold(path, records); err != nil {
		t.Fatal(err)
	}
	return path, filepath.Join(dir, "emb.f32")
}

func TestRun(t *testing.T) {
	gold, emb := writeDataset(t, 250)
	st := &mockStore{}
	e := &mockEmbedder{dims: 4}
	svc := New(st, e, Options{Collection: "careers", Dimensions: 4, DatasetPath: gold, EmbeddingsPath: emb}, zap.NewNop())

	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Records != 250 || rep.Uploaded != 250 || rep.FailedBatches != 0 || rep.Backend != "mock" {
		t.Errorf("unexpected report %+v", rep)
	}
	if e.calls != 1 {
		t.Errorf("expected one bulk embed call, got %d", e.calls)
	}
	if len(st.batches) != 3 || len(st.batches[0]) != 100 || len(st.batches[2]) != 50 {
		t.Errorf("unexpected batching: %d batches", len(st.batches))
	}
	if st.recreated.Name != "careers" || st.recreated.NumericIndexes[0] != db.FieldJobZone {
		t.Errorf("unexpected collection %+v", st.recreated)
	}
	if p := st.batches[1][0]; p.ID != 100 || p.Vector[0] != 100 {
		t.Errorf("expected row-aligned point 100, got id=%d vec=%v", p.ID, p.Vector)
	}

	vecs, err := dataset.ReadEmbeddings(emb)
	if err != nil || len(vecs) != 250 {
		t.Fatalf("expected 250 saved embeddings, got %d, %v", len(vecs), err)
	}
}

func TestRun_FailedBatchContinues(t *testing.T) {
	gold, emb := writeDataset(t, 250)
	st := &mockStore{failBatch: 2}
	svc := New(st, &mockEmbedder{dims: 4}, Options{
		Collection: "careers", Dimensions: 4, DatasetPath: gold, EmbeddingsPath: emb,
	}, zap.NewNop())

	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.FailedBatches != 1 || rep.Uploaded != 150 || len(st.batches) != 3 {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestRun_EmptyDataset(t *testing.T) {
	gold, emb := writeDataset(t, 0)
	st := &mockStore{}
	svc := New(st, &mockEmbedder{dims: 4}, Options{
		Collection: "careers", Dimensions: 4, DatasetPath: gold, EmbeddingsPath: emb,
	}, zap.NewNop())

	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Uploaded != 0 || st.recreated == nil || len(st.batches) != 0 {
		t.Errorf("expected recreated empty collection, got %+v", rep)
	}
}

func TestRun_RecreateFails(t *testing.T) {
	gold, emb := writeDataset(t, 3)
	st := &mockStore{recreateErr: errors.New("forbidden")}
	svc := New(st, &mockEmbedder{dims: 4}, Options{
		Collection: "careers", Dimensions: 4, DatasetPath: gold, EmbeddingsPath: emb,
	}, zap.NewNop())

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(st.batches) != 0 {
		t.Error("nothing must be uploaded after a collection failure")
	}
}

func TestRun_DimMismatch(t *testing.T) {
	gold, emb := writeDataset(t, 3)
	svc := New(&mockStore{}, &mockEmbedder{dims: 8}, Options{
		Collection: "careers", Dimensions: 4, DatasetPath: gold, EmbeddingsPath: emb,
	}, zap.NewNop())

	if _, err := svc.Run(context.Background()); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestRun_MissingDataset(t *testing.T) {
	dir := t.TempDir()
	svc := New(&mockStore{}, &mockEmbedder{dims: 4}, Options{
		Collection: "careers", Dimensions: 4,
		DatasetPath: filepath.Join(dir, "missing.csv"), EmbeddingsPath: filepath.Join(dir, "e"),
	}, zap.NewNop())

	if _, err := svc.Run(context.Background()); !errors.Is(err, domain.ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
}
