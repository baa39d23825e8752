package dataset

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestReadOccupations(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "occ.txt",
		"O*NET-SOC Code\tTitle\tDescription\n"+
			"29-1141.00\tRegistered Nurses\tAssess patient health problems.\n"+
			"\tNo Code\tskipped\n"+
			"29-1248.00\tSurgeons\tTreat injuries.\n")

	occs, err := ReadOccupations(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("expected 2 occupations, got %d", len(occs))
	}
	if occs[0].Title != "Registered Nurses" || occs[1].Code != "29-1248.00" {
		t.Errorf("unexpected rows: %+v", occs)
	}
}

func TestReadOccupations_Missing(t *testing.T) {
	_, err := ReadOccupations(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, domain.ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
	var sme *domain.SourceMissingError
	if !errors.As(err, &sme) || !strings.HasSuffix(sme.Path, "nope.txt") {
		t.Errorf("expected path in error, got %v", err)
	}
}

func TestReadOccupations_MissingColumn(t *testing.T) {
	p := writeFile(t, t.TempDir(), "occ.txt", "O*NET-SOC Code\tTitle\n1\tx\n")
	if _, err := ReadOccupations(p); !errors.Is(err, domain.ErrInvalidDataset) {
		t.Fatalf("expected ErrInvalidDataset, got %v", err)
	}
}

func TestReadSkills(t *testing.T) {
	p := writeFile(t, t.TempDir(), "skills.txt",
		"O*NET-SOC Code\tElement Name\tScale ID\tData Value\n"+
			"29-1141.00\tActive Listening\tIM\t4.12\n"+
			"29-1141.00\tActive Listening\tLV\t5.00\n"+
			"29-1141.00\tMathematics\tIM\t2.88\n"+
			"29-1141.00\tSpeaking\tIM\t3.00\n"+
			"41-2011.00\tMathematics\tIM\t1.50\n")

	skills, err := ReadSkills(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := skills["29-1141.00"]; got != "Active Listening, Speaking" {
		t.Errorf("got %q", got)
	}
	if _, ok := skills["41-2011.00"]; ok {
		t.Error("expected no skills for cashier")
	}
}

func TestReadJobZones(t *testing.T) {
	p := writeFile(t, t.TempDir(), "zones.txt",
		"O*NET-SOC Code\tTitle\tJob Zone\n"+
			"29-1141.00\tRegistered Nurses\t3\n"+
			"29-1248.00\tSurgeons\t5.0\n"+
			"41-2011.00\tCashiers\tn/a\n"+
			"29-1141.00\tRegistered Nurses\t4\n")

	zones, err := ReadJobZones(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zones["29-1141.00"] != 3 || zones["29-1248.00"] != 5 {
		t.Errorf("unexpected zones: %v", zones)
	}
	if _, ok := zones["41-2011.00"]; ok {
		t.Error("expected unparseable zone to be skipped")
	}
}

func TestGoldRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "gold.csv")
	records := []occupation.Record{
		occupation.New("29-1141.00", "Registered Nurses", "Assess, plan and \"care\".", "Speaking", 3),
		occupation.New("41-2011.00", "Cashiers", "Receive payments.", "", 0),
	}
	if err := WriteGold(path, records); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), strings.Join(GoldHeader, ",")+"\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	got, err := ReadGold(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0] != records[0] {
		t.Errorf("got %+v, want %+v", got[0], records[0])
	}
	if got[1].Skills != occupation.DefaultSkills || got[1].JobZone != 1 {
		t.Errorf("expected defaults, got %+v", got[1])
	}
}

func TestReadGold_MalformedZone(t *testing.T) {
	p := writeFile(t, t.TempDir(), "gold.csv",
		strings.Join(GoldHeader, ",")+"\n"+
			"1,T,D,S,abc,L,\n")
	got, err := ReadGold(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].JobZone != 0 {
		t.Errorf("expected zone 0, got %d", got[0].JobZone)
	}
	if got[0].SearchText != "Job Title: T. Education: L. Skills: S. Description: D" {
		t.Errorf("expected rebuilt search text, got %q", got[0].SearchText)
	}
}

func TestWriteGold_NoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	writeFile(t, dir, "file", "x")

	if err := WriteGold(filepath.Join(blocker, "gold.csv"), nil); err == nil {
		t.Fatal("expected error when parent is a file")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the blocker file, got %d entries", len(entries))
	}
}

func TestEmbeddingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.f32")
	vecs := [][]float32{{0.1, -0.2, 0.3}, {1, 0, 0}}
	if err := WriteEmbeddings(path, vecs); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadEmbeddings(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 3 {
		t.Fatalf("unexpected shape %dx%d", len(got), len(got[0]))
	}
	for i := range vecs {
		for j := range vecs[i] {
			if got[i][j] != vecs[i][j] {
				t.Errorf("[%d][%d] = %v, want %v", i, j, got[i][j], vecs[i][j])
			}
		}
	}
}

func TestWriteEmbeddings_DimMismatch(t *testing.T) {
	err := WriteEmbeddings(filepath.Join(t.TempDir(), "e"), [][]float32{{1, 2}, {1}})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestReadEmbeddings_BadFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "e", "not an embeddings file")
	if _, err := ReadEmbeddings(p); !errors.Is(err, domain.ErrInvalidDataset) {
		t.Fatalf("expected ErrInvalidDataset, got %v", err)
	}
}

func TestReadEmbeddings_HeaderSizeMismatch(t *testing.T) {
	header := func(rows, dims uint32) []byte {
		b := append([]byte{}, embeddingsMagic[:]...)
		b = binary.LittleEndian.AppendUint32(b, rows)
		return binary.LittleEndian.AppendUint32(b, dims)
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"huge rows zero dims", header(0xFFFFFFFF, 0)},
		{"huge rows and dims", header(0xFFFFFFFF, 0xFFFFFFFF)},
		{"truncated body", append(header(2, 3), make([]byte, 20)...)},
		{"trailing bytes", append(header(1, 1), make([]byte, 8)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), "e", string(tt.data))
			if _, err := ReadEmbeddings(p); !errors.Is(err, domain.ErrInvalidDataset) {
				t.Fatalf("expected ErrInvalidDataset, got %v", err)
			}
		})
	}
}

func TestReadEmbeddings_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.f32")
	if err := WriteEmbeddings(path, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadEmbeddings(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}

func TestFormatUSD(t *testing.T) {
	tests := map[int]string{
		0:       "$0",
		999:     "$999",
		55000:   "$55,000",
		1234567: "$1,234,567",
		-4500:   "-$4,500",
	}
	for in, want := range tests {
		if got := FormatUSD(in); got != want {
			t.Errorf("FormatUSD(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteWages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wages.txt")
	if err := WriteWages(path, []Wage{{Code: "29-1141.00", MedianAnnual: 85000, PercentChange: 7}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, _ := os.ReadFile(path)
	want := "O*NET-SOC Code\tMedian Annual Wage\tPercent Change\n29-1141.00\t$85,000\t7\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}
