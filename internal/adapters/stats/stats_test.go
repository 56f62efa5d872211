package stats

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/uri"
)

func TestGetStructureAggregatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nfunc plain() {}\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.go"), []byte("package a\n\nfunc branchy(n int) {\n\tif n > 0 {\n\t} else if n < 0 {\n\t}\n}\n"), 0o644)

	a := New(parserfrontend.NewEngine([]parserfrontend.Provider{parserfrontend.GoProvider{}}))
	u, err := uri.Parse("stats://" + dir)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	summary := s.Categories["summary"]
	if len(summary) != 1 {
		t.Fatalf("expected one summary entry, got %+v", summary)
	}
	if fc := summary[0].Attributes["file_count"].(float64); fc != 2 {
		t.Errorf("file_count = %v, want 2", fc)
	}
}

func TestHotspotsRanksHighestComplexityFirst(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "plain.go"), []byte("package a\n\nfunc plain() {}\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "complex.go"), []byte("package a\n\nfunc branchy(n int) {\n\tif n > 0 {\n\t} else if n < 0 {\n\t} else if n == 1 {\n\t}\n}\n"), 0o644)

	a := New(parserfrontend.NewEngine([]parserfrontend.Provider{parserfrontend.GoProvider{}}))
	u, err := uri.Parse("stats://" + dir + "?hotspots=true")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	hotspots := s.Categories["hotspots"]
	if len(hotspots) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(hotspots))
	}
	if hotspots[0].Name != "complex.go" {
		t.Errorf("expected complex.go ranked first, got %s", hotspots[0].Name)
	}
}
