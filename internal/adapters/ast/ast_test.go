package ast

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

func newEngine() *parserfrontend.Engine {
	return parserfrontend.NewEngine([]parserfrontend.Provider{parserfrontend.GoProvider{}})
}

func TestAggregateDirMergesAllFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nfunc one() {}\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.go"), []byte("package a\n\nfunc two() {\n\tif true {\n\t}\n}\n"), 0o644)

	a := New(newEngine())
	u, err := uri.Parse("ast://" + dir)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, el := range s.Categories["functions"] {
		names[el.Name] = true
	}
	if !names["one"] || !names["two"] {
		t.Fatalf("expected both functions merged, got %+v", names)
	}
}

func TestQueryFiltersByComplexity(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nfunc plain() {}\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.go"), []byte("package a\n\nfunc branchy(n int) {\n\tif n > 0 {\n\t} else if n < 0 {\n\t}\n}\n"), 0o644)

	a := New(newEngine())
	u, err := uri.Parse("ast://" + dir + "?complexity>2")
	if err != nil {
		t.Fatal(err)
	}
	parsed := query.Parse(u.Query, a.Schema().FieldNames())
	s, err := a.GetStructure(context.Background(), u, parsed)
	if err != nil {
		t.Fatal(err)
	}
	funcs := s.Categories["functions"]
	if len(funcs) != 1 || funcs[0].Name != "branchy" {
		t.Fatalf("expected only branchy to survive complexity>2, got %+v", funcs)
	}
}
