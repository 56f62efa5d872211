package imports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/reveal/internal/parserfrontend"
)

func testEngine() *parserfrontend.Engine {
	return parserfrontend.NewEngine([]parserfrontend.Provider{parserfrontend.GoProvider{}})
}

func TestBuildResolvesGoPackageDirImports(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "util"), 0o755)
	os.WriteFile(filepath.Join(dir, "util", "util.go"), []byte("package util\n\nfunc Helper() {}\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nimport \"example.com/app/util\"\n\nfunc main() {\n\tutil.Helper()\n}\n"), 0o644)

	g, err := Build(dir, testEngine())
	if err != nil {
		t.Fatal(err)
	}
	edges := g.Edges["main.go"]
	if len(edges) != 1 || edges[0] != "util/util.go" {
		t.Fatalf("expected main.go -> util/util.go, got %+v", edges)
	}
}

func TestCircularDetectsTwoFileCycle(t *testing.T) {
	g := &Graph{
		Nodes: map[string]*Node{"a.go": {}, "b.go": {}},
		Edges: map[string][]string{"a.go": {"b.go"}, "b.go": {"a.go"}},
	}
	cycles := g.Circular()
	if len(cycles) != 1 || len(cycles[0]) != 2 {
		t.Fatalf("expected one 2-file cycle, got %+v", cycles)
	}
}

func TestViolationsFlagsLowerImportingHigher(t *testing.T) {
	g := &Graph{
		Nodes: map[string]*Node{"core/a.go": {}, "handler/b.go": {}},
		Edges: map[string][]string{"core/a.go": {"handler/b.go"}},
	}
	v := g.Violations([]string{"core", "service", "handler"})
	if len(v) != 1 || v[0].From != "core/a.go" {
		t.Fatalf("expected one violation from core/a.go, got %+v", v)
	}
}

func TestViolationsAllowsHigherImportingLower(t *testing.T) {
	g := &Graph{
		Nodes: map[string]*Node{"core/a.go": {}, "handler/b.go": {}},
		Edges: map[string][]string{"handler/b.go": {"core/a.go"}},
	}
	v := g.Violations([]string{"core", "service", "handler"})
	if len(v) != 0 {
		t.Fatalf("expected no violations, got %+v", v)
	}
}

func TestUnusedDetectsNeverReferencedImport(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "util"), 0o755)
	os.WriteFile(filepath.Join(dir, "util", "util.go"), []byte("package util\n\nfunc Helper() {}\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nimport \"example.com/app/util\"\n\nfunc main() {}\n"), 0o644)

	g, err := Build(dir, testEngine())
	if err != nil {
		t.Fatal(err)
	}
	unused := g.Unused()
	if len(unused["main.go"]) != 1 {
		t.Fatalf("expected main.go's util import flagged unused, got %+v", unused)
	}
}
