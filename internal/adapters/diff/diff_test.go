package diff

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/reveal/internal/adapters/file"
	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/uri"
)

func newRegistry(t *testing.T) *registry.AdapterRegistry {
	t.Helper()
	engine := parserfrontend.NewEngine([]parserfrontend.Provider{parserfrontend.GoProvider{}})
	reg := registry.NewAdapterRegistry()
	if err := reg.Register(file.New(engine, 5)); err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestGetStructureDiffsTwoFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.go")
	os.WriteFile(a, []byte("package a\n\nfunc foo(x int) {}\n"), 0o644)
	os.WriteFile(b, []byte("package a\n\nfunc foo(x, y int) {\n\tif x > 0 {\n\t}\n}\n"), 0o644)

	ad := New(newRegistry(t))
	u, err := uri.Parse("diff://" + a + ":" + b)
	if err != nil {
		t.Fatal(err)
	}
	s, err := ad.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Categories["summary"]) != 1 {
		t.Fatalf("expected one summary entry, got %+v", s.Categories["summary"])
	}
	modified := s.Categories["modified"]
	if len(modified) != 1 || modified[0].Name != "foo" {
		t.Fatalf("expected foo reported modified, got %+v", modified)
	}
	if _, ok := modified[0].Attributes["new_signature"]; !ok {
		t.Errorf("expected new_signature attribute on modified entry, got %+v", modified[0].Attributes)
	}
}

func TestSplitSidesHandlesSchemePrefixedSides(t *testing.T) {
	left, right, err := splitSides("git://path@HEAD~3:git://path@HEAD")
	if err != nil {
		t.Fatal(err)
	}
	if left != "git://path@HEAD~3" || right != "git://path@HEAD" {
		t.Fatalf("got left=%q right=%q", left, right)
	}
}

func TestSplitSidesRejectsMissingSeparator(t *testing.T) {
	if _, _, err := splitSides("a.py"); err == nil {
		t.Fatal("expected error for missing separator")
	}
}
