package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/uri"
)

func newTestEngine() *parserfrontend.Engine {
	return parserfrontend.NewEngine([]parserfrontend.Provider{
		parserfrontend.GoProvider{},
		parserfrontend.PythonProvider{},
	})
}

func TestGetStructureParsesSingleGoFile(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc classify(n int) string {\n\tif n > 0 {\n\t\treturn \"pos\"\n\t} else if n < 0 {\n\t\treturn \"neg\"\n\t}\n\treturn \"zero\"\n}\n"
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	a := New(newTestEngine(), 5)
	u, err := uri.Parse("file://" + path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	funcs := s.Categories["functions"]
	if len(funcs) != 1 || funcs[0].Name != "classify" {
		t.Fatalf("expected one function classify, got %+v", funcs)
	}
	if funcs[0].Complexity < 2 {
		t.Errorf("expected complexity >= 2, got %d", funcs[0].Complexity)
	}
}

func TestGetStructureWalksDirectoryRespectingDepth(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755)
	os.WriteFile(filepath.Join(dir, "top.go"), []byte("package a\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "a", "mid.go"), []byte("package a\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "a", "b", "deep.go"), []byte("package a\n"), 0o644)

	a := New(newTestEngine(), 5)
	u, err := uri.Parse("file://" + dir + "?depth=1")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, el := range s.Categories["entries"] {
		found[el.Name] = true
	}
	if !found["top.go"] || !found["a"] {
		t.Errorf("expected top-level entries present, got %+v", found)
	}
	if found["a/mid.go"] {
		t.Error("expected depth=1 to exclude nested file a/mid.go")
	}
}

func TestGetElementByName(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc hello() string {\n\treturn \"hi\"\n}\n"
	path := filepath.Join(dir, "main.go")
	os.WriteFile(path, []byte(src), 0o644)

	a := New(newTestEngine(), 5)
	u, err := uri.Parse("file://" + path)
	if err != nil {
		t.Fatal(err)
	}
	el, err := a.GetElement(context.Background(), u, uri.ParseElementRef("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if el.Name != "hello" {
		t.Errorf("expected hello, got %s", el.Name)
	}
}
