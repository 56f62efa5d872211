// Package imports builds the cross-file import/use/require graph (§4.8):
// one node per recognized source file, one edge per import statement
// that resolves to another in-tree file. Resolution, unused-name
// detection, and stdlib self-edge exclusion are heuristic — grounded in
// the node types the Parser Frontend extracts rather than a full module
// resolver for each language's build system.
package imports

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/termfx/reveal/internal/filter"
	"github.com/termfx/reveal/internal/parserfrontend"
)

// stdlibNames is a small, non-exhaustive set of standard-library module
// names across the supported languages, used only to suppress the
// degenerate self-edge a file would otherwise create by sharing its own
// basename with a stdlib module it imports (e.g. a file named fmt.go
// importing "fmt").
var stdlibNames = map[string]bool{
	"fmt": true, "os": true, "strings": true, "io": true, "time": true,
	"context": true, "sync": true, "errors": true, "bytes": true, "sort": true,
	"strconv": true, "path": true, "net": true, "json": true, "re": true,
	"sys": true, "math": true, "random": true, "collections": true,
	"fs": true, "path/filepath": true, "net/http": true, "encoding/json": true,
	"logging": true, "subprocess": true, "typing": true, "itertools": true,
	"functools": true, "asyncio": true, "threading": true, "unittest": true,
}

// Node is one recognized source file in the graph.
type Node struct {
	Path    string // relative to graph root
	Lang    string
	Imports []string // raw import strings as extracted from source
}

// Graph is the directed import graph over one source tree.
type Graph struct {
	Root  string
	Nodes map[string]*Node
	// Edges maps a file's relative path to the relative paths of the
	// in-tree files it imports.
	Edges map[string][]string
	// Unresolved maps a file's relative path to import strings that did
	// not resolve to an in-tree file (external packages, stdlib).
	Unresolved map[string][]string
	// sources retains each file's raw bytes for the unused-name pass.
	sources map[string][]byte
}

// Build walks root (pruned by the Filter Layer), parses every file the
// engine recognizes, extracts its imports, and resolves each import to
// an in-tree file when possible.
func Build(root string, engine *parserfrontend.Engine) (*Graph, error) {
	g := &Graph{
		Root:       root,
		Nodes:      make(map[string]*Node),
		Edges:      make(map[string][]string),
		Unresolved: make(map[string][]string),
		sources:    make(map[string][]byte),
	}
	f := filter.New(filter.Options{Root: root})

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if path != root && f.ShouldSkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ShouldSkipFile(rel) {
			return nil
		}
		source, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		provider, ok := engine.Resolve(path, "", parserfrontend.FirstLineOf(source))
		if !ok {
			return nil
		}
		lang := provider.SitterLanguage()
		if lang == nil {
			return nil
		}
		res, parseErr := parseQuiet(provider, path, source)
		if parseErr != nil || res == nil {
			return nil
		}

		rawImports := parserfrontend.ExtractImports(provider, res.Tree.RootNode(), source)
		g.Nodes[rel] = &Node{Path: rel, Lang: provider.Lang(), Imports: rawImports}
		g.sources[rel] = source

		for _, imp := range rawImports {
			if target, ok := resolve(root, rel, provider.Lang(), imp); ok {
				if target == rel && stdlibNames[imp] {
					continue
				}
				g.Edges[rel] = append(g.Edges[rel], target)
			} else {
				g.Unresolved[rel] = append(g.Unresolved[rel], imp)
			}
		}
		return nil
	})
	return g, err
}

// parseQuiet runs the Parser Frontend without surfacing its error as a
// Build-fatal condition — a single unparseable file should shrink the
// graph, not abort construction.
func parseQuiet(p parserfrontend.Provider, path string, source []byte) (*parserfrontend.ParseResult, error) {
	return parserfrontend.Parse(context.Background(), p, path, source)
}

// resolve attempts to map a raw import string to an in-tree relative
// path, using a per-language heuristic.
func resolve(root, fromRel, lang, imp string) (string, bool) {
	switch lang {
	case "javascript", "typescript":
		return resolveRelativeJS(root, fromRel, imp)
	case "python":
		return resolvePythonModule(root, imp)
	case "go":
		return resolveGoPackageDir(root, imp)
	}
	return "", false
}

func resolveRelativeJS(root, fromRel, imp string) (string, bool) {
	if !strings.HasPrefix(imp, ".") {
		return "", false
	}
	fromDir := filepath.Dir(filepath.Join(root, fromRel))
	candidate := filepath.Join(fromDir, imp)
	for _, suffix := range []string{"", ".js", ".ts", ".jsx", ".tsx", "/index.js", "/index.ts"} {
		full := candidate + suffix
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			rel, err := filepath.Rel(root, full)
			if err == nil {
				return filepath.ToSlash(rel), true
			}
		}
	}
	return "", false
}

func resolvePythonModule(root, imp string) (string, bool) {
	parts := strings.Split(strings.TrimPrefix(imp, "."), ".")
	candidate := filepath.Join(root, filepath.Join(parts...))
	for _, suffix := range []string{".py", "/__init__.py"} {
		full := candidate + suffix
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			rel, err := filepath.Rel(root, full)
			if err == nil {
				return filepath.ToSlash(rel), true
			}
		}
	}
	return "", false
}

// resolveGoPackageDir maps a Go import path's last segment to an in-tree
// directory of the same name, and that directory to its first non-test
// .go file by name (edges are file to file), a best-effort match since full Go import
// resolution requires the module path from go.mod, which the graph has
// no reason to parse for a read-only introspection tool.
func resolveGoPackageDir(root, imp string) (string, bool) {
	segs := strings.Split(imp, "/")
	last := segs[len(segs)-1]
	var found string
	matches := 0
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if filepath.Base(path) == last {
			found = path
			matches++
		}
		return nil
	})
	if matches != 1 {
		return "", false
	}
	entries, err := os.ReadDir(found)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		rel, err := filepath.Rel(root, filepath.Join(found, name))
		if err != nil {
			return "", false
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}
