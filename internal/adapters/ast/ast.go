// Package ast implements the ast scheme adapter (§4.7): a query-forward
// re-projection of source-code structure. It shares the Parser Frontend
// with the file adapter but exposes the full query sublanguage and, on a
// directory resource, aggregates matching Elements across every
// recognized source file rather than stopping at one tree level.
package ast

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/filter"
	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "ast" scheme.
type Adapter struct {
	engine *parserfrontend.Engine
}

func New(engine *parserfrontend.Engine) *Adapter {
	return &Adapter{engine: engine}
}

func (a *Adapter) Scheme() string     { return "ast" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	info, err := os.Stat(u.Resource)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot stat "+u.Resource, err)
	}

	s := contract.NewStructure("ast_query", u.Raw, contract.SourceComposite)
	if info.IsDir() {
		filePredicate, _ := u.Query.Get("file")
		if err := a.aggregateDir(ctx, u.Resource, filePredicate, s); err != nil {
			return nil, err
		}
	} else {
		if err := a.aggregateFile(ctx, u.Resource, s); err != nil {
			return nil, err
		}
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(s, u.Raw, ref)
}

// aggregateFile parses one source file and copies its categories
// straight into s, tagging each Element's "file" attribute so directory
// aggregation and the file= predicate have something to match against.
func (a *Adapter) aggregateFile(ctx context.Context, path string, s *contract.Structure) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return contract.NewError(contract.ErrResourceUnavailable, path, "cannot read "+path, err)
	}
	provider, ok := a.engine.Resolve(path, "", parserfrontend.FirstLineOf(source))
	if !ok {
		return nil
	}
	result, err := parserfrontend.Parse(ctx, provider, path, source)
	if err != nil {
		return err
	}
	for _, cat := range result.Structure.CategoryOrder {
		for _, el := range result.Structure.Categories[cat] {
			if el.Attributes == nil {
				el.Attributes = map[string]any{}
			}
			el.Attributes["file"] = path
			s.AddCategory(cat, el)
		}
	}
	return nil
}

// aggregateDir walks dir (pruned by the Filter Layer), parsing every
// recognized source file and merging its Elements into s. filePredicate,
// when set, is matched against each file's relative path before any
// per-Element filtering: first as a filepath.Match glob on the relative
// path, then as a glob on the base name, then as a plain substring of the
// relative path (see matchesFilePredicate).
func (a *Adapter) aggregateDir(ctx context.Context, dir, filePredicate string, s *contract.Structure) error {
	f := filter.New(filter.Options{Root: dir})
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if path != dir && f.ShouldSkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ShouldSkipFile(rel) {
			return nil
		}
		if filePredicate != "" && !matchesFilePredicate(rel, filePredicate) {
			return nil
		}
		_, ok := a.engine.Resolve(path, "", nil)
		if !ok {
			return nil
		}
		return a.aggregateFile(ctx, path, s)
	})
}

func matchesFilePredicate(relPath, predicate string) bool {
	if ok, err := filepath.Match(predicate, relPath); err == nil && ok {
		return true
	}
	if ok, err := filepath.Match(predicate, filepath.Base(relPath)); err == nil && ok {
		return true
	}
	return strings.Contains(relPath, predicate)
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:      "ast",
		Summary:     "Query-forward re-projection of source structure across one file or a tree",
		Categories:  []string{"functions", "classes", "methods", "types"},
		Examples:    []string{"ast://src?complexity>10&sort=-complexity&limit=5", "ast://src?file=service&name~=Handler"},
		QueryFields: []string{"file", "complexity", "line_count", "depth", "name", "category"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "complexity", Type: "number"},
		{Name: "line_count", Type: "number"},
		{Name: "depth", Type: "number"},
		{Name: "category", Type: "string"},
		{Name: "file", Type: "string"},
	}}
}
