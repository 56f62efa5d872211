// Package file implements the file scheme adapter (§4.6): the
// Source-Code Adapter, synthesized for bare filesystem paths and
// file://... URIs alike. A single-file resource parses through the
// Parser Frontend; a directory resource yields a depth-limited,
// Filter-Layer-pruned tree.
package file

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/filter"
	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "file" scheme.
type Adapter struct {
	engine       *parserfrontend.Engine
	defaultDepth int
}

// New builds a file Adapter. defaultDepth is the directory tree depth
// used when a URI carries no explicit "depth=" query field, sourced from
// the Configuration Snapshot's directory.default_depth key.
func New(engine *parserfrontend.Engine, defaultDepth int) *Adapter {
	return &Adapter{engine: engine, defaultDepth: defaultDepth}
}

func (a *Adapter) Scheme() string    { return "file" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	path := u.Resource
	info, err := os.Stat(path)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot stat "+path, err)
	}

	var s *contract.Structure
	if info.IsDir() {
		s, err = a.structureForDir(ctx, u, path, q)
	} else {
		s, err = a.structureForFile(ctx, u, path)
	}
	if err != nil {
		return nil, err
	}
	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	info, err := os.Stat(u.Resource)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot stat "+u.Resource, err)
	}
	if info.IsDir() {
		s, err := a.structureForDir(ctx, u, u.Resource, nil)
		if err != nil {
			return nil, err
		}
		return adapter.ResolveElement(s, u.Raw, ref)
	}
	s, err := a.structureForFile(ctx, u, u.Resource)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(s, u.Raw, ref)
}

// structureForFile parses a single source file through the Parser
// Frontend. Files whose language cannot be resolved still yield a
// Structure — an empty one, with a warning — rather than an error, since
// "unparseable file" is routine, not exceptional.
func (a *Adapter) structureForFile(ctx context.Context, u *uri.URI, path string) (*contract.Structure, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot read "+path, err)
	}

	override, _ := u.Query.Get("lang")
	provider, ok := a.engine.Resolve(path, override, parserfrontend.FirstLineOf(source))
	if !ok {
		s := contract.NewStructure("unknown_source", u.Raw, contract.SourceFile)
		s.AddWarning("NoProvider", "no language provider resolved for "+filepath.Base(path))
		return s, nil
	}

	result, err := parserfrontend.Parse(ctx, provider, u.Raw, source)
	if err != nil {
		return nil, err
	}
	return result.Structure, nil
}

// structureForDir walks path, pruned by the Filter Layer, to the
// configured depth (or the URI's "depth=" override), emitting one
// Element per visible entry under the "entries" category.
func (a *Adapter) structureForDir(ctx context.Context, u *uri.URI, path string, q *query.Parsed) (*contract.Structure, error) {
	depth := a.defaultDepth
	if v, ok := u.Query.Get("depth"); ok {
		if n, err := parseDepth(v); err == nil {
			depth = n
		}
	}

	var excludes []string
	if v, ok := u.Query.Get("exclude"); ok && v != "" {
		excludes = strings.Split(v, ",")
	}
	noGitignore := u.Query.Has("no-gitignore")

	f := filter.New(filter.Options{Root: path, ExcludeGlobs: excludes, NoGitignore: noGitignore})

	s := contract.NewStructure("directory", u.Raw, contract.SourceDirectory)

	var entries []*contract.Element
	walkDir(path, path, f, depth, 0, &entries)

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	for i, el := range entries {
		el.Ordinal = i + 1
	}
	s.AddCategory("entries", entries...)
	return s, nil
}

func walkDir(root, dir string, f *filter.Filter, maxDepth, curDepth int, out *[]*contract.Element) {
	if curDepth >= maxDepth {
		return
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, de := range dirEntries {
		full := filepath.Join(dir, de.Name())
		rel, err := filepath.Rel(root, full)
		if err != nil {
			rel = de.Name()
		}
		if de.IsDir() {
			if f.ShouldSkipDir(rel) {
				continue
			}
			el := &contract.Element{
				Name:     rel,
				Category: "entries",
				Attributes: map[string]any{
					"type": "directory",
				},
			}
			*out = append(*out, el)
			walkDir(root, full, f, maxDepth, curDepth+1, out)
			continue
		}
		if f.ShouldSkipFile(rel) {
			continue
		}
		info, err := de.Info()
		var size int64
		if err == nil {
			size = info.Size()
		}
		el := &contract.Element{
			Name:     rel,
			Category: "entries",
			Attributes: map[string]any{
				"type": "file",
				"size": float64(size),
			},
		}
		*out = append(*out, el)
	}
}

func parseDepth(s string) (int, error) {
	n := 0
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, contract.NewError(contract.ErrUnparsableQuery, s, "invalid depth", nil)
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:      "file",
		Summary:     "Source file and directory introspection via the Parser Frontend",
		Categories:  []string{"functions", "classes", "methods", "entries"},
		Examples:    []string{"file:///path/to/repo", "file:///path/to/main.go#parseArgs"},
		QueryFields: []string{"depth", "exclude", "no-gitignore", "lang", "complexity", "name"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string", Description: "element or entry name"},
		{Name: "complexity", Type: "number", Description: "cyclomatic complexity"},
		{Name: "line_count", Type: "number", Description: "span in source lines"},
		{Name: "line_start", Type: "number"},
		{Name: "line_end", Type: "number"},
		{Name: "category", Type: "string"},
		{Name: "type", Type: "string", Enum: []string{"file", "directory"}},
	}}
}
