// Package imports implements the imports scheme adapter (§4.8): a
// cross-file import/use/require graph with unused-import, circular
// (Tarjan SCC), and layer-violation queries layered on
// internal/imports's graph-building domain logic.
package imports

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/imports"
	"github.com/termfx/reveal/internal/parserfrontend"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "imports" scheme.
type Adapter struct {
	engine *parserfrontend.Engine
}

func New(engine *parserfrontend.Engine) *Adapter {
	return &Adapter{engine: engine}
}

func (a *Adapter) Scheme() string     { return "imports" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	if _, err := os.Stat(u.Resource); err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot stat "+u.Resource, err)
	}

	g, err := imports.Build(u.Resource, a.engine)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "import graph build failed: "+err.Error(), err)
	}

	s := contract.NewStructure("import_graph", u.Raw, contract.SourceComposite)

	switch {
	case u.Query.Has("unused"):
		renderUnused(s, g)
	case u.Query.Has("circular"):
		renderCircular(s, g)
	case u.Query.Has("violations"):
		renderViolations(s, g, u)
	default:
		renderOverview(s, g)
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func renderOverview(s *contract.Structure, g *imports.Graph) {
	var nodes []string
	for rel := range g.Nodes {
		nodes = append(nodes, rel)
	}
	for _, rel := range nodes {
		n := g.Nodes[rel]
		el := &contract.Element{
			Name:     rel,
			Category: "files",
			Attributes: map[string]any{
				"lang":         n.Lang,
				"import_count": float64(len(n.Imports)),
				"resolved_to":  g.Edges[rel],
				"fan_out":      float64(len(g.Edges[rel])),
			},
		}
		s.AddCategory("files", el)
	}
}

func renderUnused(s *contract.Structure, g *imports.Graph) {
	for rel, names := range g.Unused() {
		el := &contract.Element{
			Name:     rel,
			Category: "unused",
			Attributes: map[string]any{
				"imports": names,
			},
		}
		s.AddCategory("unused", el)
	}
}

func renderCircular(s *contract.Structure, g *imports.Graph) {
	for i, comp := range g.Circular() {
		el := &contract.Element{
			Name:     fmt.Sprintf("cycle_%d", i+1),
			Category: "cycles",
			Attributes: map[string]any{
				"members": comp,
				"size":    float64(len(comp)),
			},
		}
		s.AddCategory("cycles", el)
	}
}

func renderViolations(s *contract.Structure, g *imports.Graph, u *uri.URI) {
	layersStr, _ := u.Query.Get("layers")
	var layers []string
	if layersStr != "" {
		layers = strings.Split(layersStr, ",")
	}
	if len(layers) == 0 {
		s.AddWarning("NoLayerConfig", "?violations requires layers= (ordered lowest to highest)")
		return
	}
	for _, v := range g.Violations(layers) {
		el := &contract.Element{
			Name:     v.From + " -> " + v.To,
			Category: "violations",
			Attributes: map[string]any{
				"from":       v.From,
				"to":         v.To,
				"from_layer": v.FromLayer,
				"to_layer":   v.ToLayer,
			},
		}
		s.AddCategory("violations", el)
	}
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(s, u.Raw, ref)
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:      "imports",
		Summary:     "Cross-file import graph: unused imports, circular dependencies, layer violations",
		Categories:  []string{"files", "unused", "cycles", "violations"},
		Examples:    []string{"imports://src", "imports://src?unused", "imports://src?circular", "imports://src?violations&layers=core,service,handler"},
		QueryFields: []string{"unused", "circular", "violations", "layers"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "lang", Type: "string"},
		{Name: "fan_out", Type: "number"},
		{Name: "import_count", Type: "number"},
	}}
}
