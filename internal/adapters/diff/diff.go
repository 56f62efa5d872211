// Package diff implements the diff scheme adapter (§4.10): two URIs,
// each resolved recursively through its own adapter via the process-wide
// AdapterRegistry, compared structurally by internal/diffcore.
package diff

import (
	"context"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/diffcore"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "diff" scheme.
type Adapter struct {
	registry *registry.AdapterRegistry
}

func New(reg *registry.AdapterRegistry) *Adapter {
	return &Adapter{registry: reg}
}

func (a *Adapter) Scheme() string     { return "diff" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	leftRaw, rightRaw, err := splitSides(u.Resource)
	if err != nil {
		return nil, contract.NewError(contract.ErrURIParse, u.Raw, err.Error(), err)
	}

	left, err := a.resolve(ctx, leftRaw)
	if err != nil {
		return nil, err
	}
	right, err := a.resolve(ctx, rightRaw)
	if err != nil {
		return nil, err
	}

	result := diffcore.Diff(left, right)
	s := contract.NewStructure("diff", u.Raw, contract.SourceComposite)

	if result.UnknownShape {
		s.AddCategory("unknown-shape", &contract.Element{
			Name:     "unknown-shape",
			Category: "unknown-shape",
			Attributes: map[string]any{
				"left":  leftRaw,
				"right": rightRaw,
			},
		})
		if q != nil {
			adapter.ApplyToStructure(s, q)
		}
		return s, nil
	}

	render(s, result)

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

// resolve parses raw as an inner URI and dispatches it through the
// registered adapter for its scheme, recursively — a git ref is a valid
// inner URI, per §4.10.
func (a *Adapter) resolve(ctx context.Context, raw string) (*contract.Structure, error) {
	inner, err := uri.Parse(raw)
	if err != nil {
		return nil, contract.NewError(contract.ErrURIParse, raw, err.Error(), err)
	}
	ad, ok := a.registry.Get(inner.Scheme)
	if !ok {
		return nil, contract.NewError(contract.ErrUnknownScheme, raw, "no adapter registered for scheme "+inner.Scheme, nil)
	}
	return ad.GetStructure(ctx, inner, nil)
}

// splitSides separates the two inner URIs joined by a ":" in the diff
// resource, e.g. "a.py:b.py" or "git://path@ref:git://path@ref2". Scheme
// colons are always immediately followed by "//"; the separator is the
// first colon that isn't, so both sides may themselves carry a scheme.
func splitSides(resource string) (left, right string, err error) {
	for i := 0; i < len(resource); i++ {
		if resource[i] != ':' {
			continue
		}
		if strings.HasPrefix(resource[i:], "://") {
			continue
		}
		return resource[:i], resource[i+1:], nil
	}
	return "", "", errMissingSeparator
}

var errMissingSeparator = diffError("diff resource must join two URIs with \":\", e.g. \"a.py:b.py\"")

type diffError string

func (e diffError) Error() string { return string(e) }

func render(s *contract.Structure, result *diffcore.Result) {
	counts := map[diffcore.ChangeKind]int{}
	for k, n := range result.Summary {
		counts[k] = n
	}
	s.AddCategory("summary", &contract.Element{
		Name:     "summary",
		Category: "summary",
		Attributes: map[string]any{
			"added":     float64(counts[diffcore.Added]),
			"removed":   float64(counts[diffcore.Removed]),
			"modified":  float64(counts[diffcore.Modified]),
			"unchanged": float64(counts[diffcore.Unchanged]),
		},
	})

	for i, e := range result.Entries {
		attrs := map[string]any{
			"category": e.Category,
		}
		for field, ch := range e.Changes {
			attrs["old_"+field] = ch.Old
			attrs["new_"+field] = ch.New
		}
		s.AddCategory(string(e.Kind), &contract.Element{
			Name:       e.Identity,
			Category:   string(e.Kind),
			Ordinal:    i + 1,
			Attributes: attrs,
		})
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
		Scheme:      "diff",
		Summary:     "Structural diff of two URIs, each resolved recursively through its own adapter",
		Categories:  []string{"summary", "added", "removed", "modified", "unchanged", "unknown-shape"},
		Examples:    []string{"diff://a.py:b.py", "diff://git://path@HEAD~3:git://path@HEAD"},
		QueryFields: nil,
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "category", Type: "string"},
	}}
}
