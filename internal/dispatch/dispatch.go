// Package dispatch implements the Dispatcher (§4.1/§4.3): resolving a
// parsed URI to its Adapter, running the universal query layer, and
// handing back a single Output Contract Structure regardless of whether
// the caller asked for a whole resource or one addressed element.
package dispatch

import (
	"context"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/uri"
)

// Dispatcher routes a resource argument (plus an optional element
// argument and CLI query overrides) to its Adapter and back.
type Dispatcher struct {
	adapters *registry.AdapterRegistry
}

// New builds a Dispatcher over the process-wide adapter registry.
func New(adapters *registry.AdapterRegistry) *Dispatcher {
	return &Dispatcher{adapters: adapters}
}

// Request is everything the CLI layer gathers before dispatch: the
// positional resource argument (a bare path or a scheme://... URI), an
// optional second positional element argument, and CLI flag overrides
// for the universal query layer.
type Request struct {
	Resource string
	Element  string

	// QueryOverrides are CLI-flag-sourced query pairs (e.g. --select,
	// --depth) that take precedence over any same-keyed pair already
	// present in the URI's own query string, per §7's
	// ConfigurationConflict semantics: the CLI flag wins, and a warning
	// is recorded on the returned Structure rather than silently
	// dropped.
	QueryOverrides map[string]string
}

// Dispatch resolves req to a Structure. When req.Element is non-empty,
// the result is the single addressed Element, wrapped in a synthetic
// one-category Structure so the Renderer never needs to special-case a
// single-element result.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*contract.Structure, error) {
	u, err := uri.ParseRaw(req.Resource)
	if err != nil {
		return nil, err
	}

	a, ok := d.adapters.Get(u.Scheme)
	if !ok {
		suggestion := nearestScheme(u.Scheme, d.adapters.Schemes())
		e := contract.NewError(contract.ErrUnknownScheme, u.Raw, "no adapter registered for scheme "+u.Scheme, nil)
		if suggestion != "" {
			e = e.WithSuggestion(suggestion)
		}
		return nil, e
	}

	conflicts := mergeQueryOverrides(u.Query, req.QueryOverrides)

	q := query.Parse(u.Query, a.Schema().FieldNames())

	if req.Element == "" {
		s, err := a.GetStructure(ctx, u, q)
		if err != nil {
			return nil, err
		}
		stampConflicts(s, conflicts)
		return s, nil
	}

	ref := uri.ParseElementRef(req.Element)
	el, err := a.GetElement(ctx, u, ref)
	if err != nil {
		return nil, err
	}

	s := contract.NewStructure(u.Scheme+"_element", u.Raw, contract.SourceComposite)
	cat := el.Category
	if cat == "" {
		cat = "element"
	}
	s.AddCategory(cat, el)
	stampConflicts(s, conflicts)
	return s, nil
}

// mergeQueryOverrides appends each override pair to q, replacing (not
// merely shadowing) any pair already present under the same key and
// reporting every case where both sources disagreed.
func mergeQueryOverrides(q *uri.Query, overrides map[string]string) []string {
	var conflicts []string
	if len(overrides) == 0 {
		return nil
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := overrides[key]
		if existing, present := q.Get(key); present && existing != val {
			conflicts = append(conflicts, key)
		}
	}

	rebuilt := uri.NewQuery()
	for _, raw := range q.Pairs() {
		k, v, hasEq := strings.Cut(raw, "=")
		if _, over := overrides[k]; over {
			continue
		}
		if hasEq {
			rebuilt.Set(k, v)
		} else {
			rebuilt.SetFlag(k)
		}
	}
	for _, key := range keys {
		rebuilt.Set(key, overrides[key])
	}
	*q = *rebuilt
	return conflicts
}

func stampConflicts(s *contract.Structure, conflicts []string) {
	for _, key := range conflicts {
		s.AddWarning(string(contract.ErrConfigurationConflict),
			"CLI flag overrides conflicting query field: "+key)
	}
}

// nearestScheme finds the closest registered scheme to an unrecognized
// one by Levenshtein distance, for the "did you mean" suggestion in
// §7's UnknownScheme error. Returns "" when nothing is close enough to
// be a plausible typo.
func nearestScheme(want string, candidates []string) string {
	sort.Strings(candidates)

	best := ""
	bestDist := -1
	for _, c := range candidates {
		dist := levenshtein.Distance(want, c, nil)
		if bestDist == -1 || dist < bestDist {
			best, bestDist = c, dist
		}
	}

	threshold := len(want)/2 + 1
	if bestDist >= 0 && bestDist <= threshold {
		return best
	}
	return ""
}
