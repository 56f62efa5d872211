// Package env implements the env scheme adapter (§4.19): an element-
// namespace view of the process environment, redacting values whose key
// looks secret-shaped.
package env

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

var secretSuffixes = []string{"_KEY", "_TOKEN", "_SECRET", "_PASSWORD"}

func looksSecret(name string) bool {
	upper := strings.ToUpper(name)
	for _, suf := range secretSuffixes {
		if strings.HasSuffix(upper, suf) {
			return true
		}
	}
	return false
}

// Adapter implements adapter.Adapter for the "env" scheme. Resource
// names a single variable, or is empty for the full set.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Scheme() string     { return "env" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ElementNamespace }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	s := contract.NewStructure("environment", u.Raw, contract.SourceProcess)

	names := namesFromEnviron(os.Environ())
	if u.Resource != "" {
		names = filterNames(names, u.Resource)
	}
	sort.Strings(names)

	for i, name := range names {
		value := os.Getenv(name)
		redacted := looksSecret(name)
		if redacted {
			value = "<redacted>"
		}
		s.AddCategory("variables", &contract.Element{
			Name:     name,
			Category: "variables",
			Ordinal:  i + 1,
			Attributes: map[string]any{
				"value":    value,
				"redacted": redacted,
				"source":   "process-env",
			},
		})
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func namesFromEnviron(environ []string) []string {
	names := make([]string, 0, len(environ))
	for _, kv := range environ {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			names = append(names, kv[:idx])
		}
	}
	return names
}

func filterNames(names []string, want string) []string {
	for _, n := range names {
		if n == want {
			return []string{n}
		}
	}
	return nil
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
		Scheme:      "env",
		Summary:     "Process environment variables, secret-shaped values redacted",
		Categories:  []string{"variables"},
		Examples:    []string{"env://", "env://PATH"},
		QueryFields: nil,
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "redacted", Type: "bool"},
	}}
}
