// Package help implements the help scheme adapter (§4.18): a combined
// index of every registered adapter and rule, or detail on one named
// resource.
package help

import (
	"context"
	"sort"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/rules"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "help" scheme. Resource
// names an adapter scheme or a rule code; empty resource lists both.
type Adapter struct {
	adapters *registry.AdapterRegistry
	rules    *registry.RuleRegistry
}

func New(adapters *registry.AdapterRegistry, ruleReg *registry.RuleRegistry) *Adapter {
	return &Adapter{adapters: adapters, rules: ruleReg}
}

func (a *Adapter) Scheme() string     { return "help" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ElementNamespace }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	s := contract.NewStructure("help_index", u.Raw, contract.SourceProcess)

	switch {
	case u.Resource == "":
		a.indexAdapters(s)
		a.indexRules(s)
	case a.isRuleCode(u.Resource):
		a.describeRule(s, u.Resource)
	default:
		a.describeAdapter(s, u.Resource)
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func (a *Adapter) isRuleCode(resource string) bool {
	_, ok := a.rules.Get(resource)
	return ok
}

func (a *Adapter) indexAdapters(s *contract.Structure) {
	schemes := a.adapters.Schemes()
	sort.Strings(schemes)
	for i, scheme := range schemes {
		ad, _ := a.adapters.Get(scheme)
		hr := ad.Help()
		s.AddCategory("adapters", helpElement(hr, i+1))
	}
}

func (a *Adapter) indexRules(s *contract.Structure) {
	all := a.rules.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Code() < all[j].Code() })
	for i, r := range all {
		s.AddCategory("rules", &contract.Element{
			Name:     r.Code(),
			Category: "rules",
			Ordinal:  i + 1,
			Attributes: map[string]any{
				"summary":          r.Summary(),
				"default_severity": string(r.DefaultSeverity()),
				"category":         string(rules.CodeCategory(r.Code())),
			},
		})
	}
}

func (a *Adapter) describeAdapter(s *contract.Structure, scheme string) {
	ad, ok := a.adapters.Get(scheme)
	if !ok {
		s.AddWarning("UnknownAdapter", "no adapter registered for scheme "+scheme)
		return
	}
	s.AddCategory("adapters", helpElement(ad.Help(), 1))
}

func (a *Adapter) describeRule(s *contract.Structure, code string) {
	r, _ := a.rules.Get(code)
	s.AddCategory("rules", &contract.Element{
		Name:     r.Code(),
		Category: "rules",
		Ordinal:  1,
		Attributes: map[string]any{
			"summary":          r.Summary(),
			"default_severity": string(r.DefaultSeverity()),
			"category":         string(rules.CodeCategory(r.Code())),
		},
	})
}

func helpElement(hr adapter.HelpRecord, ordinal int) *contract.Element {
	return &contract.Element{
		Name:     hr.Scheme,
		Category: "adapters",
		Ordinal:  ordinal,
		Attributes: map[string]any{
			"summary":      hr.Summary,
			"categories":   strings.Join(hr.Categories, ","),
			"examples":     strings.Join(hr.Examples, " | "),
			"query_fields": strings.Join(hr.QueryFields, ","),
		},
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
		Scheme:     "help",
		Summary:    "Index of registered adapters and rules, or detail on one",
		Categories: []string{"adapters", "rules"},
		Examples:   []string{"help://", "help://file", "help://C901"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "summary", Type: "string"},
	}}
}
