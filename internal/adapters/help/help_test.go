package help

import (
	"context"
	"testing"

	"github.com/termfx/reveal/internal/adapters/env"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/rules"
	"github.com/termfx/reveal/internal/uri"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	adapters := registry.NewAdapterRegistry()
	if err := adapters.Register(env.New()); err != nil {
		t.Fatal(err)
	}
	ruleReg := registry.NewRuleRegistry()
	if err := ruleReg.Register(rules.NewComplexityThreshold()); err != nil {
		t.Fatal(err)
	}
	return New(adapters, ruleReg)
}

func TestGetStructureIndexesAdaptersAndRules(t *testing.T) {
	a := newTestAdapter(t)
	u, err := uri.Parse("help://")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Categories["adapters"]) != 1 {
		t.Fatalf("expected 1 indexed adapter, got %+v", s.Categories["adapters"])
	}
	if len(s.Categories["rules"]) != 1 {
		t.Fatalf("expected 1 indexed rule, got %+v", s.Categories["rules"])
	}
}

func TestGetStructureDescribesSingleRuleCode(t *testing.T) {
	a := newTestAdapter(t)
	u, err := uri.Parse("help://C901")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	rules := s.Categories["rules"]
	if len(rules) != 1 || rules[0].Name != "C901" {
		t.Fatalf("expected C901 detail, got %+v", rules)
	}
}

func TestGetStructureWarnsOnUnknownAdapter(t *testing.T) {
	a := newTestAdapter(t)
	u, err := uri.Parse("help://nosuch")
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Warnings) == 0 {
		t.Fatal("expected a warning for an unknown adapter scheme")
	}
}
