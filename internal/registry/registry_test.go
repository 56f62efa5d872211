package registry

import (
	"context"
	"testing"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/rules"
	"github.com/termfx/reveal/internal/uri"
)

type stubAdapter struct{ scheme string }

func (s *stubAdapter) Scheme() string     { return s.scheme }
func (s *stubAdapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }
func (s *stubAdapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	return contract.NewStructure("stub", u.Raw, contract.SourceFile), nil
}
func (s *stubAdapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	return &contract.Element{Name: ref.Name}, nil
}
func (s *stubAdapter) Help() adapter.HelpRecord { return adapter.HelpRecord{Scheme: s.scheme} }
func (s *stubAdapter) Schema() adapter.Schema   { return adapter.Schema{} }

func TestAdapterRegistryRejectsDuplicates(t *testing.T) {
	r := NewAdapterRegistry()
	if err := r.Register(&stubAdapter{scheme: "file"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(&stubAdapter{scheme: "file"}); err == nil {
		t.Fatal("expected duplicate scheme registration to fail")
	}
	if _, ok := r.Get("file"); !ok {
		t.Fatal("expected file scheme to resolve")
	}
}

type stubRule struct{ code string }

func (s *stubRule) Code() string                   { return s.code }
func (s *stubRule) Summary() string                { return "stub" }
func (s *stubRule) DefaultSeverity() rules.Severity { return rules.SeverityWarning }
func (s *stubRule) Check(st *contract.Structure) []rules.Finding { return nil }

func TestRuleRegistryPreservesOrder(t *testing.T) {
	r := NewRuleRegistry()
	_ = r.Register(&stubRule{code: "C901"})
	_ = r.Register(&stubRule{code: "I001"})
	all := r.All()
	if len(all) != 2 || all[0].Code() != "C901" || all[1].Code() != "I001" {
		t.Fatalf("All() = %v", all)
	}
}

type stubAnalyzer struct {
	lang  string
	alias []string
	ext   []string
}

func (s *stubAnalyzer) Lang() string         { return s.lang }
func (s *stubAnalyzer) Aliases() []string    { return s.alias }
func (s *stubAnalyzer) Extensions() []string { return s.ext }

func TestAnalyzerRegistryLookupByAliasAndExtension(t *testing.T) {
	r := NewAnalyzerRegistry()
	err := r.Register(&stubAnalyzer{lang: "go", alias: []string{"golang"}, ext: []string{".go"}})
	if err != nil {
		t.Fatal(err)
	}
	if a, ok := r.Get("golang"); !ok || a.Lang() != "go" {
		t.Error("expected alias lookup to resolve")
	}
	if a, ok := r.GetForFile("main.go"); !ok || a.Lang() != "go" {
		t.Error("expected extension lookup to resolve")
	}
}
