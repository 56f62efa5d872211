package query

import (
	"testing"

	"github.com/termfx/reveal/internal/uri"
)

func fieldsOf(m map[string]float64, strs map[string]string) FieldGetter {
	return func(field string) (string, float64, bool, bool) {
		if n, ok := m[field]; ok {
			return "", n, true, true
		}
		if s, ok := strs[field]; ok {
			return s, 0, false, true
		}
		return "", 0, false, false
	}
}

func TestParseScenarioTwoURI(t *testing.T) {
	u, err := uri.Parse("ast://src?complexity>10&sort=-complexity&limit=5#top")
	if err != nil {
		t.Fatalf("uri.Parse: %v", err)
	}
	p := Parse(u.Query, []string{"complexity", "name"})
	if p.SortBy != "complexity" || !p.SortDesc {
		t.Errorf("sort = %q desc=%v", p.SortBy, p.SortDesc)
	}
	if p.Limit != 5 {
		t.Errorf("limit = %d, want 5", p.Limit)
	}
	if p.Filter == nil {
		t.Fatal("expected a filter from complexity>10")
	}
	if !p.Filter.Eval(fieldsOf(map[string]float64{"complexity": 15}, nil)) {
		t.Error("expected complexity=15 to satisfy complexity>10")
	}
	if p.Filter.Eval(fieldsOf(map[string]float64{"complexity": 5}, nil)) {
		t.Error("expected complexity=5 to fail complexity>10")
	}
}

func TestUnknownFieldWarns(t *testing.T) {
	u, _ := uri.Parse("stats://x?bogus=1")
	p := Parse(u.Query, []string{"complexity"})
	if len(p.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", p.Warnings)
	}
}

func TestRangePredicate(t *testing.T) {
	u, _ := uri.Parse("ast://src?complexity=5..10")
	p := Parse(u.Query, nil)
	get := fieldsOf(map[string]float64{"complexity": 7}, nil)
	if !p.Filter.Eval(get) {
		t.Error("expected 7 within 5..10")
	}
	get2 := fieldsOf(map[string]float64{"complexity": 20}, nil)
	if p.Filter.Eval(get2) {
		t.Error("expected 20 outside 5..10")
	}
}

func TestPresenceAndAbsence(t *testing.T) {
	u, _ := uri.Parse("imports://src?unused=*")
	p := Parse(u.Query, nil)
	if !p.Filter.Eval(fieldsOf(nil, map[string]string{"unused": "yes"})) {
		t.Error("expected presence match")
	}
	if p.Filter.Eval(fieldsOf(nil, nil)) {
		t.Error("expected absence to fail presence check")
	}
}

func TestFuzzyMatchGlobAndSubstring(t *testing.T) {
	e, err := ParseExpr("name~=Foo")
	if err != nil {
		t.Fatal(err)
	}
	if !e.Eval(fieldsOf(nil, map[string]string{"name": "xFoox"})) {
		t.Error("expected substring match")
	}

	e2, err := ParseExpr("name~=Foo*")
	if err != nil {
		t.Fatal(err)
	}
	if !e2.Eval(fieldsOf(nil, map[string]string{"name": "FooBar"})) {
		t.Error("expected glob match")
	}
}

func TestBooleanComposition(t *testing.T) {
	e, err := ParseExpr("(complexity>10&name~=foo)|depth>3")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	get := fieldsOf(map[string]float64{"complexity": 15, "depth": 1}, map[string]string{"name": "foobar"})
	if !e.Eval(get) {
		t.Error("expected first branch to match")
	}
	get2 := fieldsOf(map[string]float64{"complexity": 1, "depth": 5}, map[string]string{"name": "x"})
	if !e2Match(e, get2) {
		t.Error("expected second branch (depth>3) to match")
	}
}

func e2Match(e Expr, get FieldGetter) bool { return e.Eval(get) }

func TestNegation(t *testing.T) {
	e, err := ParseExpr("!name=foo")
	if err != nil {
		t.Fatal(err)
	}
	if e.Eval(fieldsOf(nil, map[string]string{"name": "foo"})) {
		t.Error("expected negation to reject exact match")
	}
	if !e.Eval(fieldsOf(nil, map[string]string{"name": "bar"})) {
		t.Error("expected negation to accept non-match")
	}
}

func TestApplyPaginatesAndStampsTruncation(t *testing.T) {
	items := []Item{1, 2, 3, 4, 5}
	p := &Parsed{Limit: 2, Offset: 1}
	get := func(it Item) FieldGetter {
		return func(field string) (string, float64, bool, bool) { return "", 0, false, false }
	}
	res := Apply(p, items, get)
	if len(res.Items) != 2 {
		t.Fatalf("items = %v", res.Items)
	}
	if !res.Truncated {
		t.Error("expected truncated=true")
	}
	if res.TotalAvailable != 5 {
		t.Errorf("total = %d, want 5", res.TotalAvailable)
	}
	if res.NextOffset != 3 {
		t.Errorf("next offset = %d, want 3", res.NextOffset)
	}
}
