package parserfrontend

import (
	"context"
	"math"
	"testing"
)

func TestParseGoComputesComplexity(t *testing.T) {
	src := []byte(`package main

func classify(n int) string {
	if n < 0 {
		return "neg"
	} else if n == 0 {
		return "zero"
	}
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			continue
		}
	}
	return "pos"
}
`)
	res, err := Parse(context.Background(), GoProvider{}, "file:///x.go", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fns := res.Structure.Categories["functions"]
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}
	if fns[0].Name != "classify" {
		t.Errorf("name = %q", fns[0].Name)
	}
	if got := fns[0].Complexity; got <= 1 {
		t.Errorf("expected complexity above the base of 1, got %d", got)
	}
}

func TestUngrammaredProviderFallsBackToHeuristic(t *testing.T) {
	res, err := Parse(context.Background(), RubyProvider{}, "file:///x.rb", []byte("def foo\nend\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Tree != nil {
		t.Error("expected no tree-sitter tree for ungrammared provider")
	}
	if res.Structure.Confidence == nil || *res.Structure.Confidence != 0.5 {
		t.Errorf("expected capped confidence 0.5, got %v", res.Structure.Confidence)
	}
	if len(res.Structure.Warnings) == 0 {
		t.Error("expected a warning about missing grammar")
	}
}

func TestConfidenceFormula(t *testing.T) {
	if c := Confidence(false, 0); c != 1.0 {
		t.Errorf("clean parse confidence = %v, want 1.0", c)
	}
	if c := Confidence(true, 0); c != 0.7 {
		t.Errorf("errored parse confidence = %v, want 0.7", c)
	}
	if c := Confidence(true, 20); math.Abs(c-0.2) > 1e-9 {
		t.Errorf("heavily errored confidence = %v, want 0.2 (capped at 10 error nodes)", c)
	}
}

func TestShebangResolution(t *testing.T) {
	e := NewEngine([]Provider{PythonProvider{}, GoProvider{}})
	p, ok := e.Resolve("script", "", func() (string, bool) { return "#!/usr/bin/env python3", true })
	if !ok || p.Lang() != "python" {
		t.Fatalf("expected python via shebang, got %v ok=%v", p, ok)
	}
}

func TestExtensionBeatsShebangWhenBothPresent(t *testing.T) {
	e := NewEngine([]Provider{PythonProvider{}, GoProvider{}})
	p, ok := e.Resolve("main.go", "", func() (string, bool) { return "#!/usr/bin/env python3", true })
	if !ok || p.Lang() != "go" {
		t.Fatalf("expected extension to win, got %v ok=%v", p, ok)
	}
}

func TestOverrideBeatsEverything(t *testing.T) {
	e := NewEngine([]Provider{PythonProvider{}, GoProvider{}})
	p, ok := e.Resolve("main.go", "python", nil)
	if !ok || p.Lang() != "python" {
		t.Fatalf("expected override to win, got %v ok=%v", p, ok)
	}
}
