package cliapp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/registry"
	"github.com/termfx/reveal/internal/rules"
)

func newApp(t *testing.T) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &App{
		Adapters:  registry.NewAdapterRegistry(),
		Rules:     registry.NewRuleRegistry(),
		Analyzers: registry.NewAnalyzerRegistry(),
		Stdout:    &stdout,
		Stderr:    &stderr,
	}, &stdout, &stderr
}

func TestVersionFlagShortCircuits(t *testing.T) {
	app, stdout, _ := newApp(t)
	code := app.Execute([]string{"--version"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if strings.TrimSpace(stdout.String()) != Version {
		t.Fatalf("expected version output, got %q", stdout.String())
	}
}

func TestMissingResourceArgumentIsInvocationError(t *testing.T) {
	app, _, _ := newApp(t)
	code := app.Execute([]string{})
	if code != 2 {
		t.Fatalf("expected exit 2 for missing argument, got %d", code)
	}
}

func TestUnknownSchemeExitsTwo(t *testing.T) {
	app, _, _ := newApp(t)
	code := app.Execute([]string{"nosuch://thing"})
	if code != 2 {
		t.Fatalf("expected exit 2 for unknown scheme, got %d", code)
	}
}

func TestBuildQueryOverridesMapsHeadToLimit(t *testing.T) {
	overrides := buildQueryOverrides(flagSet{head: 3})
	if overrides["limit"] != "3" {
		t.Fatalf("expected limit=3, got %+v", overrides)
	}
}

func TestBuildQueryOverridesMapsRangeToLineStart(t *testing.T) {
	overrides := buildQueryOverrides(flagSet{rangeSpec: "10-20"})
	if overrides["line_start"] != "10..20" {
		t.Fatalf("expected line_start=10..20, got %+v", overrides)
	}
}

func TestWriteExtractionFallsBackToName(t *testing.T) {
	s := contract.NewStructure("file", "x", contract.SourceFile)
	s.AddCategory("domains", &contract.Element{Name: "example.com", Category: "domains"})
	var buf bytes.Buffer
	writeExtraction(&buf, s, "domains")
	if strings.TrimSpace(buf.String()) != "example.com" {
		t.Fatalf("expected example.com, got %q", buf.String())
	}
}

func TestRunSchemaValidationFlagsMissingTitle(t *testing.T) {
	app, _, _ := newApp(t)
	s := contract.NewStructure("markdown", "x.md", contract.SourceFile)
	s.AddCategory("frontmatter", &contract.Element{
		Name: "frontmatter", Category: "frontmatter", LineStart: 1, LineEnd: 1,
		Attributes: map[string]any{"date": "2024-01-01"},
	})
	findings := app.runSchemaValidation(s, "hugo")
	found := false
	for _, f := range findings {
		if f.Code == "F003" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected F003 finding, got %+v", findings)
	}
}

func TestExitCodeHelperStaysZeroWithoutFindings(t *testing.T) {
	if rules.ExitCode(nil) != 0 {
		t.Fatal("expected exit 0 for no findings")
	}
}

func TestResolveTargetsRejectsEmptyStdin(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(tmp, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(tmp)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	old := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = old }()

	_, _, err = resolveTargets(nil, flagSet{stdin: true})
	if err == nil {
		t.Fatal("expected error for empty stdin")
	}
}
