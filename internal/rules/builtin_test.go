package rules

import (
	"testing"

	"github.com/termfx/reveal/internal/contract"
)

func TestComplexityThresholdFlagsHighComplexity(t *testing.T) {
	s := contract.NewStructure("t", "src", contract.SourceFile)
	s.AddCategory("functions", &contract.Element{Name: "Busy", Complexity: 15, LineStart: 10})
	s.AddCategory("functions", &contract.Element{Name: "Calm", Complexity: 2, LineStart: 20})

	findings := NewComplexityThreshold().Check(s)
	if len(findings) != 1 || findings[0].Element != "Busy" {
		t.Fatalf("expected one finding for Busy, got %+v", findings)
	}
}

func TestSelectorWildcard(t *testing.T) {
	sel := NewSelector("C*", "")
	if !sel.Allows("C901") {
		t.Fatal("expected C901 to be selected by C*")
	}
	if sel.Allows("I001") {
		t.Fatal("expected I001 to be excluded when select=C*")
	}
}

func TestSelectorIgnoreWinsOverSelect(t *testing.T) {
	sel := NewSelector("C*", "C901")
	if sel.Allows("C901") {
		t.Fatal("expected --ignore to take precedence over --select")
	}
}

func TestSuppressionDropsMatchingLine(t *testing.T) {
	source := []byte("line one\nfunc Busy() {} // noqa: C901\nline three\n")
	findings := []Finding{
		{Code: "C901", Line: 2},
		{Code: "I001", Line: 2},
		{Code: "C901", Line: 3},
	}
	out := FilterSuppressed(findings, ParseSuppressions(source))
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %+v", out)
	}
}

func TestExitCodeNonzeroOnWarning(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatal("expected exit 0 for no findings")
	}
	if ExitCode([]Finding{{Severity: SeverityInfo}}) != 0 {
		t.Fatal("expected exit 0 for info-only findings")
	}
	if ExitCode([]Finding{{Severity: SeverityWarning}}) != 3 {
		t.Fatal("expected exit 3 when a warning survives")
	}
}
