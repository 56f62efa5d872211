// Package rules implements the pluggable Rule Engine (§4.12): a registry
// of quality-rule plugins, each producing Findings against a
// contract.Structure, with severity, suppression, and selection.
package rules

import (
	"github.com/termfx/reveal/internal/contract"
)

// Severity classifies a Finding's urgency.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category is the single-letter code prefix a rule's Code begins with,
// per §4.12's taxonomy: B(ug-pattern) S(ecurity-shaped) C(omplexity)
// L(ink) I(mports) M(aintainability) D(uplicate) F(rontmatter/schema)
// N(ginx) V(self-validation of this tool's own invariants).
type Category byte

const (
	CategoryBugPattern      Category = 'B'
	CategorySecurity        Category = 'S'
	CategoryComplexity      Category = 'C'
	CategoryLink            Category = 'L'
	CategoryImports         Category = 'I'
	CategoryMaintainability Category = 'M'
	CategoryDuplicate       Category = 'D'
	CategoryFrontmatter     Category = 'F'
	CategoryNginx           Category = 'N'
	CategoryValidation      Category = 'V'
)

// Finding is one rule violation located within a Structure.
type Finding struct {
	Code     string   // e.g. "C901"
	Severity Severity
	Message  string
	Element  string // dotted element name, empty for structure-level findings
	Line     int
}

// Rule is the interface every quality-rule plugin implements.
type Rule interface {
	// Code is the stable rule identifier, e.g. "C901". Its first byte is
	// the rule's Category.
	Code() string

	// Summary is a one-line human description, shown by --select/--ignore
	// tab completion data and the help adapter.
	Summary() string

	// DefaultSeverity is used when no per-rule override is configured.
	DefaultSeverity() Severity

	// Check inspects s and returns zero or more Findings. Rules must not
	// mutate s.
	Check(s *contract.Structure) []Finding
}

// Category extracts the rule's category from its Code's first byte.
func CodeCategory(code string) Category {
	if code == "" {
		return 0
	}
	return Category(code[0])
}
