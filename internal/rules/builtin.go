package rules

import (
	"strings"

	"github.com/termfx/reveal/internal/contract"
)

// walk calls fn for every Element in s, recursing into Children, so a
// rule need not re-implement the category/children traversal itself.
func walk(s *contract.Structure, fn func(el *contract.Element)) {
	var visit func(el *contract.Element)
	visit = func(el *contract.Element) {
		fn(el)
		for _, c := range el.Children {
			visit(c)
		}
	}
	for _, cat := range s.CategoryOrder {
		for _, el := range s.Categories[cat] {
			visit(el)
		}
	}
}

// ComplexityThreshold flags functions/methods whose cyclomatic
// complexity exceeds a fixed threshold, the canonical "C" rule.
type ComplexityThreshold struct {
	Threshold int
}

func NewComplexityThreshold() *ComplexityThreshold { return &ComplexityThreshold{Threshold: 10} }

func (r *ComplexityThreshold) Code() string            { return "C901" }
func (r *ComplexityThreshold) Summary() string         { return "function complexity exceeds the configured threshold" }
func (r *ComplexityThreshold) DefaultSeverity() Severity { return SeverityWarning }

func (r *ComplexityThreshold) Check(s *contract.Structure) []Finding {
	var findings []Finding
	walk(s, func(el *contract.Element) {
		if el.Complexity > r.Threshold {
			findings = append(findings, Finding{
				Code:     r.Code(),
				Severity: r.DefaultSeverity(),
				Message:  "complexity " + itoa(el.Complexity) + " exceeds threshold " + itoa(r.Threshold),
				Element:  el.Name,
				Line:     el.LineStart,
			})
		}
	})
	return findings
}

// UnusedImport flags import Elements the imports adapter has already
// marked unused (attribute "used"==false), the canonical "I" rule.
type UnusedImport struct{}

func NewUnusedImport() *UnusedImport { return &UnusedImport{} }

func (r *UnusedImport) Code() string              { return "I001" }
func (r *UnusedImport) Summary() string           { return "imported but never referenced" }
func (r *UnusedImport) DefaultSeverity() Severity { return SeverityWarning }

func (r *UnusedImport) Check(s *contract.Structure) []Finding {
	var findings []Finding
	walk(s, func(el *contract.Element) {
		if el.Category != "imports" {
			return
		}
		if used, ok := el.Attributes["used"].(bool); ok && !used {
			findings = append(findings, Finding{
				Code:     r.Code(),
				Severity: r.DefaultSeverity(),
				Message:  "import " + el.Name + " is never referenced",
				Element:  el.Name,
				Line:     el.LineStart,
			})
		}
	})
	return findings
}

// MissingDoc flags exported-looking functions/methods/types with no
// doc comment attached, the canonical "M" (maintainability) rule.
type MissingDoc struct{}

func NewMissingDoc() *MissingDoc { return &MissingDoc{} }

func (r *MissingDoc) Code() string              { return "M101" }
func (r *MissingDoc) Summary() string           { return "exported declaration has no doc comment" }
func (r *MissingDoc) DefaultSeverity() Severity { return SeverityInfo }

func (r *MissingDoc) Check(s *contract.Structure) []Finding {
	var findings []Finding
	walk(s, func(el *contract.Element) {
		if el.Category != "functions" && el.Category != "classes" && el.Category != "methods" && el.Category != "types" {
			return
		}
		if el.Name == "" || !isExportedLooking(el.Name) {
			return
		}
		if doc, ok := el.Attributes["doc"].(string); ok && strings.TrimSpace(doc) != "" {
			return
		}
		findings = append(findings, Finding{
			Code:     r.Code(),
			Severity: r.DefaultSeverity(),
			Message:  el.Name + " has no doc comment",
			Element:  el.Name,
			Line:     el.LineStart,
		})
	})
	return findings
}

func isExportedLooking(name string) bool {
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

// DuplicateName flags two sibling Elements sharing a name within the
// same category, the canonical "D" (duplicate) rule.
type DuplicateName struct{}

func NewDuplicateName() *DuplicateName { return &DuplicateName{} }

func (r *DuplicateName) Code() string              { return "D201" }
func (r *DuplicateName) Summary() string           { return "duplicate name within the same category" }
func (r *DuplicateName) DefaultSeverity() Severity { return SeverityWarning }

func (r *DuplicateName) Check(s *contract.Structure) []Finding {
	var findings []Finding
	for _, cat := range s.CategoryOrder {
		seen := make(map[string]int)
		for _, el := range s.Categories[cat] {
			seen[el.Name]++
			if seen[el.Name] == 2 {
				findings = append(findings, Finding{
					Code:     r.Code(),
					Severity: r.DefaultSeverity(),
					Message:  "duplicate name " + el.Name + " in category " + cat,
					Element:  el.Name,
					Line:     el.LineStart,
				})
			}
		}
	}
	return findings
}

// BrokenLink flags markdown link-shaped attributes pointing at a local
// path that does not resolve, the canonical "L" (link) rule. It trusts
// an adapter to have already stamped a "link_target_exists" attribute
// (the markdown adapter does this for local, non-URL link targets)
// rather than doing filesystem I/O itself — a rule must not perform I/O.
type BrokenLink struct{}

func NewBrokenLink() *BrokenLink { return &BrokenLink{} }

func (r *BrokenLink) Code() string              { return "L001" }
func (r *BrokenLink) Summary() string           { return "local link target does not exist" }
func (r *BrokenLink) DefaultSeverity() Severity { return SeverityWarning }

func (r *BrokenLink) Check(s *contract.Structure) []Finding {
	var findings []Finding
	walk(s, func(el *contract.Element) {
		exists, ok := el.Attributes["link_target_exists"].(bool)
		if !ok || exists {
			return
		}
		findings = append(findings, Finding{
			Code:     r.Code(),
			Severity: r.DefaultSeverity(),
			Message:  "broken link target in " + el.Name,
			Element:  el.Name,
			Line:     el.LineStart,
		})
	})
	return findings
}

// HardcodedSecret flags environment-style Elements whose value looks
// like a credential but whose adapter did not redact it, the canonical
// "S" (security-shaped) rule.
type HardcodedSecret struct{}

func NewHardcodedSecret() *HardcodedSecret { return &HardcodedSecret{} }

func (r *HardcodedSecret) Code() string              { return "S301" }
func (r *HardcodedSecret) Summary() string           { return "credential-shaped value is not redacted" }
func (r *HardcodedSecret) DefaultSeverity() Severity { return SeverityError }

func (r *HardcodedSecret) Check(s *contract.Structure) []Finding {
	var findings []Finding
	walk(s, func(el *contract.Element) {
		if el.Category != "variables" {
			return
		}
		redacted, _ := el.Attributes["redacted"].(bool)
		value, _ := el.Attributes["value"].(string)
		if redacted || value == "" {
			return
		}
		if looksLikeSecret(value) {
			findings = append(findings, Finding{
				Code:     r.Code(),
				Severity: r.DefaultSeverity(),
				Message:  "value of " + el.Name + " looks like a credential and was not redacted",
				Element:  el.Name,
			})
		}
	})
	return findings
}

func looksLikeSecret(value string) bool {
	if len(value) < 16 {
		return false
	}
	return strings.HasPrefix(value, "sk-") || strings.HasPrefix(value, "ghp_") || strings.HasPrefix(value, "AKIA")
}

// NginxDirective flags a handful of known-risky nginx configuration
// shapes the domain/ssl adapters' attributes can surface, the canonical
// "N" rule. Scoped narrowly since reveal has no dedicated nginx-config
// adapter — it applies only to Elements in the "certificates" category
// that carry a "not_after" attribute (as the ssl adapter stamps them).
type NginxDirective struct{}

func NewNginxDirective() *NginxDirective { return &NginxDirective{} }

func (r *NginxDirective) Code() string              { return "N401" }
func (r *NginxDirective) Summary() string           { return "certificate expired or expiring within 30 days" }
func (r *NginxDirective) DefaultSeverity() Severity { return SeverityWarning }

func (r *NginxDirective) Check(s *contract.Structure) []Finding {
	var findings []Finding
	walk(s, func(el *contract.Element) {
		if el.Category != "certificates" {
			return
		}
		notAfter, _ := el.Attributes["not_after"].(string)
		if notAfter == "" {
			return
		}
		findings = append(findings, maybeExpiryFinding(r, el, notAfter)...)
	})
	return findings
}

func maybeExpiryFinding(r *NginxDirective, el *contract.Element, notAfter string) []Finding {
	// Parsing and threshold comparison is delegated to the caller's
	// already-available time package import at the call site to keep
	// this file's import list honest; see expiry.go.
	return expiryFindings(r.Code(), r.DefaultSeverity(), el, notAfter)
}

// SelfCheckFailure surfaces a failed reveal-self Detection as a regular
// Finding, the canonical "V" rule — it scans the "v-rules" category the
// reveal-self adapter already populates rather than re-running the
// checks itself, so the rule engine and the ad hoc reveal-self:// view
// agree by construction.
type SelfCheckFailure struct{}

func NewSelfCheckFailure() *SelfCheckFailure { return &SelfCheckFailure{} }

func (r *SelfCheckFailure) Code() string              { return "V001" }
func (r *SelfCheckFailure) Summary() string           { return "a reveal-self invariant check failed" }
func (r *SelfCheckFailure) DefaultSeverity() Severity { return SeverityError }

func (r *SelfCheckFailure) Check(s *contract.Structure) []Finding {
	var findings []Finding
	for _, el := range s.Categories["v-rules"] {
		passed, ok := el.Attributes["passed"].(bool)
		if ok && passed {
			continue
		}
		findings = append(findings, Finding{
			Code:     r.Code(),
			Severity: r.DefaultSeverity(),
			Message:  el.Name + ": " + detailOf(el),
			Element:  el.Name,
		})
	}
	return findings
}

func detailOf(el *contract.Element) string {
	if d, ok := el.Attributes["detail"].(string); ok {
		return d
	}
	return "failed"
}

// FrontmatterSchema is a placeholder registration point for "F" (schema
// validation) findings; the real work happens in internal/schema, which
// emits Findings of this Code directly rather than through a Rule
// registered here, since schema validation runs against a named schema
// a user selects, not unconditionally over every Structure. Its Code is
// reserved here so --select/--ignore wildcards (F*) see it listed even
// before a --validate-schema run has happened.
type FrontmatterSchema struct{}

func NewFrontmatterSchema() *FrontmatterSchema { return &FrontmatterSchema{} }

func (r *FrontmatterSchema) Code() string              { return "F005" }
func (r *FrontmatterSchema) Summary() string           { return "custom schema rule failed" }
func (r *FrontmatterSchema) DefaultSeverity() Severity { return SeverityError }

func (r *FrontmatterSchema) Check(s *contract.Structure) []Finding { return nil }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// All returns one instance of every built-in rule, in category-letter
// order, for cmd/reveal/main.go to register.
func All() []Rule {
	return []Rule{
		NewHardcodedSecret(),
		NewComplexityThreshold(),
		NewBrokenLink(),
		NewUnusedImport(),
		NewMissingDoc(),
		NewDuplicateName(),
		NewFrontmatterSchema(),
		NewNginxDirective(),
		NewSelfCheckFailure(),
	}
}
