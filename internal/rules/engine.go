package rules

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/termfx/reveal/internal/contract"
)

// Selector implements --select/--ignore code matching with prefix
// wildcards (e.g. "C*" selects every complexity rule).
type Selector struct {
	selects []string
	ignores []string
}

// NewSelector builds a Selector from the raw comma-separated
// --select/--ignore flag values. Empty select means "everything not
// ignored".
func NewSelector(selectCSV, ignoreCSV string) Selector {
	return Selector{selects: splitCSV(selectCSV), ignores: splitCSV(ignoreCSV)}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func codeMatches(pattern, code string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(code, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == code
}

// Allows reports whether code survives the selector.
func (s Selector) Allows(code string) bool {
	for _, pat := range s.ignores {
		if codeMatches(pat, code) {
			return false
		}
	}
	if len(s.selects) == 0 {
		return true
	}
	for _, pat := range s.selects {
		if codeMatches(pat, code) {
			return true
		}
	}
	return false
}

// FilterRules returns the subset of rules the selector allows, for
// callers that want to skip running a Check at all rather than running
// it and discarding its Findings.
func FilterRules(all []Rule, sel Selector) []Rule {
	out := make([]Rule, 0, len(all))
	for _, r := range all {
		if sel.Allows(r.Code()) {
			out = append(out, r)
		}
	}
	return out
}

var noqaRE = regexp.MustCompile(`(?i)noqa(?::\s*([A-Z0-9,\s]+))?`)

// suppression is one line's "noqa"/"noqa: CODE[,CODE...]" comment as read
// by ParseSuppressions — an unqualified "noqa" suppresses every code on
// that line, recorded here as a wildcard entry matched by isSuppressed
// regardless of code.
type suppression struct {
	codes []string // nil means "all codes on this line"
}

// ParseSuppressions scans every line of source for a trailing noqa
// comment, building the line->suppression map shared by every rule's
// run — suppression is not a per-rule concern, so it lives once here
// rather than duplicated inside each Rule.Check.
func ParseSuppressions(source []byte) map[int]suppression {
	out := make(map[int]suppression)
	scanner := bufio.NewScanner(strings.NewReader(string(source)))
	line := 0
	for scanner.Scan() {
		line++
		m := noqaRE.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if m[1] == "" {
			out[line] = suppression{codes: nil}
			continue
		}
		var codes []string
		for _, c := range strings.Split(m[1], ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				codes = append(codes, c)
			}
		}
		out[line] = suppression{codes: codes}
	}
	return out
}

func (s suppression) suppresses(code string) bool {
	if s.codes == nil {
		return true
	}
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

// FilterSuppressed drops Findings whose line carries a matching noqa
// comment.
func FilterSuppressed(findings []Finding, suppressions map[int]suppression) []Finding {
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if sup, ok := suppressions[f.Line]; ok && sup.suppresses(f.Code) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Run executes every rule in rules against s, applying suppressions
// parsed from source (nil source skips suppression — most adapters have
// no single backing text to scan, e.g. directories and databases).
func Run(all []Rule, sel Selector, s *contract.Structure, source []byte) []Finding {
	var findings []Finding
	for _, r := range FilterRules(all, sel) {
		findings = append(findings, r.Check(s)...)
	}
	if source != nil {
		findings = FilterSuppressed(findings, ParseSuppressions(source))
	}
	return findings
}

// ExitCode implements §4.12's exit-code rule: nonzero iff any
// un-suppressed Finding of severity >= warning survived.
func ExitCode(findings []Finding) int {
	for _, f := range findings {
		if f.Severity == SeverityWarning || f.Severity == SeverityError {
			return 3
		}
	}
	return 0
}
