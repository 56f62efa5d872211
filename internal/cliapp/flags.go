package cliapp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/termfx/reveal/internal/contract"
)

func cmdContext() context.Context { return context.Background() }

// asASTTarget rewrites a bare path or non-ast URI into the ast:// scheme
// for --show-ast, preserving any query/fragment suffix the user supplied.
func asASTTarget(target string) string {
	if strings.Contains(target, "://") {
		if strings.HasPrefix(target, "ast://") {
			return target
		}
		if idx := strings.Index(target, "://"); idx > 0 {
			return "ast://" + target[idx+3:]
		}
	}
	return "ast://" + target
}

// resolveTargets gathers the list of resource arguments to dispatch
// against: either the single positional resource argument, or one
// target per stdin line when --stdin is set. --batch reuses the same
// element argument and flags across every stdin-supplied target;
// without --batch, --stdin expects exactly one line.
func resolveTargets(cmdArgs []string, fs flagSet) (targets []string, element string, err error) {
	if fs.stdin {
		lines, err := readLines(os.Stdin)
		if err != nil {
			return nil, "", err
		}
		if len(lines) == 0 {
			return nil, "", fmt.Errorf("--stdin given but no target lines were read")
		}
		if !fs.batch && len(lines) > 1 {
			return nil, "", fmt.Errorf("--stdin without --batch expects exactly one line, got %d", len(lines))
		}
		if len(cmdArgs) > 0 {
			element = cmdArgs[0]
		}
		return lines, element, nil
	}

	if len(cmdArgs) == 0 {
		return nil, "", fmt.Errorf("expected a URI or path argument")
	}
	target := cmdArgs[0]
	if len(cmdArgs) > 1 {
		element = cmdArgs[1]
	}
	return []string{target}, element, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// buildQueryOverrides translates the universal flag set into the query
// override map the Dispatcher merges into a URI's own query string,
// per field names the adapters themselves already declare as queryable
// (§4.3's per-adapter Schema).
func buildQueryOverrides(fs flagSet) map[string]string {
	overrides := make(map[string]string)

	if fs.selectFields != "" {
		overrides["select"] = fs.selectFields
	}
	if fs.depth > 0 {
		overrides["depth"] = strconv.Itoa(fs.depth)
	}
	if fs.head > 0 {
		overrides["limit"] = strconv.Itoa(fs.head)
	}
	if fs.tail > 0 {
		overrides["limit"] = strconv.Itoa(fs.tail)
		overrides["sort"] = "-line_start"
	}
	if fs.rangeSpec != "" {
		if lo, hi, ok := parseRangeSpec(fs.rangeSpec); ok {
			overrides["line_start"] = fmt.Sprintf("%d..%d", lo, hi)
		}
	}
	if len(fs.exclude) > 0 {
		overrides["exclude"] = strings.Join(fs.exclude, ",")
	}
	if fs.noGitignore {
		overrides["no-gitignore"] = "true"
	}

	return overrides
}

func parseRangeSpec(s string) (lo, hi int, ok bool) {
	idx := strings.IndexByte(s, '-')
	if idx <= 0 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(s[:idx])
	hi, err2 := strconv.Atoi(s[idx+1:])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// writeExtraction implements --extract KIND: a flattened, one-per-line
// projection of a single named attribute (or the element name, when the
// attribute is absent) across every Element in s, for piping into other
// line-oriented tools.
func writeExtraction(w io.Writer, s *contract.Structure, kind string) {
	var walk func(el *contract.Element)
	walk = func(el *contract.Element) {
		if v, ok := el.Attributes[kind]; ok {
			fmt.Fprintf(w, "%v\n", v)
		} else if el.Category == kind || kind == "name" {
			fmt.Fprintln(w, el.Name)
		}
		for _, child := range el.Children {
			walk(child)
		}
	}
	for _, cat := range s.CategoryOrder {
		for _, el := range s.Categories[cat] {
			walk(el)
		}
	}
}

// emitBreadcrumb writes the "try a narrower query next" hint described
// in §2/§6.2 to stderr when a Structure was truncated or holds more than
// one category, suggesting the adapter's own dominant-category ordinal
// addressing as the next step.
func emitBreadcrumb(w io.Writer, s *contract.Structure, target string) {
	if !s.Truncated && len(s.CategoryOrder) <= 1 {
		return
	}
	cat := ""
	if len(s.CategoryOrder) > 0 {
		cat = s.CategoryOrder[0]
	}
	if cat == "" {
		return
	}
	fmt.Fprintf(w, "# try: reveal %s %s@1\n", target, cat)
}

// handleIntrospection services the early-exit introspection flags
// (§6.1), which never reach the Dispatcher since they describe the
// tool itself rather than a resource.
func (a *App) handleIntrospection(fs flagSet) (code int, handled bool, err error) {
	out := a.out()
	switch {
	case fs.version:
		fmt.Fprintln(out, Version)
		return 0, true, nil
	case fs.adaptersFlag:
		schemes := a.Adapters.Schemes()
		sort.Strings(schemes)
		for _, s := range schemes {
			fmt.Fprintln(out, s)
		}
		return 0, true, nil
	case fs.languagesFlag:
		langs := a.Analyzers.Languages()
		sort.Strings(langs)
		for _, l := range langs {
			fmt.Fprintln(out, l)
		}
		return 0, true, nil
	case fs.rulesFlag:
		for _, r := range a.Rules.All() {
			fmt.Fprintf(out, "%s\t%s\n", r.Code(), r.Summary())
		}
		return 0, true, nil
	case fs.listSupported:
		schemes := a.Adapters.Schemes()
		sort.Strings(schemes)
		fmt.Fprintln(out, "adapters:")
		for _, s := range schemes {
			fmt.Fprintf(out, "  %s\n", s)
		}
		langs := a.Analyzers.Languages()
		sort.Strings(langs)
		fmt.Fprintln(out, "languages:")
		for _, l := range langs {
			fmt.Fprintf(out, "  %s\n", l)
		}
		return 0, true, nil
	case fs.capabilities:
		for _, scheme := range sortedSchemes(a.Adapters) {
			ad, _ := a.Adapters.Get(scheme)
			hr := ad.Help()
			fmt.Fprintf(out, "%s: %s\n", scheme, hr.Summary)
		}
		for _, r := range a.Rules.All() {
			fmt.Fprintf(out, "%s: %s\n", r.Code(), r.Summary())
		}
		return 0, true, nil
	case fs.explainFile != "":
		an, ok := a.Analyzers.GetForFile(fs.explainFile)
		if !ok {
			fmt.Fprintf(out, "no analyzer registered for %s\n", fs.explainFile)
			return 0, true, nil
		}
		fmt.Fprintf(out, "%s resolves to language %s\n", fs.explainFile, an.Lang())
		return 0, true, nil
	}
	return 0, false, nil
}

func sortedSchemes(reg interface{ Schemes() []string }) []string {
	schemes := reg.Schemes()
	sort.Strings(schemes)
	return schemes
}
