package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/termfx/reveal/internal/contract"
)

// renderTree writes a human-facing indented tree: one line per category
// header, then one line per Element (recursing into Children), with the
// projected fields rendered inline after the name.
func renderTree(w io.Writer, s *contract.Structure, opts Options) error {
	bold := plainOrColor(opts.Color, color.New(color.Bold).SprintFunc())
	cyan := plainOrColor(opts.Color, color.New(color.FgCyan).SprintFunc())
	yellow := plainOrColor(opts.Color, color.New(color.FgYellow).SprintFunc())
	red := plainOrColor(opts.Color, color.New(color.FgRed).SprintFunc())
	dim := plainOrColor(opts.Color, color.New(color.Faint).SprintFunc())

	fmt.Fprintf(w, "%s %s\n", bold(s.Type), dim(s.Source))
	if s.ParseMode != "" {
		fmt.Fprintf(w, "%s\n", dim(string(s.ParseMode)))
	}

	fields := fieldsFor(opts)
	for _, cat := range s.CategoryOrder {
		elems := s.Categories[cat]
		if len(elems) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", cyan(cat), len(elems))
		for _, el := range elems {
			writeTreeElement(w, el, fields, 1, bold, dim)
		}
	}

	for _, n := range s.Warnings {
		fmt.Fprintf(w, "%s %s: %s\n", yellow("warning"), n.Code, n.Message)
	}
	for _, n := range s.Errors {
		fmt.Fprintf(w, "%s %s: %s\n", red("error"), n.Code, n.Message)
	}
	if s.Truncated {
		fmt.Fprintf(w, "%s\n", dim(truncationNote(s)))
	}
	return nil
}

func truncationNote(s *contract.Structure) string {
	if s.Returned != nil && s.TotalAvailable != nil {
		return fmt.Sprintf("truncated: showing %d of %d", *s.Returned, *s.TotalAvailable)
	}
	return "truncated"
}

func writeTreeElement(w io.Writer, el *contract.Element, fields []string, depth int, bold, dim func(...any) string) {
	indent := strings.Repeat("  ", depth)
	label := el.Name
	if label == "" {
		label = "<unnamed>"
	}
	extras := elementExtras(el, fields)
	if extras != "" {
		fmt.Fprintf(w, "%s%s %s\n", indent, bold(label), dim(extras))
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, bold(label))
	}
	for _, child := range el.Children {
		writeTreeElement(w, child, fields, depth+1, bold, dim)
	}
}

// elementExtras renders the non-name projected fields as "key=value"
// pairs, in the order requested, skipping "name" (already the label).
func elementExtras(el *contract.Element, fields []string) string {
	var parts []string
	for _, f := range fields {
		if f == "name" {
			continue
		}
		v, ok := fieldValue(el, f)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", f, v))
	}
	return strings.Join(parts, " ")
}

// plainOrColor returns fn when color is enabled, or a no-op passthrough
// formatter otherwise, so callers never need to branch at each call site.
func plainOrColor(enabled bool, fn func(a ...any) string) func(a ...any) string {
	if enabled {
		return fn
	}
	return func(a ...any) string {
		return fmt.Sprint(a...)
	}
}
