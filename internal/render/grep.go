package render

import (
	"fmt"
	"io"

	"github.com/termfx/reveal/internal/contract"
)

// renderGrep writes one line per Element in a ripgrep-like
// source:line:category:name[:field=value ...] shape, flattening
// Children so every nested element still gets its own matchable line.
func renderGrep(w io.Writer, s *contract.Structure, opts Options) error {
	fields := fieldsFor(opts)
	for _, cat := range s.CategoryOrder {
		for _, el := range s.Categories[cat] {
			writeGrepElement(w, s.Source, el, fields)
		}
	}
	return nil
}

func writeGrepElement(w io.Writer, source string, el *contract.Element, fields []string) {
	fmt.Fprintf(w, "%s:%d:%s:%s", source, el.LineStart, el.Category, el.Name)
	for _, f := range fields {
		if f == "name" || f == "category" || f == "line_start" {
			continue
		}
		if v, ok := fieldValue(el, f); ok {
			fmt.Fprintf(w, ":%s=%v", f, v)
		}
	}
	fmt.Fprintln(w)
	for _, child := range el.Children {
		writeGrepElement(w, source, child, fields)
	}
}
