// Package render implements the Renderer (§4.15): turning a
// contract.Structure into one of the four output formats a caller can
// request (tree, json, grep, csv), honoring a --select field projection
// identically across all four.
package render

import (
	"fmt"
	"io"

	"github.com/termfx/reveal/internal/contract"
)

// Format names one of the four supported output shapes.
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatGrep Format = "grep"
	FormatCSV  Format = "csv"
)

// ParseFormat resolves a --format flag value, defaulting to tree for an
// empty string and erroring on anything unrecognized.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTree, "text":
		return FormatTree, nil
	case FormatJSON, FormatGrep, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want tree, json, grep, or csv)", s)
	}
}

// Options controls rendering independent of which Format was chosen.
type Options struct {
	// Select lists the Element fields to project. Empty means "every
	// standard field", matching the default (unfiltered) Output Contract.
	Select []string
	// Color enables ANSI styling in the tree format. Callers decide this
	// from an isatty check on stdout plus any --no-color override.
	Color bool
}

// Render writes s to w in the requested format.
func Render(w io.Writer, s *contract.Structure, format Format, opts Options) error {
	switch format {
	case FormatTree, "":
		return renderTree(w, s, opts)
	case FormatJSON:
		return renderJSON(w, s, opts)
	case FormatGrep:
		return renderGrep(w, s, opts)
	case FormatCSV:
		return renderCSV(w, s, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// defaultFields is the Element projection used when opts.Select is empty.
var defaultFields = []string{"name", "category", "line_start", "line_end", "signature", "complexity"}

func fieldsFor(opts Options) []string {
	if len(opts.Select) > 0 {
		return opts.Select
	}
	return defaultFields
}

// fieldValue reads one named field off an Element, mirroring
// adapter.ElementGetter's field set but returning a native Go value
// (not a query.FieldGetter's string/float64 pair) for render projection.
func fieldValue(el *contract.Element, field string) (any, bool) {
	switch field {
	case "name":
		return el.Name, true
	case "category":
		return el.Category, true
	case "signature":
		return el.Signature, el.Signature != ""
	case "complexity":
		return el.Complexity, el.Complexity != 0
	case "depth":
		return el.Depth, true
	case "line_count":
		return el.LineCount, el.LineCount != 0
	case "line_start":
		return el.LineStart, true
	case "line_end":
		return el.LineEnd, true
	case "decorators":
		return el.Decorators, len(el.Decorators) > 0
	case "ordinal":
		return el.Ordinal, el.Ordinal != 0
	}
	if el.Attributes != nil {
		if v, ok := el.Attributes[field]; ok {
			return v, true
		}
	}
	return nil, false
}

// projectElement builds a stable-ordered map of field -> value for el,
// restricted to fields. Used by the json and csv renderers.
func projectElement(el *contract.Element, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := fieldValue(el, f); ok {
			out[f] = v
		}
	}
	return out
}
