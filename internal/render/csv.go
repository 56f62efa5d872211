package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/termfx/reveal/internal/contract"
)

// renderCSV writes every Element (Children flattened to sibling rows,
// since CSV has no nesting) as one row, with fields as the header.
func renderCSV(w io.Writer, s *contract.Structure, opts Options) error {
	fields := fieldsFor(opts)
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(append([]string{"category"}, fields...)); err != nil {
		return err
	}

	for _, cat := range s.CategoryOrder {
		for _, el := range s.Categories[cat] {
			if err := writeCSVElement(cw, cat, el, fields); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}

func writeCSVElement(cw *csv.Writer, category string, el *contract.Element, fields []string) error {
	row := make([]string, 0, len(fields)+1)
	row = append(row, category)
	for _, f := range fields {
		v, ok := fieldValue(el, f)
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, fmt.Sprintf("%v", v))
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	for _, child := range el.Children {
		if err := writeCSVElement(cw, category, child, fields); err != nil {
			return err
		}
	}
	return nil
}
