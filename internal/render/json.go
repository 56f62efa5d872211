package render

import (
	"encoding/json"
	"io"

	"github.com/termfx/reveal/internal/contract"
)

// jsonStructure mirrors contract.Structure's wire shape but substitutes
// a category-ordered slice for the map+order pair (JSON object key order
// is not guaranteed) and projects each Element through opts.Select.
type jsonStructure struct {
	ContractVersion string             `json:"contract_version"`
	Type            string             `json:"type"`
	Source          string             `json:"source"`
	SourceType      contract.SourceType `json:"source_type"`
	ParseMode       contract.ParseMode  `json:"parse_mode,omitempty"`
	Confidence      *float64           `json:"confidence,omitempty"`
	Warnings        []contract.Note    `json:"warnings,omitempty"`
	Errors          []contract.Note    `json:"errors,omitempty"`
	Truncated       bool               `json:"truncated,omitempty"`
	TotalAvailable  *int               `json:"total_available,omitempty"`
	Returned        *int               `json:"returned,omitempty"`
	Categories      []jsonCategory     `json:"categories"`
}

type jsonCategory struct {
	Name     string           `json:"name"`
	Elements []map[string]any `json:"elements"`
}

func renderJSON(w io.Writer, s *contract.Structure, opts Options) error {
	fields := fieldsFor(opts)
	out := jsonStructure{
		ContractVersion: s.ContractVersion,
		Type:            s.Type,
		Source:          s.Source,
		SourceType:      s.SourceType,
		ParseMode:       s.ParseMode,
		Confidence:      s.Confidence,
		Warnings:        s.Warnings,
		Errors:          s.Errors,
		Truncated:       s.Truncated,
		TotalAvailable:  s.TotalAvailable,
		Returned:        s.Returned,
	}
	for _, cat := range s.CategoryOrder {
		elems := s.Categories[cat]
		jc := jsonCategory{Name: cat, Elements: make([]map[string]any, 0, len(elems))}
		for _, el := range elems {
			jc.Elements = append(jc.Elements, projectElementRecursive(el, fields))
		}
		out.Categories = append(out.Categories, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// projectElementRecursive projects el's fields and, when present,
// recurses into Children so nested structure survives --select.
func projectElementRecursive(el *contract.Element, fields []string) map[string]any {
	m := projectElement(el, fields)
	if len(el.Children) > 0 {
		children := make([]map[string]any, 0, len(el.Children))
		for _, c := range el.Children {
			children = append(children, projectElementRecursive(c, fields))
		}
		m["children"] = children
	}
	return m
}
