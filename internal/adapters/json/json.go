// Package json implements the json scheme adapter: structural
// introspection of a JSON or JSON Lines document. JSONL has no separate
// scheme — a `.jsonl` file is recognized by extension and each line
// becomes one top-level "records" Element, reusing the same value-to-
// Element conversion a single JSON document's top-level object or array
// uses for its own fields/items.
package json

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// maxElements bounds how many Elements a single document expands to,
// protecting against pathologically large or deeply nested input; the
// walk stops (with a warning) rather than building an unbounded tree.
const maxElements = 5000

// Adapter implements adapter.Adapter for the "json" scheme.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Scheme() string     { return "json" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	s := contract.NewStructure("json_document", u.Raw, contract.SourceFile)

	if strings.EqualFold(filepath.Ext(u.Resource), ".jsonl") {
		if err := renderJSONL(s, u); err != nil {
			return nil, err
		}
	} else if err := renderJSON(s, u); err != nil {
		return nil, err
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func renderJSON(s *contract.Structure, u *uri.URI) error {
	source, err := os.ReadFile(u.Resource)
	if err != nil {
		return contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot read "+u.Resource, err)
	}
	var doc any
	if err := json.Unmarshal(source, &doc); err != nil {
		s.ParseMode = contract.ParseModeFallback
		s.AddWarning("ParseDegraded", "invalid JSON: "+err.Error())
		return nil
	}
	s.ParseMode = contract.ParseModeFull

	budget := maxElements
	switch v := doc.(type) {
	case map[string]any:
		for i, key := range sortedKeys(v) {
			el, used := valueToElement(key, v[key], i+1, &budget)
			s.AddCategory("fields", el)
			if !used {
				s.AddWarning("Truncated", "document exceeds element budget; some fields omitted")
				break
			}
		}
	case []any:
		for i, item := range v {
			if budget <= 0 {
				s.AddWarning("Truncated", "document exceeds element budget; remaining items omitted")
				break
			}
			el, _ := valueToElement(fmt.Sprintf("item_%d", i+1), item, i+1, &budget)
			s.AddCategory("items", el)
		}
	default:
		el, _ := valueToElement("value", doc, 1, &budget)
		s.AddCategory("value", el)
	}
	return nil
}

func renderJSONL(s *contract.Structure, u *uri.URI) error {
	f, err := os.Open(u.Resource)
	if err != nil {
		return contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot read "+u.Resource, err)
	}
	defer f.Close()

	s.ParseMode = contract.ParseModeFull
	budget := maxElements
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			s.AddWarning("ParseDegraded", fmt.Sprintf("line %d: invalid JSON: %s", lineNo, err))
			continue
		}
		if budget <= 0 {
			s.AddWarning("Truncated", "document exceeds element budget; remaining records omitted")
			break
		}
		el, _ := valueToElement(fmt.Sprintf("record_%d", lineNo), v, lineNo, &budget)
		el.LineStart, el.LineEnd = lineNo, lineNo
		s.AddCategory("records", el)
	}
	if err := scanner.Err(); err != nil {
		s.AddWarning("ParseDegraded", "scan error: "+err.Error())
	}
	return nil
}

// valueToElement converts a decoded JSON value into an Element, nesting
// objects/arrays into Children up to the shared element budget. The
// bool return reports whether budget remained to fully expand v.
func valueToElement(name string, v any, ordinal int, budget *int) (*contract.Element, bool) {
	*budget--
	el := &contract.Element{Name: name, Ordinal: ordinal}
	switch val := v.(type) {
	case map[string]any:
		el.Attributes = map[string]any{"type": "object", "field_count": float64(len(val))}
		for i, key := range sortedKeys(val) {
			if *budget <= 0 {
				return el, false
			}
			child, ok := valueToElement(key, val[key], i+1, budget)
			child.Category = "fields"
			el.Children = append(el.Children, child)
			if !ok {
				return el, false
			}
		}
	case []any:
		el.Attributes = map[string]any{"type": "array", "length": float64(len(val))}
		for i, item := range val {
			if *budget <= 0 {
				return el, false
			}
			child, ok := valueToElement(fmt.Sprintf("%s[%d]", name, i), item, i+1, budget)
			child.Category = "items"
			el.Children = append(el.Children, child)
			if !ok {
				return el, false
			}
		}
	case string:
		el.Attributes = map[string]any{"type": "string", "value": val}
	case float64:
		el.Attributes = map[string]any{"type": "number", "value": val}
	case bool:
		el.Attributes = map[string]any{"type": "bool", "value": val}
	case nil:
		el.Attributes = map[string]any{"type": "null"}
	}
	return el, *budget > 0
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(s, u.Raw, ref)
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:      "json",
		Summary:     "Structural introspection of a JSON document or JSON Lines file (.jsonl)",
		Categories:  []string{"fields", "items", "records", "value"},
		Examples:    []string{"json://config.json", "json://events.jsonl", "json://config.json/database.host"},
		QueryFields: nil,
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "type", Type: "string"},
	}}
}
