// Package markdown implements the markdown scheme adapter: headings
// (nested by level), tables, and YAML front matter, walked with
// goldmark the same way the pdf rendering service in this corpus walks
// a document — goldmark.New with the Table extension, ast.Walk over a
// switch on n.Kind() — but emitting Elements instead of PDF draw calls.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	meta "github.com/yuin/goldmark-meta"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "markdown" scheme.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Scheme() string     { return "markdown" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, meta.Meta),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	source, err := os.ReadFile(u.Resource)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot read "+u.Resource, err)
	}

	pctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	s := contract.NewStructure("markdown_document", u.Raw, contract.SourceFile)

	roots, tables := walk(doc, source)

	for i, h := range roots {
		h.Ordinal = i + 1
		s.AddCategory("headings", h)
	}
	for i, t := range tables {
		t.Ordinal = i + 1
		s.AddCategory("tables", t)
	}

	if fm := meta.Get(pctx); len(fm) > 0 {
		attrs := make(map[string]any, len(fm))
		for k, v := range fm {
			attrs[k] = v
		}
		s.AddCategory("frontmatter", &contract.Element{
			Name: "frontmatter", Category: "frontmatter",
			LineStart: 1, LineEnd: 1,
			Attributes: attrs,
		})
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

// walk collects every heading (nested into a tree by level, §4.1's
// "headings contain sub-headings") and every table in document order.
func walk(doc ast.Node, source []byte) (roots []*contract.Element, tables []*contract.Element) {
	var stack []*contract.Element

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			h := n.(*ast.Heading)
			start, end := lineSpan(h, source)
			el := &contract.Element{
				Name:      string(h.Text(source)),
				Category:  "headings",
				LineStart: start,
				LineEnd:   end,
				Depth:     h.Level,
			}
			for len(stack) > 0 && stack[len(stack)-1].Depth >= h.Level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				roots = append(roots, el)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case extast.KindTable:
			tbl := n.(*extast.Table)
			headers, rows := extractTable(tbl, source)
			start, end := lineSpan(tbl, source)
			children := make([]*contract.Element, len(rows))
			for i, row := range rows {
				children[i] = &contract.Element{
					Name:     fmt.Sprintf("row_%d", i+1),
					Category: "rows",
					Ordinal:  i + 1,
					Attributes: map[string]any{
						"cells": row,
					},
				}
			}
			tables = append(tables, &contract.Element{
				Name:      fmt.Sprintf("table_%d", len(tables)+1),
				Category:  "tables",
				LineStart: start,
				LineEnd:   end,
				Children:  children,
				Attributes: map[string]any{
					"headers":   headers,
					"row_count": float64(len(rows)),
				},
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return roots, tables
}

// extractTable reads the header row and body rows of a table, the same
// child-walking approach as the corpus's own table renderer: find the
// TableHeader's cells for headers, then every TableRow's cells per row.
func extractTable(n *extast.Table, source []byte) (headers []string, rows [][]string) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				if c, ok := cell.(*extast.TableCell); ok {
					headers = append(headers, string(c.Text(source)))
				}
			}
		case *extast.TableRow:
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				if c, ok := cell.(*extast.TableCell); ok {
					cells = append(cells, string(c.Text(source)))
				}
			}
			rows = append(rows, cells)
		}
	}
	return headers, rows
}

type hasLines interface {
	Lines() *text.Segments
}

// lineSpan derives a 1-based [start,end] line range for n from its own
// Lines() segments, falling back to the widest span among its children
// when n itself carries none (containers like Table hold no text lines
// directly; their rows do).
func lineSpan(n ast.Node, source []byte) (start, end int) {
	start, end = -1, -1
	var walkSpan func(ast.Node)
	walkSpan = func(node ast.Node) {
		if hl, ok := node.(hasLines); ok {
			lines := hl.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				s := lineOf(source, seg.Start)
				e := lineOf(source, seg.Stop-1)
				if start == -1 || s < start {
					start = s
				}
				if e > end {
					end = e
				}
			}
		}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			walkSpan(c)
		}
	}
	walkSpan(n)
	if start == -1 {
		return 0, 0
	}
	return start, end
}

func lineOf(source []byte, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
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
		Scheme:      "markdown",
		Summary:     "Headings (nested by level), tables, and YAML front matter",
		Categories:  []string{"frontmatter", "headings", "tables"},
		Examples:    []string{"markdown://README.md", "markdown://README.md/Installation"},
		QueryFields: nil,
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "depth", Type: "number"},
		{Name: "row_count", Type: "number"},
	}}
}
