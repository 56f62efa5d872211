package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/reveal/internal/uri"
)

const sample = `---
title: Example
---

# Top

Intro text.

## Sub

More text.

| Name | Age |
|------|-----|
| Ada  | 36  |
| Lin  | 29  |
`

func TestGetStructureExtractsFrontmatterHeadingsAndTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	a := New()
	u, err := uri.Parse("markdown://" + path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}

	fm := s.Categories["frontmatter"]
	if len(fm) != 1 || fm[0].Attributes["title"] != "Example" {
		t.Fatalf("expected frontmatter title=Example, got %+v", fm)
	}

	headings := s.Categories["headings"]
	if len(headings) != 1 || headings[0].Name != "Top" {
		t.Fatalf("expected one top-level heading Top, got %+v", headings)
	}
	if len(headings[0].Children) != 1 || headings[0].Children[0].Name != "Sub" {
		t.Fatalf("expected Sub nested under Top, got %+v", headings[0].Children)
	}

	tables := s.Categories["tables"]
	if len(tables) != 1 {
		t.Fatalf("expected one table, got %+v", tables)
	}
	headers, _ := tables[0].Attributes["headers"].([]string)
	if len(headers) != 2 || headers[0] != "Name" {
		t.Fatalf("unexpected headers: %+v", tables[0].Attributes["headers"])
	}
	if len(tables[0].Children) != 2 {
		t.Fatalf("expected 2 rows, got %+v", tables[0].Children)
	}
}
