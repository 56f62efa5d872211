package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/termfx/reveal/internal/contract"
)

func sampleStructure() *contract.Structure {
	s := contract.NewStructure("file", "sample.go", contract.SourceFile)
	s.AddCategory("functions",
		&contract.Element{Name: "Foo", Category: "functions", LineStart: 3, LineEnd: 10, Complexity: 4},
		&contract.Element{Name: "Bar", Category: "functions", LineStart: 12, LineEnd: 20, Complexity: 12},
	)
	return s
}

func TestParseFormatDefaultsToTree(t *testing.T) {
	f, err := ParseFormat("")
	if err != nil || f != FormatTree {
		t.Fatalf("expected tree default, got %v, %v", f, err)
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestRenderTreeListsElements(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleStructure(), FormatTree, Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Foo") || !strings.Contains(out, "Bar") {
		t.Fatalf("expected both elements in tree output, got %q", out)
	}
}

func TestRenderJSONHonorsSelect(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Select: []string{"name", "complexity"}}
	if err := Render(&buf, sampleStructure(), FormatJSON, opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "line_start") {
		t.Fatalf("expected line_start to be excluded by --select, got %q", out)
	}
	if !strings.Contains(out, `"complexity"`) {
		t.Fatalf("expected complexity field present, got %q", out)
	}
}

func TestRenderGrepOneLinePerElement(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleStructure(), FormatGrep, Options{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "sample.go:3:functions:Foo") {
		t.Fatalf("unexpected grep line: %q", lines[0])
	}
}

func TestRenderCSVIncludesHeader(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Select: []string{"name"}}
	if err := Render(&buf, sampleStructure(), FormatCSV, opts); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "category,name" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
}
