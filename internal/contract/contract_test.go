package contract

import "testing"

func TestStructureAddCategoryPreservesOrder(t *testing.T) {
	s := NewStructure("go_file", "file:///a.go", SourceFile)
	s.AddCategory("functions", &Element{Name: "Foo", LineStart: 1, LineEnd: 3})
	s.AddCategory("classes", &Element{Name: "Bar", LineStart: 5, LineEnd: 9})
	s.AddCategory("functions", &Element{Name: "Baz", LineStart: 11, LineEnd: 12})

	want := []string{"functions", "classes"}
	if len(s.CategoryOrder) != len(want) {
		t.Fatalf("category order = %v, want %v", s.CategoryOrder, want)
	}
	for i, name := range want {
		if s.CategoryOrder[i] != name {
			t.Errorf("CategoryOrder[%d] = %q, want %q", i, s.CategoryOrder[i], name)
		}
	}
	if len(s.Categories["functions"]) != 2 {
		t.Errorf("functions category has %d elements, want 2", len(s.Categories["functions"]))
	}
}

func TestStructureStamping(t *testing.T) {
	s := NewStructure("json_document", "json:///a.json", SourceFile)
	if s.ContractVersion != ContractVersion {
		t.Errorf("contract_version = %q, want %q", s.ContractVersion, ContractVersion)
	}
	if s.Type != "json_document" || s.Source != "json:///a.json" || s.SourceType != SourceFile {
		t.Errorf("stamping fields incorrect: %+v", s)
	}
}

func TestSetConfidenceClamps(t *testing.T) {
	s := NewStructure("t", "u", SourceFile)
	s.SetConfidence(1.5)
	if *s.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", *s.Confidence)
	}
	s.SetConfidence(-0.5)
	if *s.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0.0", *s.Confidence)
	}
}

func TestElementContainsAndSpan(t *testing.T) {
	e := &Element{LineStart: 10, LineEnd: 20}
	if !e.Contains(15) {
		t.Error("expected line 15 to be contained")
	}
	if e.Contains(9) || e.Contains(21) {
		t.Error("expected lines outside span to not be contained")
	}
	if e.Span() != 11 {
		t.Errorf("span = %d, want 11", e.Span())
	}
}

func TestErrorKindDisposition(t *testing.T) {
	cases := []struct {
		kind      ErrorKind
		wantFatal bool
		wantExit  int
	}{
		{ErrUnknownScheme, true, 2},
		{ErrResourceUnavailable, true, 1},
		{ErrParseDegraded, false, 0},
		{ErrRuleFinding, false, 0},
	}
	for _, c := range cases {
		if got := c.kind.Fatal(); got != c.wantFatal {
			t.Errorf("%s.Fatal() = %v, want %v", c.kind, got, c.wantFatal)
		}
		if got := c.kind.ExitCode(); got != c.wantExit {
			t.Errorf("%s.ExitCode() = %d, want %d", c.kind, got, c.wantExit)
		}
	}
}

func TestErrorJSONHasErrorKey(t *testing.T) {
	e := NewError(ErrUnknownScheme, "foo://bar", "unknown scheme", nil).WithSuggestion("file")
	out := e.JSON()
	if out == "" {
		t.Fatal("expected non-empty JSON")
	}
	if want := `"error":"UnknownScheme"`; !contains(out, want) {
		t.Errorf("JSON %s does not contain %s", out, want)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
