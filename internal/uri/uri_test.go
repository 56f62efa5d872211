package uri

import "testing"

func TestParseSchemeResourceQueryFragment(t *testing.T) {
	u, err := Parse("ast://src?complexity>10&sort=-complexity&limit=5#top")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if u.Scheme != "ast" || u.Resource != "src" || u.Fragment != "top" {
		t.Fatalf("got scheme=%q resource=%q fragment=%q", u.Scheme, u.Resource, u.Fragment)
	}
	pairs := u.Query.Pairs()
	want := []string{"complexity>10", "sort=-complexity", "limit=5"}
	if len(pairs) != len(want) {
		t.Fatalf("pairs = %v, want %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pairs[%d] = %q, want %q", i, pairs[i], want[i])
		}
	}
}

func TestParseInvalidScheme(t *testing.T) {
	_, err := Parse("Bad$cheme://x")
	if err == nil {
		t.Fatal("expected error for invalid scheme")
	}
}

func TestParseBareFileScheme(t *testing.T) {
	u, err := Parse("/tmp/nonexistent/path.go")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if u.Scheme != "file" {
		t.Errorf("scheme = %q, want file", u.Scheme)
	}
	if u.Resource != "/tmp/nonexistent/path.go" {
		t.Errorf("resource = %q", u.Resource)
	}
}

func TestQueryGetLastWins(t *testing.T) {
	q := NewQuery()
	q.Set("limit", "5")
	q.Set("limit", "10")
	v, ok := q.Get("limit")
	if !ok || v != "10" {
		t.Errorf("Get(limit) = %q,%v want 10,true", v, ok)
	}
}

func TestParseElementRefForms(t *testing.T) {
	cases := []struct {
		in       string
		wantKind ElementRefKind
	}{
		{"ClassA.method_b", RefByName},
		{":42", RefByLine},
		{"@3", RefByOrdinal},
		{"headings:2", RefByOrdinal},
	}
	for _, c := range cases {
		ref := ParseElementRef(c.in)
		if ref.Kind != c.wantKind {
			t.Errorf("ParseElementRef(%q).Kind = %v, want %v", c.in, ref.Kind, c.wantKind)
		}
	}
}

func TestElementRefComponents(t *testing.T) {
	ref := ParseElementRef("ClassA.method_b")
	comps := ref.Components()
	if len(comps) != 2 || comps[0] != "ClassA" || comps[1] != "method_b" {
		t.Errorf("Components() = %v", comps)
	}
}
