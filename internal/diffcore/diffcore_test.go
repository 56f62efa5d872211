package diffcore

import (
	"testing"

	"github.com/termfx/reveal/internal/contract"
)

func newStructure(cat string, elems ...*contract.Element) *contract.Structure {
	s := contract.NewStructure("test", "test://x", contract.SourceFile)
	s.AddCategory(cat, elems...)
	return s
}

func TestDiffDetectsAddedAndRemoved(t *testing.T) {
	left := newStructure("entries",
		&contract.Element{Name: "a.go", Category: "entries"},
		&contract.Element{Name: "b.go", Category: "entries"},
	)
	right := newStructure("entries",
		&contract.Element{Name: "a.go", Category: "entries"},
		&contract.Element{Name: "c.go", Category: "entries"},
	)

	r := Diff(left, right)
	if r.UnknownShape {
		t.Fatal("expected a structural diff, not unknown-shape")
	}
	if r.Summary[Added] != 1 || r.Summary[Removed] != 1 || r.Summary[Unchanged] != 1 {
		t.Fatalf("unexpected summary: %+v", r.Summary)
	}
}

func TestDiffReportsSignatureAndComplexityChange(t *testing.T) {
	left := newStructure("functions", &contract.Element{
		Name: "foo", Category: "functions", Signature: "(x)", Complexity: 3,
	})
	right := newStructure("functions", &contract.Element{
		Name: "foo", Category: "functions", Signature: "(x, y)", Complexity: 7,
	})

	r := Diff(left, right)
	if r.Summary[Modified] != 1 {
		t.Fatalf("expected one modified entry, got %+v", r.Summary)
	}
	entry := r.Entries[0]
	sig, ok := entry.Changes["signature"]
	if !ok || sig.Old != "(x)" || sig.New != "(x, y)" {
		t.Fatalf("signature change not reported correctly: %+v", entry.Changes)
	}
	cx, ok := entry.Changes["complexity"]
	if !ok || cx.Old != 3 || cx.New != 7 {
		t.Fatalf("complexity change not reported correctly: %+v", entry.Changes)
	}
}

func TestDiffDisambiguatesDuplicateNamesByOrdinal(t *testing.T) {
	left := newStructure("functions",
		&contract.Element{Name: "handle", Category: "functions", Ordinal: 1, Complexity: 1},
		&contract.Element{Name: "handle", Category: "functions", Ordinal: 2, Complexity: 2},
	)
	right := newStructure("functions",
		&contract.Element{Name: "handle", Category: "functions", Ordinal: 1, Complexity: 1},
		&contract.Element{Name: "handle", Category: "functions", Ordinal: 2, Complexity: 9},
	)

	r := Diff(left, right)
	if r.Summary[Unchanged] != 1 || r.Summary[Modified] != 1 {
		t.Fatalf("expected one unchanged and one modified overload, got %+v", r.Summary)
	}
}

func TestDiffReportsUnknownShapeWhenBothSidesEmpty(t *testing.T) {
	left := contract.NewStructure("test", "test://x", contract.SourceFile)
	right := contract.NewStructure("test", "test://y", contract.SourceFile)

	r := Diff(left, right)
	if !r.UnknownShape {
		t.Fatal("expected UnknownShape for two opaque-byte structures")
	}
}
