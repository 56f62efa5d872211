// Package diffcore implements the structural diff (§4.10, Decision 15):
// given two Structures obtained through any pair of adapters, categorize
// entries added / removed / modified / unchanged by stable identity —
// never by textual line comparison.
package diffcore

import (
	"fmt"

	"github.com/termfx/reveal/internal/contract"
)

// ChangeKind classifies one entry of a diff result.
type ChangeKind string

const (
	Added      ChangeKind = "added"
	Removed    ChangeKind = "removed"
	Modified   ChangeKind = "modified"
	Unchanged  ChangeKind = "unchanged"
)

// AttrChange is one changed attribute of a Modified entry.
type AttrChange struct {
	Old any
	New any
}

// Entry is one identity's diff outcome within a single category.
type Entry struct {
	Category string
	Identity string
	Kind     ChangeKind
	Changes  map[string]AttrChange
}

// Result is the full structural diff between two Structures.
type Result struct {
	// UnknownShape is set when neither side carries any categorized
	// Elements at all — an adapter that can only hand back opaque bytes.
	// §4.10 forbids guessing a line diff in this situation.
	UnknownShape bool
	Entries      []Entry
	Summary      map[ChangeKind]int
}

// Diff compares left and right structurally. Category order follows
// left's CategoryOrder, then any categories right introduces that left
// never had; within a category, entries are ordered left-then-right
// per §5's ordering rule.
func Diff(left, right *contract.Structure) *Result {
	r := &Result{Summary: map[ChangeKind]int{}}

	if left.Count() == 0 && right.Count() == 0 {
		r.UnknownShape = true
		return r
	}

	categories := orderedCategoryUnion(left, right)
	for _, cat := range categories {
		leftByID := identityIndex(left.Categories[cat])
		rightByID := identityIndex(right.Categories[cat])

		for _, id := range orderedIdentityUnion(left.Categories[cat], right.Categories[cat]) {
			le, lok := leftByID[id]
			re, rok := rightByID[id]
			switch {
			case lok && !rok:
				r.add(Entry{Category: cat, Identity: id, Kind: Removed})
			case !lok && rok:
				r.add(Entry{Category: cat, Identity: id, Kind: Added})
			default:
				changes := attrChanges(le, re)
				if len(changes) == 0 {
					r.add(Entry{Category: cat, Identity: id, Kind: Unchanged})
				} else {
					r.add(Entry{Category: cat, Identity: id, Kind: Modified, Changes: changes})
				}
			}
		}
	}
	return r
}

func (r *Result) add(e Entry) {
	r.Entries = append(r.Entries, e)
	r.Summary[e.Kind]++
}

func orderedCategoryUnion(left, right *contract.Structure) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range left.CategoryOrder {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range right.CategoryOrder {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// identity builds a stable key for an Element within its category: its
// name, disambiguated by ordinal when multiple elements share a name
// (e.g. overloaded functions, or directory entries that collide — which
// in practice they don't, since relative paths are already unique).
func identity(el *contract.Element, dupNames map[string]int) string {
	if dupNames[el.Name] > 1 {
		return fmt.Sprintf("%s#%d", el.Name, el.Ordinal)
	}
	return el.Name
}

func countNames(elems []*contract.Element) map[string]int {
	counts := map[string]int{}
	for _, el := range elems {
		counts[el.Name]++
	}
	return counts
}

func identityIndex(elems []*contract.Element) map[string]*contract.Element {
	dup := countNames(elems)
	out := make(map[string]*contract.Element, len(elems))
	for _, el := range elems {
		out[identity(el, dup)] = el
	}
	return out
}

func orderedIdentityUnion(left, right []*contract.Element) []string {
	leftDup := countNames(left)
	rightDup := countNames(right)
	seen := map[string]bool{}
	var out []string
	for _, el := range left {
		id := identity(el, leftDup)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, el := range right {
		id := identity(el, rightDup)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// attrChanges reports the per-attribute differences §4.10 calls out
// explicitly (signature, complexity, line span) plus any differing
// Attributes entries.
func attrChanges(left, right *contract.Element) map[string]AttrChange {
	changes := map[string]AttrChange{}
	if left.Signature != right.Signature {
		changes["signature"] = AttrChange{Old: left.Signature, New: right.Signature}
	}
	if left.Complexity != right.Complexity {
		changes["complexity"] = AttrChange{Old: left.Complexity, New: right.Complexity}
	}
	if left.LineStart != right.LineStart || left.LineEnd != right.LineEnd {
		changes["line_span"] = AttrChange{
			Old: fmt.Sprintf("%d-%d", left.LineStart, left.LineEnd),
			New: fmt.Sprintf("%d-%d", right.LineStart, right.LineEnd),
		}
	}
	for k, lv := range left.Attributes {
		rv, ok := right.Attributes[k]
		if !ok || fmt.Sprint(lv) != fmt.Sprint(rv) {
			changes["attributes."+k] = AttrChange{Old: lv, New: rv}
		}
	}
	for k, rv := range right.Attributes {
		if _, ok := left.Attributes[k]; !ok {
			changes["attributes."+k] = AttrChange{Old: nil, New: rv}
		}
	}
	return changes
}
