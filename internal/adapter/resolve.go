package adapter

import (
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/uri"
)

// ResolveElement implements the three element-addressing forms (§4.1)
// against an already-built Structure, shared by every ResourceAsTarget
// adapter so each one doesn't reinvent name/line/ordinal lookup.
func ResolveElement(s *contract.Structure, sourceURI string, ref uri.ElementRef) (*contract.Element, error) {
	switch ref.Kind {
	case uri.RefByLine:
		return resolveByLine(s, sourceURI, ref.Line)
	case uri.RefByOrdinal:
		return resolveByOrdinal(s, sourceURI, ref.Category, ref.Ordinal)
	default:
		return resolveByName(s, sourceURI, ref.Components())
	}
}

// resolveByName walks a dotted path ("ClassName.method_name") through
// Element.Children. The root segment is matched against every category,
// since the caller doesn't know which category the root lives in.
func resolveByName(s *contract.Structure, sourceURI string, parts []string) (*contract.Element, error) {
	if len(parts) == 0 {
		return nil, contract.NewError(contract.ErrNoSuchElement, sourceURI, "empty element name", nil)
	}

	var matches []*contract.Element
	for _, cat := range s.CategoryOrder {
		for _, el := range s.Categories[cat] {
			if el.Name == parts[0] {
				matches = append(matches, el)
			}
		}
	}
	if len(matches) == 0 {
		return nil, contract.NewError(contract.ErrNoSuchElement, sourceURI,
			"no element named "+parts[0], nil)
	}
	if len(matches) > 1 && len(parts) == 1 {
		return nil, contract.NewError(contract.ErrAmbiguousElement, sourceURI,
			"multiple elements named "+parts[0]+"; qualify with category:N or a line number", nil)
	}

	cur := matches[0]
	for _, part := range parts[1:] {
		var next *contract.Element
		for _, child := range cur.Children {
			if child.Name == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, contract.NewError(contract.ErrNoSuchElement, sourceURI,
				"no child named "+part+" under "+cur.Name, nil)
		}
		cur = next
	}
	return cur, nil
}

// resolveByLine finds the innermost Element whose span contains line,
// descending through Children to prefer the most specific match.
func resolveByLine(s *contract.Structure, sourceURI string, line int) (*contract.Element, error) {
	var best *contract.Element
	var consider func(el *contract.Element)
	consider = func(el *contract.Element) {
		if !el.Contains(line) {
			return
		}
		if best == nil || el.Span() < best.Span() {
			best = el
		}
		for _, child := range el.Children {
			consider(child)
		}
	}
	for _, cat := range s.CategoryOrder {
		for _, el := range s.Categories[cat] {
			consider(el)
		}
	}
	if best == nil {
		return nil, contract.NewError(contract.ErrNoSuchElement, sourceURI,
			"no element spans the requested line", nil)
	}
	return best, nil
}

// resolveByOrdinal handles "@N" (dominant category) and "category:N"
// (explicit category) forms. The dominant category is the first one
// registered in CategoryOrder, matching source-order insertion.
func resolveByOrdinal(s *contract.Structure, sourceURI, category string, ordinal int) (*contract.Element, error) {
	if category == "" {
		if len(s.CategoryOrder) == 0 {
			return nil, contract.NewError(contract.ErrNoSuchElement, sourceURI, "structure has no categories", nil)
		}
		category = s.CategoryOrder[0]
	}
	elems, ok := s.Categories[category]
	if !ok {
		return nil, contract.NewError(contract.ErrNoSuchElement, sourceURI, "no category named "+category, nil)
	}
	if ordinal < 1 || ordinal > len(elems) {
		return nil, contract.NewError(contract.ErrNoSuchElement, sourceURI,
			"ordinal out of range for category "+category, nil)
	}
	return elems[ordinal-1], nil
}
