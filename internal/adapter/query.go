package adapter

import (
	"strconv"

	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
)

// ElementGetter builds a query.FieldGetter over an Element's standard
// fields plus its free-form Attributes, shared by every adapter that
// hands Elements to the universal query layer.
func ElementGetter(el *contract.Element) query.FieldGetter {
	return func(field string) (string, float64, bool, bool) {
		switch field {
		case "name":
			return el.Name, 0, false, true
		case "category":
			return el.Category, 0, false, true
		case "signature":
			return el.Signature, 0, false, true
		case "complexity":
			return strconv.Itoa(el.Complexity), float64(el.Complexity), true, true
		case "depth":
			return strconv.Itoa(el.Depth), float64(el.Depth), true, true
		case "line_count":
			return strconv.Itoa(el.LineCount), float64(el.LineCount), true, true
		case "line_start":
			return strconv.Itoa(el.LineStart), float64(el.LineStart), true, true
		case "line_end":
			return strconv.Itoa(el.LineEnd), float64(el.LineEnd), true, true
		case "decorators":
			if len(el.Decorators) == 0 {
				return "", 0, false, false
			}
			return el.Decorators[0], 0, false, true
		}
		if el.Attributes != nil {
			if v, ok := el.Attributes[field]; ok {
				switch tv := v.(type) {
				case string:
					return tv, 0, false, true
				case float64:
					return strconv.FormatFloat(tv, 'f', -1, 64), tv, true, true
				case int:
					return strconv.Itoa(tv), float64(tv), true, true
				case bool:
					return strconv.FormatBool(tv), 0, false, true
				}
			}
		}
		return "", 0, false, false
	}
}

// ApplyToStructure runs the universal query layer (filter, sort, limit,
// offset) over every Element in s, regardless of which category it
// belongs to, then rebuilds s.Categories/CategoryOrder from the
// surviving, ordered subset and stamps the Output Contract's truncation
// metadata. Adapters whose categories should never be merged by a global
// sort (e.g. a directory's single "entries" category) can call this
// safely too, since a single category is a no-op case of the same logic.
func ApplyToStructure(s *contract.Structure, q *query.Parsed) {
	if q == nil {
		return
	}

	items := make([]query.Item, 0, s.Count())
	for _, cat := range s.CategoryOrder {
		for _, el := range s.Categories[cat] {
			items = append(items, el)
		}
	}

	result := query.Apply(q, items, func(it query.Item) query.FieldGetter {
		return ElementGetter(it.(*contract.Element))
	})

	newCategories := make(map[string][]*contract.Element, len(s.Categories))
	var newOrder []string
	for _, it := range result.Items {
		el := it.(*contract.Element)
		if _, ok := newCategories[el.Category]; !ok {
			newOrder = append(newOrder, el.Category)
		}
		newCategories[el.Category] = append(newCategories[el.Category], el)
	}

	s.Categories = newCategories
	s.CategoryOrder = newOrder

	returned := len(result.Items)
	s.Returned = &returned
	total := result.TotalAvailable
	s.TotalAvailable = &total
	s.Truncated = result.Truncated
	if result.Truncated {
		s.NextCursor = strconv.Itoa(result.NextOffset)
	}

	for _, w := range q.Warnings {
		s.AddWarning("UnknownQueryField", w)
	}
}
