// Package query implements the universal filter/sort/limit/select
// sublanguage (§4.2), parsed from a uri.Query's ordered pairs into an
// algebraic filter tree (§9: "Dynamic query strings → typed filter tree").
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/termfx/reveal/internal/uri"
)

// FieldGetter resolves a field name against whatever is being filtered
// (typically a contract.Element). It returns the string form, a numeric
// form when the value parses as a number, and whether the field was
// present at all.
type FieldGetter func(field string) (value string, numeric float64, isNumeric, present bool)

// Expr is one node of the parsed filter tree.
type Expr interface {
	Eval(get FieldGetter) bool
}

// Reserved query keys that are not themselves filter predicates.
var reservedKeys = map[string]bool{
	"sort": true, "limit": true, "offset": true, "select": true, "filter": true,
}

// Parsed is the outcome of parsing a uri.Query against the sublanguage.
type Parsed struct {
	Filter   Expr // nil means "match everything"
	SortBy   string
	SortDesc bool
	Limit    int // 0 means unlimited
	Offset   int
	Select   []string

	// Warnings holds one entry per unrecognized field name encountered,
	// per §4.2's "keep agent exploration forgiving" rule: unknown fields
	// degrade to a warning, never a hard parse failure.
	Warnings []string
}

// Parse builds a Parsed query from a uri.Query. knownFields lists the field
// names the calling adapter declares as queryable (its schema, §4.3); a
// nil/empty slice disables the unknown-field warning (the adapter has not
// opted into field-level validation).
func Parse(q *uri.Query, knownFields []string) *Parsed {
	p := &Parsed{}
	if q == nil {
		return p
	}

	known := make(map[string]bool, len(knownFields))
	for _, f := range knownFields {
		known[f] = true
	}

	var preds []Expr
	for _, raw := range q.Pairs() {
		key, op, val, isFlag := splitPredicate(raw)

		switch key {
		case "sort":
			if strings.HasPrefix(val, "-") {
				p.SortDesc = true
				p.SortBy = val[1:]
			} else {
				p.SortBy = val
			}
			continue
		case "limit":
			if n, err := strconv.Atoi(val); err == nil {
				p.Limit = n
			}
			continue
		case "offset":
			if n, err := strconv.Atoi(val); err == nil {
				p.Offset = n
			}
			continue
		case "select":
			if val != "" {
				p.Select = strings.Split(val, ",")
			}
			continue
		case "filter":
			if expr, err := ParseExpr(val); err == nil {
				preds = append(preds, expr)
			}
			continue
		}

		if len(known) > 0 && !known[key] {
			p.Warnings = append(p.Warnings, "unknown query field: "+key)
		}

		if isFlag {
			preds = append(preds, &presence{field: key, want: true})
			continue
		}
		if strings.HasPrefix(key, "!") && op == "" {
			preds = append(preds, &presence{field: key[1:], want: false})
			continue
		}

		preds = append(preds, predicateFromOp(key, op, val))
	}

	if len(preds) == 1 {
		p.Filter = preds[0]
	} else if len(preds) > 1 {
		p.Filter = &and{terms: preds}
	}

	return p
}

// splitPredicate recognizes the field<op>value forms from the operator
// table. isFlag is true for a bare "field" or "*"-valued presence check.
func splitPredicate(raw string) (key, op, val string, isFlag bool) {
	if reservedKeys[strings.SplitN(raw, "=", 2)[0]] {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) == 2 {
			return parts[0], "=", parts[1], false
		}
		return parts[0], "", "", true
	}

	for _, candidate := range []string{">=", "<=", "!=", "~=", ">", "<", "="} {
		if idx := strings.Index(raw, candidate); idx >= 0 {
			return raw[:idx], candidate, raw[idx+len(candidate):], false
		}
	}
	// No operator at all: a bare flag like "?unused" or "!field".
	return raw, "", "", true
}

func predicateFromOp(field, op, val string) Expr {
	switch op {
	case "=":
		if val == "*" {
			return &presence{field: field, want: true}
		}
		if lo, hi, ok := parseRange(val); ok {
			return &numRange{field: field, lo: lo, hi: hi}
		}
		return &equals{field: field, value: val}
	case "!=":
		return &not{inner: &equals{field: field, value: val}}
	case ">":
		return &compare{field: field, op: op, value: val}
	case "<":
		return &compare{field: field, op: op, value: val}
	case ">=":
		return &compare{field: field, op: op, value: val}
	case "<=":
		return &compare{field: field, op: op, value: val}
	case "~=":
		return &fuzzyMatch{field: field, pattern: val}
	default:
		return &equals{field: field, value: val}
	}
}

func parseRange(val string) (lo, hi float64, ok bool) {
	idx := strings.Index(val, "..")
	if idx < 0 {
		return 0, 0, false
	}
	loS, hiS := val[:idx], val[idx+2:]
	lof, err1 := strconv.ParseFloat(loS, 64)
	hif, err2 := strconv.ParseFloat(hiS, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lof, hif, true
}

// Apply runs the query-layer pass (filter, sort, limit, offset) over a
// slice of items, via accessor functions supplied by the
// caller. It returns the surviving, ordered, paginated subset plus
// metadata for Output Contract truncation stamping.
type Item interface{}

// Accessor extracts a FieldGetter for one item.
type Accessor func(item Item) FieldGetter

// Result carries the outcome of Apply.
type Result struct {
	Items          []Item
	TotalAvailable int
	Truncated      bool
	NextOffset     int
}

// Apply filters, sorts, and paginates items.
func Apply(p *Parsed, items []Item, get Accessor) Result {
	filtered := make([]Item, 0, len(items))
	for _, it := range items {
		if p.Filter == nil || p.Filter.Eval(get(it)) {
			filtered = append(filtered, it)
		}
	}

	if p.SortBy != "" {
		sort.SliceStable(filtered, func(i, j int) bool {
			gi, gj := get(filtered[i]), get(filtered[j])
			vi, ni, isNumI, _ := gi(p.SortBy)
			vj, nj, isNumJ, _ := gj(p.SortBy)
			var less bool
			if isNumI && isNumJ {
				less = ni < nj
			} else {
				less = vi < vj
			}
			if p.SortDesc {
				return !less && vi != vj || (!less && ni != nj)
			}
			return less
		})
	}

	total := len(filtered)
	start := p.Offset
	if start > total {
		start = total
	}
	end := total
	if p.Limit > 0 && start+p.Limit < end {
		end = start + p.Limit
	}

	page := filtered[start:end]
	return Result{
		Items:          page,
		TotalAvailable: total,
		Truncated:      end < total,
		NextOffset:     end,
	}
}
