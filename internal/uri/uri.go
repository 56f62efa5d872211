// Package uri parses the scheme://resource[/element][?query][#fragment]
// addressing primitive described in §4.1 of the specification.
package uri

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/termfx/reveal/internal/contract"
)

var schemeRE = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// URI is the addressing primitive. A URI exclusively owns its parsed
// components — Query and Element are never shared with another URI
// value.
type URI struct {
	Scheme   string
	Resource string
	Element  string
	Query    *Query
	Fragment string

	// Raw is the original, unparsed input string.
	Raw string
}

// Query is the ordered key/value mapping of the raw query string, prior to
// the query sublanguage's own parsing (internal/query builds a filter tree
// on top of this).
type Query struct {
	pairs []queryPair
}

type queryPair struct {
	key   string
	value string
	isRaw bool // true when the key had no "=" (a bare flag)
}

// NewQuery builds an empty ordered Query.
func NewQuery() *Query { return &Query{} }

// Set appends a key/value pair, preserving insertion order. Repeated keys
// both appear in Pairs(); callers that want "last wins" semantics (CLI flag
// overriding a query string value) should filter.
func (q *Query) Set(key, value string) {
	q.pairs = append(q.pairs, queryPair{key: key, value: value})
}

// SetFlag appends a bare flag (no "=value" suffix), e.g. "?unused".
func (q *Query) SetFlag(key string) {
	q.pairs = append(q.pairs, queryPair{key: key, isRaw: true})
}

// Get returns the last value set for key, and whether it was present.
func (q *Query) Get(key string) (string, bool) {
	val, ok := "", false
	for _, p := range q.pairs {
		if p.key == key {
			val, ok = p.value, true
		}
	}
	return val, ok
}

// Has reports whether key is present at all (value or bare flag).
func (q *Query) Has(key string) bool {
	for _, p := range q.pairs {
		if p.key == key {
			return true
		}
	}
	return false
}

// Pairs returns the ordered list of raw key/value pairs, for the query
// sublanguage parser to consume.
func (q *Query) Pairs() []string {
	raw := make([]string, 0, len(q.pairs))
	for _, p := range q.pairs {
		if p.isRaw {
			raw = append(raw, p.key)
		} else {
			raw = append(raw, p.key+"="+p.value)
		}
	}
	return raw
}

// Parse parses input with standard percent-decoding applied to resource,
// element, query values, and fragment.
func Parse(input string) (*URI, error) {
	return parse(input, true)
}

// ParseRaw parses input preserving original bytes in the resource segment,
// for adapters (file, git, diff) whose resource may contain spaces or
// characters that would be mangled by percent-decoding round-trips.
func ParseRaw(input string) (*URI, error) {
	return parse(input, false)
}

func parse(input string, decode bool) (*URI, error) {
	if input == "" {
		return nil, contract.NewError(contract.ErrURIParse, input, "empty URI", nil)
	}

	raw := input
	scheme, rest, hasScheme := splitScheme(input)

	if !hasScheme {
		// No scheme: if it denotes an extant filesystem path, synthesize
		// file://<path> per §4.1.
		if _, err := os.Stat(input); err == nil {
			scheme = "file"
			rest = input
		} else {
			// Still treat it as a bare path — most adapters are invoked
			// against paths that may not yet have been created (e.g. a
			// future git worktree ref); only reject a structurally empty
			// input.
			scheme = "file"
			rest = input
		}
	} else if !schemeRE.MatchString(scheme) {
		return nil, contract.NewError(contract.ErrURIParse, raw,
			fmt.Sprintf("invalid scheme %q", scheme), nil)
	}

	resource, fragment := splitFragment(rest)
	resource, queryStr := splitQuery(resource)

	q, err := parseQueryString(queryStr, decode)
	if err != nil {
		return nil, contract.NewError(contract.ErrUnparsableQuery, raw, err.Error(), err)
	}

	if decode {
		if d, err := url.PathUnescape(resource); err == nil {
			resource = d
		}
		if d, err := url.PathUnescape(fragment); err == nil {
			fragment = d
		}
	}

	return &URI{
		Scheme:   scheme,
		Resource: resource,
		Query:    q,
		Fragment: fragment,
		Raw:      raw,
	}, nil
}

// splitScheme detects a leading "scheme://" or "scheme:///" prefix. The
// candidate is returned even when it is not a valid scheme name, so that
// parse can reject it; only a prefix containing a path, query or fragment
// separator is not treated as a scheme.
func splitScheme(input string) (scheme, rest string, ok bool) {
	idx := strings.Index(input, "://")
	if idx <= 0 {
		return "", input, false
	}
	candidate := input[:idx]
	if strings.ContainsAny(candidate, "/?#") {
		return "", input, false
	}
	return candidate, input[idx+3:], true
}

func splitFragment(s string) (resource, fragment string) {
	idx := strings.IndexByte(s, '#')
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

func splitQuery(s string) (resource, query string) {
	idx := strings.IndexByte(s, '?')
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

func parseQueryString(s string, decode bool) (*Query, error) {
	q := NewQuery()
	if s == "" {
		return q, nil
	}
	for _, part := range strings.Split(s, "&") {
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			key := part
			if decode {
				if d, err := url.QueryUnescape(key); err == nil {
					key = d
				}
			}
			q.SetFlag(key)
			continue
		}
		key, val := part[:eq], part[eq+1:]
		if decode {
			if d, err := url.QueryUnescape(key); err == nil {
				key = d
			}
			if d, err := url.QueryUnescape(val); err == nil {
				val = d
			}
		}
		q.Set(key, val)
	}
	return q, nil
}

// String reconstructs a (not necessarily byte-identical) URI string.
func (u *URI) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Resource)
	if u.Element != "" {
		b.WriteString("/")
		b.WriteString(u.Element)
	}
	if pairs := u.Query.Pairs(); len(pairs) > 0 {
		b.WriteString("?")
		b.WriteString(strings.Join(pairs, "&"))
	}
	if u.Fragment != "" {
		b.WriteString("#")
		b.WriteString(u.Fragment)
	}
	return b.String()
}
