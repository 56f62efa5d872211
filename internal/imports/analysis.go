package imports

import (
	"path/filepath"
	"sort"
	"strings"
)

// Unused reports, per file, import strings that are never referenced
// again in that file's source outside the import statement itself — a
// per-language name-usage heuristic rather than a true unresolved-symbol
// check, since that would require full semantic analysis.
func (g *Graph) Unused() map[string][]string {
	out := make(map[string][]string)
	for rel, node := range g.Nodes {
		src := string(g.sources[rel])
		var unused []string
		for _, imp := range node.Imports {
			name := localName(node.Lang, imp)
			if name == "" {
				continue
			}
			if countOccurrences(src, name) <= 1 {
				unused = append(unused, imp)
			}
		}
		if len(unused) > 0 {
			out[rel] = unused
		}
	}
	return out
}

// localName derives the identifier a file would reference locally to
// use an import, e.g. the last path segment for Go, the leaf module name
// for Python, or the bare module specifier for JS/TS.
func localName(lang, imp string) string {
	switch lang {
	case "go":
		segs := strings.Split(imp, "/")
		return segs[len(segs)-1]
	case "python":
		segs := strings.Split(imp, ".")
		return segs[len(segs)-1]
	default:
		base := filepath.Base(imp)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
}

// countOccurrences counts non-overlapping substring occurrences of name
// in src (not whole words: "os" also matches inside "pos"), a cheap
// substitute for a real reference-counting pass.
func countOccurrences(src, name string) int {
	if name == "" {
		return 0
	}
	count := 0
	idx := 0
	for {
		pos := strings.Index(src[idx:], name)
		if pos < 0 {
			break
		}
		count++
		idx += pos + len(name)
	}
	return count
}

// Circular returns every strongly connected component of size >= 2 in
// the in-tree edge graph, found via Tarjan's algorithm.
func (g *Graph) Circular() [][]string {
	t := &tarjan{
		graph:   g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	var nodes []string
	for rel := range g.Nodes {
		nodes = append(nodes, rel)
	}
	sort.Strings(nodes)
	for _, n := range nodes {
		if _, seen := t.index[n]; !seen {
			t.strongConnect(n)
		}
	}
	var out [][]string
	for _, comp := range t.components {
		if len(comp) >= 2 {
			sort.Strings(comp)
			out = append(out, comp)
		}
	}
	return out
}

type tarjan struct {
	graph      *Graph
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	counter    int
	components [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph.Edges[v] {
		if _, ok := t.index[w]; !ok {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, comp)
	}
}

// Violation is one layer-rule breach: an edge from a lower layer to a
// higher one when layers, ordered lowest to highest, only permit the
// reverse direction.
type Violation struct {
	From      string
	To        string
	FromLayer string
	ToLayer   string
}

// Violations checks every edge against layers (ordered lowest-layer
// first) and reports edges that point from a lower layer up to a
// higher one — the only direction a layered architecture rule forbids,
// per §4.8. A file's layer is the first entry in layers whose directory
// name appears as a path component of its relative path; files matching
// no layer are not checked.
func (g *Graph) Violations(layers []string) []Violation {
	rank := make(map[string]int, len(layers))
	for i, l := range layers {
		rank[l] = i
	}
	layerOf := func(rel string) (string, bool) {
		for _, part := range strings.Split(rel, string(filepath.Separator)) {
			if _, ok := rank[part]; ok {
				return part, true
			}
		}
		return "", false
	}

	var out []Violation
	var edges []string
	for rel := range g.Edges {
		edges = append(edges, rel)
	}
	sort.Strings(edges)
	for _, from := range edges {
		fromLayer, ok := layerOf(from)
		if !ok {
			continue
		}
		for _, to := range g.Edges[from] {
			toLayer, ok := layerOf(to)
			if !ok {
				continue
			}
			if rank[fromLayer] < rank[toLayer] {
				out = append(out, Violation{From: from, To: to, FromLayer: fromLayer, ToLayer: toLayer})
			}
		}
	}
	return out
}
