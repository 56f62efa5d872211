package parserfrontend

import sitter "github.com/smacker/go-tree-sitter"

// ImportProvider is an optional capability a Provider implements when its
// grammar can express import/use/require statements. Not every
// registered language implements it (the ungrammared fallback languages
// cannot, by construction); callers type-assert and treat its absence as
// "no import graph for this language" rather than an error.
type ImportProvider interface {
	Provider

	// ImportNodeTypes lists the grammar node types that represent an
	// import-like statement.
	ImportNodeTypes() []string

	// ImportPath extracts the literal module/path string a matched
	// import node names, given the node and the file's source bytes.
	// Returns "" when the node carries no resolvable literal (a
	// dynamic or computed import).
	ImportPath(node *sitter.Node, source []byte) string
}

// ExtractImports walks root and returns every import path an
// ImportProvider-capable Provider's grammar reports, in source order,
// including duplicates (the imports adapter is responsible for any
// deduplication it wants).
func ExtractImports(p Provider, root *sitter.Node, source []byte) []string {
	ip, ok := p.(ImportProvider)
	if !ok || root == nil {
		return nil
	}
	types := newDecisionSet(ip.ImportNodeTypes())
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if types[n.Type()] {
			if path := ip.ImportPath(n, source); path != "" {
				out = append(out, path)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

// firstChildOfType returns the first direct child of n whose type is one
// of wanted, or nil.
func firstChildOfType(n *sitter.Node, wanted ...string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		for _, w := range wanted {
			if c.Type() == w {
				return c
			}
		}
	}
	return nil
}

// trimQuotes strips a single layer of matching quote characters, for
// string-literal import paths.
func trimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
