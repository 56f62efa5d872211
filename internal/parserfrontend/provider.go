// Package parserfrontend wraps tree-sitter parsing behind a single
// language-agnostic engine (§4.3 Source-Code Analysis). Each Parse call
// creates its own *sitter.Parser and returns the tree it built; no parser
// or parsed tree is cached, so a file parsed twice in one invocation is
// parsed twice.
package parserfrontend

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Provider is the per-language integration contract: enough for the
// engine to parse, walk, and classify a tree without hard-coding any
// language's grammar. A Provider with a nil SitterLanguage() is
// "registered but ungrammared" (§4.5.1) — its decision-node tables exist,
// but no actual grammar dependency backs it and Parse extracts no
// elements for it.
type Provider interface {
	// Lang is the canonical identifier, e.g. "go", "python".
	Lang() string
	Aliases() []string
	Extensions() []string
	// Filenames lists well-known filenames that select this language
	// independent of extension, e.g. "Dockerfile", "Makefile".
	Filenames() []string
	// Shebangs lists interpreter basenames ("python3", "node") that
	// select this language when a file's first line is "#!/path/to/x".
	Shebangs() []string

	// SitterLanguage returns the compiled grammar, or nil when this
	// language is registered without one (§4.5.1).
	SitterLanguage() *sitter.Language

	// ContainerNodeTypes lists tree-sitter node type names that define a
	// named, addressable element (function, method, class, struct...).
	ContainerNodeTypes() []string
	// ContainerCategory classifies a container node type into the
	// category name it is filed under (e.g. "functions", "classes").
	ContainerCategory(nodeType string) string

	// DecisionNodeTypes lists node type names that each contribute +1 to
	// cyclomatic complexity (if/for/while/case/catch/&&/||/ternary...).
	DecisionNodeTypes() []string
	// CompoundPairs lists (parent_type, child_type) pairs that must be
	// skipped during decision counting to avoid double-counting chained
	// conditionals in grammars that nest "else if" as a child "if" under
	// an "else" clause (Python, Swift) rather than flattening it.
	CompoundPairs() [][2]string

	// NodeName extracts the identifier for a container node, or "" if
	// the node has none (anonymous function literal).
	NodeName(node *sitter.Node, source []byte) string
}

// decisionSet and compoundSet are built once per Provider by the engine
// for O(1) membership checks during the tree walk.
type decisionSet map[string]bool

func newDecisionSet(types []string) decisionSet {
	s := make(decisionSet, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

type compoundSet map[[2]string]bool

func newCompoundSet(pairs [][2]string) compoundSet {
	s := make(compoundSet, len(pairs))
	for _, p := range pairs {
		s[p] = true
	}
	return s
}
