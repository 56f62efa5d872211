package parserfrontend

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Complexity computes the language-independent cyclomatic complexity of
// the subtree rooted at node (§4.3), starting from a base of 1 (one
// linear path through the element) and adding 1 per decision point.
//
// Grammars represent chained conditionals two different ways. "Simple"
// grammars (Ruby, Lua, C-family) flatten an else-if chain into sibling
// clause nodes, so every node matching a DecisionNodeTypes entry counts
// once. "Compound" grammars (Python, Swift) nest each further "elif" as
// a new if-statement inside the previous one's else branch; walking that
// naively double-counts the chain's branching factor, since each nested
// "if" is both a new decision point and the direct continuation of the
// one before it. CompoundPairs names the exact (parent_type, child_type)
// shape this happens in, so those specific nodes are skipped — they
// still contribute via the node that introduced the chain.
func Complexity(p Provider, node *sitter.Node) int {
	decisions := newDecisionSet(p.DecisionNodeTypes())
	compounds := newCompoundSet(p.CompoundPairs())

	count := 1
	var walk func(n, parent *sitter.Node)
	walk = func(n, parent *sitter.Node) {
		if n == nil {
			return
		}
		nodeType := n.Type()
		if decisions[nodeType] {
			skip := false
			if parent != nil {
				skip = compounds[[2]string{parent.Type(), nodeType}]
			}
			if !skip {
				count++
			}
		}
		childCount := int(n.ChildCount())
		for i := 0; i < childCount; i++ {
			walk(n.Child(i), n)
		}
	}
	walk(node, nil)
	return count
}

// Confidence computes the Output Contract confidence scalar (§9's Open
// Question resolution): a parse with no error nodes scores 1.0; each
// error node degrades it, capped so no single file drags below 0.5
// purely from error-node count, with parse failure itself as the larger
// penalty.
func Confidence(hasParseErrors bool, errorNodeCount int) float64 {
	score := 1.0
	if hasParseErrors {
		score -= 0.3
	}
	capped := errorNodeCount
	if capped > 10 {
		capped = 10
	}
	score -= 0.05 * float64(capped)
	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// CountErrorNodes walks the tree counting tree-sitter ERROR nodes and
// MISSING nodes, for the Confidence formula's input.
func CountErrorNodes(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.IsError() || node.IsMissing() {
		count++
	}
	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		count += CountErrorNodes(node.Child(i))
	}
	return count
}
