package parserfrontend

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/reveal/internal/contract"
)

// ParseResult bundles the built Structure together with the live tree and
// provider, so a caller (the ast adapter) can resolve a specific element
// address against the same parse without re-parsing.
type ParseResult struct {
	Structure *contract.Structure
	Tree      *sitter.Tree
	Source    []byte
	Provider  Provider
}

// Parse runs a single-language parse of source and builds a progressive
// Structure: one category per ContainerCategory the provider reports,
// containing one Element per container node, each stamped with its
// cyclomatic complexity and line span. Ungrammared providers
// (SitterLanguage() == nil) skip straight to the heuristic fallback.
func Parse(ctx context.Context, p Provider, sourceURI string, source []byte) (*ParseResult, error) {
	lang := p.SitterLanguage()
	if lang == nil {
		return parseHeuristic(p, sourceURI, source)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, sourceURI, "parse failed: "+err.Error(), err)
	}

	root := tree.RootNode()
	errCount := CountErrorNodes(root)
	s := contract.NewStructure(p.Lang()+"_source", sourceURI, contract.SourceFile)
	s.ParseMode = contract.ParseModeFull
	s.SetConfidence(Confidence(root.HasError(), errCount))
	if errCount > 0 {
		s.ParseMode = contract.ParseModeFallback
		s.AddWarning("ParseDegraded", "source contains syntax errors; analysis may be incomplete")
	}

	categories := newDecisionSet(p.ContainerNodeTypes())
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		nodeType := n.Type()
		if categories[nodeType] {
			cat := p.ContainerCategory(nodeType)
			name := p.NodeName(n, source)
			el := &contract.Element{
				Name:       name,
				Category:   cat,
				LineStart:  int(n.StartPoint().Row) + 1,
				LineEnd:    int(n.EndPoint().Row) + 1,
				Complexity: Complexity(p, n),
				Attributes: map[string]any{"node_type": nodeType},
			}
			el.LineCount = el.Span()
			el.Ordinal = len(s.Categories[cat]) + 1
			s.AddCategory(cat, el)
		}
		childCount := int(n.ChildCount())
		for i := 0; i < childCount; i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return &ParseResult{Structure: s, Tree: tree, Source: source, Provider: p}, nil
}

// parseHeuristic handles "registered but ungrammared" languages (§4.5.1):
// no tree-sitter grammar backs them, so the source is not scanned at all
// and the returned Structure has no categories or elements. Confidence is
// set to 0.5 and a NoGrammar warning is added to signal the degraded parse
// mode honestly.
func parseHeuristic(p Provider, sourceURI string, source []byte) (*ParseResult, error) {
	s := contract.NewStructure(p.Lang()+"_source", sourceURI, contract.SourceFile)
	s.ParseMode = contract.ParseModeFallback
	s.SetConfidence(0.5)
	s.AddWarning("NoGrammar", "no tree-sitter grammar registered for "+p.Lang()+"; no elements extracted")
	return &ParseResult{Structure: s, Source: source, Provider: p}, nil
}
