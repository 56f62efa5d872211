package parserfrontend

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// GoProvider is the tree-sitter integration for Go source.
type GoProvider struct{}

func (GoProvider) Lang() string            { return "go" }
func (GoProvider) Aliases() []string       { return []string{"golang"} }
func (GoProvider) Extensions() []string    { return []string{".go"} }
func (GoProvider) Filenames() []string     { return nil }
func (GoProvider) Shebangs() []string      { return nil }
func (GoProvider) SitterLanguage() *sitter.Language { return golang.GetLanguage() }

func (GoProvider) ContainerNodeTypes() []string {
	return []string{"function_declaration", "method_declaration", "type_declaration"}
}

func (GoProvider) ContainerCategory(nodeType string) string {
	switch nodeType {
	case "function_declaration", "method_declaration":
		return "functions"
	case "type_declaration":
		return "types"
	default:
		return "other"
	}
}

func (GoProvider) DecisionNodeTypes() []string {
	return []string{
		"if_statement", "for_statement", "expression_switch_statement",
		"type_switch_statement", "select_statement", "communication_case",
		"expression_case", "default_case", "binary_expression",
	}
}

// Go's grammar flattens "else if" into sibling if_statement nodes inside
// the else clause, so no compound-pair suppression is needed.
func (GoProvider) CompoundPairs() [][2]string { return nil }

func (GoProvider) ImportNodeTypes() []string { return []string{"import_spec"} }

func (GoProvider) ImportPath(node *sitter.Node, source []byte) string {
	lit := firstChildOfType(node, "interpreted_string_literal", "raw_string_literal")
	if lit == nil {
		return ""
	}
	return trimQuotes(lit.Content(source))
}

func (GoProvider) NodeName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "identifier" || c.Type() == "field_identifier" || c.Type() == "type_identifier" {
			return c.Content(source)
		}
	}
	return ""
}
