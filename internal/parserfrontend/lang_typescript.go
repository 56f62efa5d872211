package parserfrontend

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptProvider is the tree-sitter integration for TypeScript source
// (not TSX — JSX-flavored TypeScript resolves via its own extension to
// the same grammar package's tsx variant in a fuller build; omitted here
// since no example repo exercised it).
type TypeScriptProvider struct{}

func (TypeScriptProvider) Lang() string         { return "typescript" }
func (TypeScriptProvider) Aliases() []string    { return []string{"ts"} }
func (TypeScriptProvider) Extensions() []string { return []string{".ts"} }
func (TypeScriptProvider) Filenames() []string  { return nil }
func (TypeScriptProvider) Shebangs() []string   { return []string{"ts-node"} }
func (TypeScriptProvider) SitterLanguage() *sitter.Language { return typescript.GetLanguage() }

func (TypeScriptProvider) ContainerNodeTypes() []string {
	return []string{"function_declaration", "method_definition", "class_declaration", "interface_declaration"}
}

func (TypeScriptProvider) ContainerCategory(nodeType string) string {
	switch nodeType {
	case "function_declaration", "method_definition":
		return "functions"
	case "class_declaration":
		return "classes"
	case "interface_declaration":
		return "interfaces"
	default:
		return "other"
	}
}

func (TypeScriptProvider) DecisionNodeTypes() []string {
	return []string{
		"if_statement", "for_statement", "for_in_statement", "while_statement",
		"do_statement", "switch_case", "catch_clause", "ternary_expression",
		"binary_expression",
	}
}

func (TypeScriptProvider) CompoundPairs() [][2]string { return nil }

func (TypeScriptProvider) ImportNodeTypes() []string {
	return []string{"import_statement", "call_expression"}
}

func (TypeScriptProvider) ImportPath(node *sitter.Node, source []byte) string {
	if node.Type() == "import_statement" {
		lit := firstChildOfType(node, "string")
		if lit == nil {
			return ""
		}
		return trimQuotes(lit.Content(source))
	}
	callee := node.Child(0)
	if callee == nil || callee.Type() != "identifier" || callee.Content(source) != "require" {
		return ""
	}
	args := firstChildOfType(node, "arguments")
	if args == nil {
		return ""
	}
	lit := firstChildOfType(args, "string")
	if lit == nil {
		return ""
	}
	return trimQuotes(lit.Content(source))
}

func (TypeScriptProvider) NodeName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "identifier" || c.Type() == "property_identifier" || c.Type() == "type_identifier" {
			return c.Content(source)
		}
	}
	return ""
}
