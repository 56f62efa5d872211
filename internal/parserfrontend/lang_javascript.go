package parserfrontend

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// JavaScriptProvider is the tree-sitter integration for JavaScript source.
type JavaScriptProvider struct{}

func (JavaScriptProvider) Lang() string         { return "javascript" }
func (JavaScriptProvider) Aliases() []string    { return []string{"js", "node", "nodejs"} }
func (JavaScriptProvider) Extensions() []string { return []string{".js", ".mjs", ".cjs", ".jsx"} }
func (JavaScriptProvider) Filenames() []string  { return nil }
func (JavaScriptProvider) Shebangs() []string   { return []string{"node"} }
func (JavaScriptProvider) SitterLanguage() *sitter.Language { return javascript.GetLanguage() }

func (JavaScriptProvider) ContainerNodeTypes() []string {
	return []string{"function_declaration", "method_definition", "class_declaration", "arrow_function"}
}

func (JavaScriptProvider) ContainerCategory(nodeType string) string {
	switch nodeType {
	case "function_declaration", "method_definition", "arrow_function":
		return "functions"
	case "class_declaration":
		return "classes"
	default:
		return "other"
	}
}

func (JavaScriptProvider) DecisionNodeTypes() []string {
	return []string{
		"if_statement", "for_statement", "for_in_statement", "while_statement",
		"do_statement", "switch_case", "catch_clause", "ternary_expression",
		"binary_expression",
	}
}

func (JavaScriptProvider) CompoundPairs() [][2]string { return nil }

func (JavaScriptProvider) ImportNodeTypes() []string {
	return []string{"import_statement", "call_expression"}
}

// ImportPath handles both ES module "import ... from '...'" statements
// and CommonJS "require('...')" calls, since both are common in the
// same codebase and the grammar represents them as different node
// shapes entirely.
func (JavaScriptProvider) ImportPath(node *sitter.Node, source []byte) string {
	if node.Type() == "import_statement" {
		lit := firstChildOfType(node, "string")
		if lit == nil {
			return ""
		}
		return trimQuotes(lit.Content(source))
	}
	// call_expression: only treat it as an import when its callee is the
	// bare identifier "require".
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

func (JavaScriptProvider) NodeName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "identifier" || c.Type() == "property_identifier" {
			return c.Content(source)
		}
	}
	return ""
}
