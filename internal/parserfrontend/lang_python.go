package parserfrontend

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonProvider is the tree-sitter integration for Python source.
type PythonProvider struct{}

func (PythonProvider) Lang() string            { return "python" }
func (PythonProvider) Aliases() []string       { return []string{"py", "python3"} }
func (PythonProvider) Extensions() []string    { return []string{".py", ".pyi"} }
func (PythonProvider) Filenames() []string     { return nil }
func (PythonProvider) Shebangs() []string      { return []string{"python", "python3"} }
func (PythonProvider) SitterLanguage() *sitter.Language { return python.GetLanguage() }

func (PythonProvider) ContainerNodeTypes() []string {
	return []string{"function_definition", "class_definition"}
}

func (PythonProvider) ContainerCategory(nodeType string) string {
	switch nodeType {
	case "function_definition":
		return "functions"
	case "class_definition":
		return "classes"
	default:
		return "other"
	}
}

func (PythonProvider) DecisionNodeTypes() []string {
	return []string{
		"if_statement", "for_statement", "while_statement", "except_clause",
		"with_statement", "boolean_operator", "conditional_expression",
		"elif_clause",
	}
}

// Python's grammar represents each "elif" as an "elif_clause" node, a
// distinct sibling inside the if_statement, so each is already counted
// once without nesting; but a grammar revision
// that instead nests bare if_statement under else_clause would double
// count — guarded here defensively by skipping that specific shape.
func (PythonProvider) CompoundPairs() [][2]string {
	return [][2]string{{"else_clause", "if_statement"}}
}

func (PythonProvider) ImportNodeTypes() []string {
	return []string{"import_statement", "import_from_statement"}
}

func (PythonProvider) ImportPath(node *sitter.Node, source []byte) string {
	mod := firstChildOfType(node, "dotted_name", "relative_import", "aliased_import")
	if mod == nil {
		return ""
	}
	if mod.Type() == "aliased_import" {
		mod = firstChildOfType(mod, "dotted_name")
		if mod == nil {
			return ""
		}
	}
	return mod.Content(source)
}

func (PythonProvider) NodeName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "identifier" {
			return c.Content(source)
		}
	}
	return ""
}
