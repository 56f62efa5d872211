package parserfrontend

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// The three providers below are "registered but ungrammared" per
// §4.5.1: the corpus this project was grounded on carries no tree-sitter
// grammar subpackage for Ruby, Lua, or Swift, so SitterLanguage returns
// nil and parsing falls back to parseHeuristic, which returns an empty
// Structure. Their decision-node and container tables are kept anyway —
// they document the language's actual keyword vocabulary, although no
// code path currently reads them for these providers.

// RubyProvider is registered without a backing grammar.
type RubyProvider struct{}

func (RubyProvider) Lang() string                   { return "ruby" }
func (RubyProvider) Aliases() []string              { return []string{"rb"} }
func (RubyProvider) Extensions() []string           { return []string{".rb"} }
func (RubyProvider) Filenames() []string            { return []string{"Rakefile", "Gemfile"} }
func (RubyProvider) Shebangs() []string             { return []string{"ruby"} }
func (RubyProvider) SitterLanguage() *sitter.Language { return nil }

func (RubyProvider) ContainerNodeTypes() []string { return []string{"method", "class", "module"} }
func (RubyProvider) ContainerCategory(nodeType string) string {
	switch nodeType {
	case "method":
		return "functions"
	case "class", "module":
		return "classes"
	default:
		return "other"
	}
}
func (RubyProvider) DecisionNodeTypes() []string {
	return []string{"if", "unless", "while", "until", "for", "case", "rescue", "elsif", "and", "or"}
}
func (RubyProvider) CompoundPairs() [][2]string        { return nil }
func (RubyProvider) NodeName(n *sitter.Node, s []byte) string { return "" }

// LuaProvider is registered without a backing grammar.
type LuaProvider struct{}

func (LuaProvider) Lang() string                   { return "lua" }
func (LuaProvider) Aliases() []string              { return nil }
func (LuaProvider) Extensions() []string           { return []string{".lua"} }
func (LuaProvider) Filenames() []string            { return nil }
func (LuaProvider) Shebangs() []string             { return []string{"lua"} }
func (LuaProvider) SitterLanguage() *sitter.Language { return nil }

func (LuaProvider) ContainerNodeTypes() []string { return []string{"function_declaration"} }
func (LuaProvider) ContainerCategory(nodeType string) string {
	return "functions"
}
func (LuaProvider) DecisionNodeTypes() []string {
	return []string{"if_statement", "while_statement", "for_statement", "repeat_statement", "elseif"}
}
func (LuaProvider) CompoundPairs() [][2]string        { return nil }
func (LuaProvider) NodeName(n *sitter.Node, s []byte) string { return "" }

// SwiftProvider is registered without a backing grammar.
type SwiftProvider struct{}

func (SwiftProvider) Lang() string                   { return "swift" }
func (SwiftProvider) Aliases() []string              { return nil }
func (SwiftProvider) Extensions() []string           { return []string{".swift"} }
func (SwiftProvider) Filenames() []string            { return nil }
func (SwiftProvider) Shebangs() []string             { return nil }
func (SwiftProvider) SitterLanguage() *sitter.Language { return nil }

func (SwiftProvider) ContainerNodeTypes() []string {
	return []string{"function_declaration", "class_declaration", "protocol_declaration"}
}
func (SwiftProvider) ContainerCategory(nodeType string) string {
	switch nodeType {
	case "function_declaration":
		return "functions"
	default:
		return "types"
	}
}
func (SwiftProvider) DecisionNodeTypes() []string {
	return []string{"if_statement", "guard_statement", "for_statement", "while_statement", "switch_statement", "catch_clause"}
}

// Swift, like Python, nests "else if" as a new if_statement under the
// previous statement's else branch — the same compound shape applies
// if a grammar is ever wired in.
func (SwiftProvider) CompoundPairs() [][2]string {
	return [][2]string{{"else", "if_statement"}}
}
func (SwiftProvider) NodeName(n *sitter.Node, s []byte) string { return "" }
