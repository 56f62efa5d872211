package schema

// Builtin returns an in-tree schema by name, for the common front-
// matter shapes used without a user-supplied schema file.
func Builtin(name string) (*Schema, bool) {
	s, ok := builtins[name]
	return s, ok
}

var builtins = map[string]*Schema{
	"hugo": {
		Name: "hugo",
		Fields: []Field{
			{Name: "title", Type: TypeString, Required: true},
			{Name: "date", Type: TypeDate, Required: true},
			{Name: "draft", Type: TypeBoolean, Required: false},
			{Name: "tags", Type: TypeList, Required: false},
		},
		Rules: []string{`length(title) > 0 & length(title) < 100`},
	},
	"jekyll": {
		Name: "jekyll",
		Fields: []Field{
			{Name: "layout", Type: TypeString, Required: true},
			{Name: "title", Type: TypeString, Required: true},
		},
	},
	"docusaurus": {
		Name: "docusaurus",
		Fields: []Field{
			{Name: "id", Type: TypeString, Required: true},
			{Name: "title", Type: TypeString, Required: true},
			{Name: "sidebar_position", Type: TypeInteger, Required: false},
		},
	},
}
