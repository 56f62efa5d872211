// Package contract defines the Output Contract: the stamped result shape
// every adapter returns, and the Element records that fill it.
package contract

// ContractVersion is the wire-level version stamped on every Structure.
// The contract is semver-compatible: additive fields only within a major.
const ContractVersion = "1.0"

// ParseMode describes how much of a resource the owning adapter actually
// understood when it produced a Structure.
type ParseMode string

const (
	ParseModeFull      ParseMode = "full"
	ParseModeFallback  ParseMode = "fallback"
	ParseModeRegex     ParseMode = "regex"
	ParseModeHeuristic ParseMode = "heuristic"
)

// SourceType is the coarse category of the resource a Structure describes.
type SourceType string

const (
	SourceFile      SourceType = "file"
	SourceDirectory SourceType = "directory"
	SourceDatabase  SourceType = "database"
	SourceRemote    SourceType = "remote"
	SourceProcess   SourceType = "process"
	SourceComposite SourceType = "composite"
)

// Note is a single warning or error entry carried on a Structure.
type Note struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// Structure is the standard result payload returned by every adapter's
// get_structure/get_element operations. Category order is preserved in
// rendering; within a category, Elements are in source order unless the
// query layer's sort= directs otherwise.
type Structure struct {
	ContractVersion string     `json:"contract_version"`
	Type            string     `json:"type"`
	Source          string     `json:"source"`
	SourceType      SourceType `json:"source_type"`

	ParseMode  ParseMode `json:"parse_mode,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Warnings   []Note    `json:"warnings,omitempty"`
	Errors     []Note    `json:"errors,omitempty"`

	Truncated      bool   `json:"truncated,omitempty"`
	TotalAvailable *int   `json:"total_available,omitempty"`
	Returned       *int   `json:"returned,omitempty"`
	NextCursor     string `json:"next_cursor,omitempty"`

	// Categories maps a category name (functions, classes, headings, ...)
	// to its ordered Elements. CategoryOrder preserves insertion order
	// since Go maps do not.
	Categories    map[string][]*Element `json:"categories"`
	CategoryOrder []string              `json:"-"`
}

// NewStructure stamps a fresh Structure with the required Output Contract
// fields filled in.
func NewStructure(typ, source string, sourceType SourceType) *Structure {
	return &Structure{
		ContractVersion: ContractVersion,
		Type:            typ,
		Source:          source,
		SourceType:      sourceType,
		Categories:      make(map[string][]*Element),
	}
}

// AddCategory appends Elements to a named category, registering the
// category in CategoryOrder the first time it is seen.
func (s *Structure) AddCategory(name string, elems ...*Element) {
	if _, ok := s.Categories[name]; !ok {
		s.CategoryOrder = append(s.CategoryOrder, name)
	}
	s.Categories[name] = append(s.Categories[name], elems...)
}

// AddWarning appends a warning Note. Used when a partial result is still
// useful (§7: ParseDegraded, ConfigurationConflict, unknown query field).
func (s *Structure) AddWarning(code, message string) {
	s.Warnings = append(s.Warnings, Note{Code: code, Message: message})
}

// AddError appends an error Note without failing the pipeline. Reserved
// for adapter-reported, non-fatal problems (§4.4 failure semantics).
func (s *Structure) AddError(code, message string) {
	s.Errors = append(s.Errors, Note{Code: code, Message: message})
}

// SetConfidence stamps the trust-metadata confidence scalar. The formula
// lives with callers (parserfrontend computes it for source files); this
// setter only enforces the documented [0,1] clamp.
func (s *Structure) SetConfidence(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.Confidence = &v
}

// Count returns the total number of Elements across all categories.
func (s *Structure) Count() int {
	n := 0
	for _, elems := range s.Categories {
		n += len(elems)
	}
	return n
}

// Element is one extractable unit within a Structure. Elements never
// back-reference their owning Structure; the Structure owns them
// exclusively.
type Element struct {
	Name      string `json:"name"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`

	// Category is the name of the category this element belongs to; set by
	// the producing adapter so downstream query/diff code can identify an
	// Element's kind without a side table.
	Category string `json:"category,omitempty"`

	// Signature is the element's declaration signature, when applicable
	// (functions, methods).
	Signature string `json:"signature,omitempty"`

	Decorators []string `json:"decorators,omitempty"`
	Complexity int      `json:"complexity,omitempty"`
	Depth      int      `json:"depth,omitempty"`
	LineCount  int      `json:"line_count,omitempty"`

	// Children supports hierarchical/typed extraction (classes containing
	// methods, headings containing sub-headings).
	Children []*Element `json:"children,omitempty"`

	// Attributes carries category-specific data that does not warrant a
	// dedicated field: frontmatter fields, cell type, column types, etc.
	Attributes map[string]any `json:"attributes,omitempty"`

	// Ordinal is this Element's 1-indexed position within its category in
	// source order, set during extraction so @N addressing (§4.1) and the
	// name/line/ordinal consistency invariant (§8) can be checked cheaply.
	Ordinal int `json:"ordinal,omitempty"`
}

// Contains reports whether line lies within this Element's span.
func (e *Element) Contains(line int) bool {
	return line >= e.LineStart && line <= e.LineEnd
}

// Span returns the number of lines this Element covers.
func (e *Element) Span() int {
	if e.LineEnd < e.LineStart {
		return 0
	}
	return e.LineEnd - e.LineStart + 1
}
