// Package adapter defines the contract every resource adapter implements
// (§4.3): four operations — get_structure, get_element, get_help,
// get_schema — plus the element-namespace/resource-as-target
// classification used by the Dispatcher to decide how a URI's element
// suffix should be interpreted.
package adapter

import (
	"context"

	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Kind classifies how an adapter's element suffix is interpreted.
type Kind int

const (
	// ResourceAsTarget adapters (file, git, json, ...) treat the element
	// suffix as addressing into the Structure produced from Resource:
	// scheme://resource/element.
	ResourceAsTarget Kind = iota
	// ElementNamespace adapters (help, env) treat Resource itself as one
	// step of a flat namespace and Element as a further descent into it,
	// with no backing "whole resource" document to parse first.
	ElementNamespace
)

// Adapter is the interface every scheme implementation provides.
type Adapter interface {
	// Scheme returns the URI scheme this adapter answers for, e.g. "file".
	Scheme() string

	// Kind classifies element-suffix interpretation for the Dispatcher.
	Kind() Kind

	// GetStructure returns the progressive-disclosure overview for u.
	// q carries the already-parsed universal query layer (filters, sort,
	// limit, select) for adapters whose categories can be filtered.
	GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error)

	// GetElement resolves a single addressed element to full detail. Most
	// adapters implement this by calling GetStructure and then resolving
	// ref against the result; some (large files, databases) can resolve
	// more directly for efficiency.
	GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error)

	// Help returns the adapter's self-description for the help adapter
	// and for --help-adapter output.
	Help() HelpRecord

	// Schema returns the field/value vocabulary this adapter's elements
	// expose, for schema-aware query validation and help text.
	Schema() Schema
}

// HelpRecord is an adapter's self-description, collected by the help
// adapter (§4.18) into a combined index.
type HelpRecord struct {
	Scheme      string
	Summary     string
	Categories  []string
	Examples    []string
	QueryFields []string
}

// Schema describes the queryable fields an adapter's elements expose, and
// their value domains, for --describe output and query validation.
type Schema struct {
	Fields []FieldSchema
}

// FieldSchema describes one queryable field.
type FieldSchema struct {
	Name        string
	Type        string // "string", "number", "bool"
	Description string
	Enum        []string // non-empty for closed-vocabulary fields
}

// FieldNames extracts the bare field name list for query.Parse's
// knownFields parameter.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
