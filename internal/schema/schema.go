// Package schema implements the Schema Validator (§4.14): validation of
// document front matter (or any other keyed record) against a named
// schema of required/optional fields, field types, and custom safe-
// expression rules.
package schema

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/termfx/reveal/internal/rules"
)

// FieldType enumerates the value types a schema field may declare.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeList    FieldType = "list"
	TypeMapping FieldType = "mapping"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
)

// Field describes one schema field.
type Field struct {
	Name     string    `yaml:"name"`
	Type     FieldType `yaml:"type"`
	Required bool      `yaml:"required"`
}

// Schema is a named record shape: required/optional fields plus a list
// of custom safe-expression rules every record must satisfy.
type Schema struct {
	Name   string   `yaml:"name"`
	Fields []Field  `yaml:"fields"`
	Rules  []string `yaml:"rules"`
}

// LoadFile reads a user-authored YAML schema definition from path.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}
	return &s, nil
}

// Validate checks record (typically a document's front matter, decoded
// into a string-keyed map) against s, returning one Finding per missing
// required field (F003, error), per required field whose value does not
// match its declared type (F003, warning), or per failed custom rule
// (F005). line is stamped
// on every Finding as the front-matter/record's starting line.
func Validate(s *Schema, record map[string]any, line int) []rules.Finding {
	var findings []rules.Finding

	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		v, present := record[f.Name]
		if !present || isEmptyValue(v) {
			findings = append(findings, rules.Finding{
				Code:     "F003",
				Severity: rules.SeverityError,
				Message:  "missing required field " + f.Name + " for schema " + s.Name,
				Line:     line,
			})
			continue
		}
		if !matchesType(v, f.Type) {
			findings = append(findings, rules.Finding{
				Code:     "F003",
				Severity: rules.SeverityWarning,
				Message:  fmt.Sprintf("field %s does not match declared type %s", f.Name, f.Type),
				Line:     line,
			})
		}
	}

	for _, expr := range s.Rules {
		ok, err := Eval(expr, record)
		if err != nil || !ok {
			msg := "custom rule failed: " + expr
			if err != nil {
				msg = "custom rule errored: " + expr + ": " + err.Error()
			}
			findings = append(findings, rules.Finding{
				Code:     "F005",
				Severity: rules.SeverityError,
				Message:  msg,
				Line:     line,
			})
		}
	}

	return findings
}

func isEmptyValue(v any) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return tv == ""
	case []any:
		return len(tv) == 0
	}
	return false
}

func matchesType(v any, t FieldType) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeList:
		_, ok := v.([]any)
		return ok
	case TypeMapping:
		_, ok := v.(map[string]any)
		return ok
	case TypeInteger:
		switch v.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeDate:
		s, ok := v.(string)
		if !ok {
			return false
		}
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	default:
		return true
	}
}
