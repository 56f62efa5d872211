package schema

import "testing"

func TestValidateFlagsMissingRequiredField(t *testing.T) {
	s, ok := Builtin("hugo")
	if !ok {
		t.Fatal("expected hugo builtin schema")
	}
	record := map[string]any{"date": "2024-01-01"}
	findings := Validate(s, record, 1)

	found := false
	for _, f := range findings {
		if f.Code == "F003" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected F003 for missing title, got %+v", findings)
	}
}

func TestValidatePassesCompleteRecord(t *testing.T) {
	s, ok := Builtin("hugo")
	if !ok {
		t.Fatal("expected hugo builtin schema")
	}
	record := map[string]any{"title": "Hello World", "date": "2024-01-01"}
	findings := Validate(s, record, 1)
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestEvalSupportsLengthAndBooleanCombinators(t *testing.T) {
	record := map[string]any{"title": "short"}
	ok, err := Eval(`length(title) > 0 & length(title) < 100`, record)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected expression to evaluate true")
	}
}

func TestEvalAnyQuantifier(t *testing.T) {
	record := map[string]any{"tags": []any{"go", "cli"}}
	ok, err := Eval(`any(tags, "go")`, record)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected any(tags, \"go\") to match")
	}
}
