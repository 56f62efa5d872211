package json

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/termfx/reveal/internal/uri"
)

func TestGetStructureExposesTopLevelFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"database": {"host": "localhost", "port": 5432}, "debug": true}`), 0o644)

	a := New()
	u, err := uri.Parse("json://" + path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	fields := s.Categories["fields"]
	if len(fields) != 2 {
		t.Fatalf("expected 2 top-level fields, got %+v", fields)
	}
}

func TestGetElementResolvesNestedDottedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"database": {"host": "localhost", "port": 5432}}`), 0o644)

	a := New()
	u, err := uri.Parse("json://" + path)
	if err != nil {
		t.Fatal(err)
	}
	el, err := a.GetElement(context.Background(), u, uri.ParseElementRef("database.host"))
	if err != nil {
		t.Fatal(err)
	}
	if el.Attributes["value"] != "localhost" {
		t.Fatalf("expected value=localhost, got %+v", el.Attributes)
	}
}

func TestJSONLOneRecordPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	os.WriteFile(path, []byte("{\"a\":1}\n{\"a\":2}\n"), 0o644)

	a := New()
	u, err := uri.Parse("json://" + path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	records := s.Categories["records"]
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %+v", records)
	}
}
