package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	glebarez "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/termfx/reveal/internal/uri"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(glebarez.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)").Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Exec("INSERT INTO users (id, name) VALUES (1, 'ada')").Error; err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetStructureListsTablesAndColumns(t *testing.T) {
	path := newTestDB(t)
	a := New(20)
	u, err := uri.Parse("sqlite://" + path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.GetStructure(context.Background(), u, nil)
	if err != nil {
		t.Fatal(err)
	}
	tables := s.Categories["tables"]
	if len(tables) != 1 || tables[0].Name != "users" {
		t.Fatalf("expected one users table, got %+v", tables)
	}
	if len(tables[0].Children) != 2 {
		t.Fatalf("expected 2 columns, got %+v", tables[0].Children)
	}
}

func TestGetElementAttachesSampleRows(t *testing.T) {
	path := newTestDB(t)
	a := New(20)
	u, err := uri.Parse("sqlite://" + path)
	if err != nil {
		t.Fatal(err)
	}
	el, err := a.GetElement(context.Background(), u, uri.ParseElementRef("users"))
	if err != nil {
		t.Fatal(err)
	}
	rows, ok := el.Attributes["sample_rows"].([]map[string]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one sample row, got %+v", el.Attributes["sample_rows"])
	}
}
