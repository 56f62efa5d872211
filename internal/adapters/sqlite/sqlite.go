// Package sqlite implements the sqlite scheme adapter: table/column/row
// introspection of a SQLite database file via GORM, grounded on the
// teacher's db.Connect pattern (gorm.Open + a pure-Go driver) but reading
// schema through the migrator rather than running fixed migrations
// against a fixed model set.
package sqlite

import (
	"context"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/dbintrospect"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// Adapter implements adapter.Adapter for the "sqlite" scheme. Resource is
// a filesystem path to a .sqlite/.db file.
type Adapter struct {
	sampleLimit int
}

func New(sampleLimit int) *Adapter {
	if sampleLimit <= 0 {
		sampleLimit = 20
	}
	return &Adapter{sampleLimit: sampleLimit}
}

func (a *Adapter) Scheme() string     { return "sqlite" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (a *Adapter) open(u *uri.URI) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(u.Resource), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot open sqlite database "+u.Resource, err)
	}
	return db, nil
}

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	db, err := a.open(u)
	if err != nil {
		return nil, err
	}
	names, err := dbintrospect.Tables(db)
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot list tables", err)
	}

	s := contract.NewStructure("sqlite_database", u.Raw, contract.SourceDatabase)
	for i, name := range names {
		tbl, err := dbintrospect.Describe(db, name)
		if err != nil {
			s.AddWarning("TableUnavailable", err.Error())
			continue
		}
		s.AddCategory("tables", tableElement(tbl, i+1))
	}
	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func tableElement(tbl *dbintrospect.Table, ordinal int) *contract.Element {
	children := make([]*contract.Element, 0, len(tbl.Columns))
	for j, col := range tbl.Columns {
		children = append(children, &contract.Element{
			Name:     col.Name,
			Category: "columns",
			Ordinal:  j + 1,
			Attributes: map[string]any{
				"type":        col.Type,
				"nullable":    col.Nullable,
				"primary_key": col.PrimaryKey,
			},
		})
	}
	return &contract.Element{
		Name:     tbl.Name,
		Category: "tables",
		Ordinal:  ordinal,
		Children: children,
		Attributes: map[string]any{
			"row_count":    float64(tbl.RowCount),
			"column_count": float64(len(tbl.Columns)),
		},
	}
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	el, err := adapter.ResolveElement(s, u.Raw, ref)
	if err != nil {
		return nil, err
	}
	if el.Category == "tables" {
		db, err := a.open(u)
		if err == nil {
			if rows, err := dbintrospect.SampleRows(db, el.Name, a.sampleLimit); err == nil {
				el.Attributes["sample_rows"] = rows
			}
		}
	}
	return el, nil
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:      "sqlite",
		Summary:     "Table/column/row introspection of a SQLite database file",
		Categories:  []string{"tables", "columns"},
		Examples:    []string{"sqlite:///path/to/app.db", "sqlite:///path/to/app.db/users"},
		QueryFields: nil,
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "row_count", Type: "number"},
		{Name: "column_count", Type: "number"},
	}}
}
