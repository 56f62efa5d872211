// Package dbintrospect holds the GORM-backed introspection queries
// shared by the sqlite and mysql adapters: table listing, column
// metadata, row counts, and capped sample rows. Grounded on the
// teacher's db package, which opens a *gorm.DB once and hands it to
// callers rather than wrapping every query behind a bespoke repository
// type — introspection here does the same, reading through GORM's own
// migrator and query builder instead of hand-rolled SQL.
package dbintrospect

import (
	"fmt"

	"gorm.io/gorm"
)

// Table is one table's shape: its columns and row count, without the
// row data itself (that's a separate, capped fetch for the element
// detail level of progressive disclosure).
type Table struct {
	Name     string
	RowCount int64
	Columns  []Column
}

type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// Tables lists every table GORM's migrator can see.
func Tables(db *gorm.DB) ([]string, error) {
	return db.Migrator().GetTables()
}

// Describe builds a Table for name: its columns (via ColumnTypes) and
// its row count (via a plain COUNT(*) through the query builder).
func Describe(db *gorm.DB, name string) (*Table, error) {
	colTypes, err := db.Migrator().ColumnTypes(name)
	if err != nil {
		return nil, fmt.Errorf("dbintrospect: columns for %s: %w", name, err)
	}
	cols := make([]Column, 0, len(colTypes))
	for _, ct := range colTypes {
		nullable, _ := ct.Nullable()
		pk, _ := ct.PrimaryKey()
		cols = append(cols, Column{
			Name:       ct.Name(),
			Type:       ct.DatabaseTypeName(),
			Nullable:   nullable,
			PrimaryKey: pk,
		})
	}

	var count int64
	if err := db.Table(name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("dbintrospect: row count for %s: %w", name, err)
	}

	return &Table{Name: name, RowCount: count, Columns: cols}, nil
}

// SampleRows fetches up to limit rows from table, each as a column-name
// to value map, for the element-detail level only — the overview never
// pulls row data.
func SampleRows(db *gorm.DB, table string, limit int) ([]map[string]any, error) {
	var rows []map[string]any
	if err := db.Table(table).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("dbintrospect: sample rows for %s: %w", table, err)
	}
	return rows, nil
}
