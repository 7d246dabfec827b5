// Package ddl is a small, backend-agnostic model for CREATE TABLE statements.
//
// Backends describe their SQL flavor with a Dialect (identifier quoting, type
// mapping, and the guard that makes creation idempotent). TableFromFrame
// derives a TableDef from the cells of a frame, and Dialect.CreateTable
// renders it.
package ddl

import (
	"fmt"
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// Dialect renders DDL for one SQL flavor.
type Dialect struct {
	// Quote quotes a single identifier segment.
	Quote func(id string) string

	// MapType returns the column type for a logical kind.
	MapType func(k Kind) string

	// Guard wraps a plain CREATE TABLE statement so it is a no-op when the
	// table exists. name is the quoted FQN. Nil means "CREATE TABLE IF NOT
	// EXISTS".
	Guard func(name, create string) string
}

// QuoteFQN quotes each dot-separated segment of fqn.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, d.Quote(p))
		}
	}
	return strings.Join(out, ".")
}

// CreateTable renders an idempotent CREATE TABLE statement for t:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" TYPE [NOT NULL],
//	  ...
//	);
func (d Dialect) CreateTable(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", fqn)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQL type", name)
		}
		def := d.Quote(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	name := d.QuoteFQN(fqn)
	if d.Guard == nil {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", name, strings.Join(cols, ",\n  ")), nil
	}
	return d.Guard(name, fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", name, strings.Join(cols, ",\n  "))), nil
}

// TableFromFrame builds a TableDef named fqn with one nullable column per
// frame column, typed by Infer and d.MapType.
func TableFromFrame(d Dialect, fqn string, f *frame.Frame) (TableDef, error) {
	if f == nil || f.Width() == 0 {
		return TableDef{}, fmt.Errorf("ddl: table %s: frame has no columns", fqn)
	}
	kinds := Infer(f)
	cols := make([]ColumnDef, f.Width())
	for i, name := range f.Columns() {
		cols[i] = ColumnDef{Name: name, SQLType: d.MapType(kinds[i]), Nullable: true}
	}
	return TableDef{FQN: fqn, Columns: cols}, nil
}
