package ddl

// ColumnDef is one column of a table definition. Name is unquoted; quoting
// happens when a Dialect renders the statement.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds a dotted table name (e.g. "dbo.accidents") and its ordered
// columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Kind is the logical type of a column, inferred from frame cells and mapped
// to a SQL type by each Dialect.
type Kind string

const (
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindDate      Kind = "date"
	KindTimestamp Kind = "timestamp"
	KindText      Kind = "text"
)
