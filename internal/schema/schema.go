// Package schema declares the expected shape of the accident table and
// coerces raw tables to it.
//
// A Schema is a declarative list of columns. Each column carries:
//
//   - a semantic Type (string, float, int, date)
//   - a Nullable flag
//   - a coercion rule: whether to coerce at all, which date layouts to try,
//     and what to substitute when a value cannot be coerced (a Default, or
//     null via NullOnError)
//
// Schemas are plain data and round-trip through JSON, so an operator can
// supply an override file instead of the built-in Accidents schema.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Type is a column's semantic type.
type Type string

const (
	String Type = "string"
	Float  Type = "float"
	Int    Type = "int"
	Date   Type = "date"
)

// ParseType maps database-ish and pandas-ish type names onto Type.
//
//	"text", "str", "object"         → String
//	"float", "float64", "double"    → Float
//	"int", "bigint", "int64"        → Int
//	"date", "datetime", "timestamp" → Date
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "str", "text", "object", "":
		return String, nil
	case "float", "float64", "double", "real", "numeric":
		return Float, nil
	case "int", "int64", "integer", "bigint":
		return Int, nil
	case "date", "datetime", "datetime64", "timestamp":
		return Date, nil
	}
	return "", fmt.Errorf("schema: unknown type %q", s)
}

// UnmarshalJSON accepts any alias understood by ParseType.
func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Column declares one expected column.
type Column struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`

	// Layouts overrides the date layouts tried for Date columns.
	Layouts []string `json:"layouts,omitempty"`

	// Default substitutes for nulls and for values that fail coercion.
	Default any `json:"default,omitempty"`

	// NullOnError replaces uncoercible values with null instead of failing.
	NullOnError bool `json:"null_on_error,omitempty"`
}

// Schema is an ordered set of column declarations.
type Schema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`

	// Coerce converts values to their declared types. When false, Validate
	// only checks presence and nullability.
	Coerce bool `json:"coerce"`
}

// Column returns the declaration for name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the declared column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// Renamed returns a copy of s with pattern replaced by replacement in every
// column name, mirroring the column normalizer.
func (s Schema) Renamed(pattern, replacement string) Schema {
	out := Schema{Name: s.Name, Coerce: s.Coerce, Columns: make([]Column, len(s.Columns))}
	copy(out.Columns, s.Columns)
	for i := range out.Columns {
		out.Columns[i].Name = strings.ReplaceAll(out.Columns[i].Name, pattern, replacement)
	}
	return out
}

// With returns a copy of s with extra columns appended.
func (s Schema) With(cols ...Column) Schema {
	out := Schema{Name: s.Name, Coerce: s.Coerce, Columns: make([]Column, 0, len(s.Columns)+len(cols))}
	out.Columns = append(out.Columns, s.Columns...)
	out.Columns = append(out.Columns, cols...)
	return out
}

// Load decodes a JSON schema and checks it for duplicate or empty names.
func Load(r io.Reader) (Schema, error) {
	var s Schema
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Schema{}, fmt.Errorf("schema: decode: %w", err)
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for i, c := range s.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return Schema{}, fmt.Errorf("schema: columns[%d]: empty name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return Schema{}, fmt.Errorf("schema: columns[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Type == "" {
			s.Columns[i].Type = String
		}
	}
	return s, nil
}
