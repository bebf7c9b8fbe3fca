// Package output renders CLI results as a table, JSON or YAML.
//
// Tables are built from a *Table, a struct (one FIELD/VALUE row per
// field), a slice of structs (one row per element) or a map. Field names
// come from the json tag; `table:"-"` hides a field from tables only.
package output
