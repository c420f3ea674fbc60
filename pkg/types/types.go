package types

import (
	"time"
)

// Cluster represents a managed cluster registered with the control plane
type Cluster struct {
	Name         string
	StackName    string
	StackVersion string
	// DesiredConfigs maps a configuration type (e.g. "cluster-env") to the
	// tag of the currently active version of that configuration.
	DesiredConfigs map[string]string
	CreatedAt      time.Time
}

// Stack returns the stack identifier in "name-version" form
func (c *Cluster) Stack() string {
	return c.StackName + "-" + c.StackVersion
}

// Config is a single version of a typed configuration attached to a cluster.
// Configurations are never edited in place: changing properties mints a new
// version with a fresh tag, and the old version is retained as history.
type Config struct {
	ClusterName string
	Type        string
	Tag         string
	Version     int64
	Properties  map[string]string
	CreatedAt   time.Time
}

// ColumnType identifies the storage type of a table column
type ColumnType string

const (
	ColumnTypeString   ColumnType = "string"
	ColumnTypeInteger  ColumnType = "integer"
	ColumnTypeSmallInt ColumnType = "smallint"
	ColumnTypeBoolean  ColumnType = "boolean"
	ColumnTypeBlob     ColumnType = "blob"
)

// ColumnInfo describes a single column of a persisted table
type ColumnInfo struct {
	Name         string
	Type         ColumnType
	Length       int // 0 = unbounded
	DefaultValue interface{}
	Nullable     bool
}

// TableSchema is the persisted column layout of a logical table
type TableSchema struct {
	Name    string
	Columns []ColumnInfo
}

// HasColumn reports whether the schema already contains the named column
func (t *TableSchema) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// Artifact is a persisted opaque blob owned by a cluster or the whole
// installation, addressed by name plus foreign keys. Kerberos descriptors
// are stored as artifacts named "kerberos_descriptor".
type Artifact struct {
	Name        string
	ForeignKeys map[string]string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// StackPropertyInfo is a property whose authoritative default value comes
// from the installed stack definition rather than from user overrides.
type StackPropertyInfo struct {
	Name     string
	Value    string
	Filename string
}
