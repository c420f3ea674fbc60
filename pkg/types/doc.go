/*
Package types defines the core data structures used throughout Steward.

This package contains the fundamental types that represent Steward's domain
model: managed clusters, versioned configurations, persisted artifacts, table
schemas, and stack property metadata. These types are used by all other
packages for state management and upgrade logic.

# Core Types

Cluster State:
  - Cluster: A managed cluster with its installed stack and the set of
    desired (currently active) configuration versions
  - Config: One immutable version of a typed configuration; updates mint a
    new version and retain the old one as history

Schema:
  - TableSchema: Persisted column layout of a logical table
  - ColumnInfo: Name, type, length, default, and nullability of one column
  - ColumnType: Typed string constants for supported column types

Artifacts:
  - Artifact: Opaque persisted blob addressed by name plus foreign keys;
    Kerberos descriptors are stored as artifacts

Stack Metadata:
  - StackPropertyInfo: A property whose authoritative value comes from the
    installed stack definition, with the file it originated from

# Usage

Reading the desired configuration tag for a cluster:

	cluster := &types.Cluster{
		Name:         "prod",
		StackName:    "HDP",
		StackVersion: "2.6",
		DesiredConfigs: map[string]string{
			"cluster-env": "version1",
		},
	}
	tag := cluster.DesiredConfigs["cluster-env"]

Declaring a column for a schema change:

	col := types.ColumnInfo{
		Name:         "service_deleted",
		Type:         types.ColumnTypeSmallInt,
		DefaultValue: 0,
		Nullable:     true,
	}

# Design Patterns

Enumeration Pattern:

	Enums use typed string constants:
	  type ColumnType string
	  const ColumnTypeSmallInt ColumnType = "smallint"

Immutability:

	Config versions are never edited in place. A property change produces a
	new Config with a fresh tag; the cluster's DesiredConfigs pointer moves
	and the previous version stays on disk for history and rollback review.

# Integration Points

This package integrates with:

  - pkg/storage: Persists all types to BoltDB as JSON
  - pkg/state: Exposes registry and configuration helpers over these types
  - pkg/upgrade: Mutates configurations and artifacts during upgrades
  - pkg/stack: Produces StackPropertyInfo from stack definition files
*/
package types
