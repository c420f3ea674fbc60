/*
Package storage provides BoltDB-backed state persistence for Steward's
cluster data.

The storage package implements the Store interface using BoltDB as the
underlying database, providing ACID transactions for control-plane state:
registered clusters, versioned configurations, persisted artifacts, and
logical table schemas. All data is serialized as JSON and stored in separate
buckets.

# Bucket Structure

	clusters       cluster name                 -> Cluster
	clusterconfig  cluster/type/tag             -> Config (one record per version)
	artifacts      name/fk1=v1/fk2=v2           -> Artifact
	schema         table name                   -> TableSchema

Configuration versions are immutable records; the pointer to the active
("desired") version of each type lives on the cluster record. Writing a new
version never deletes an old one.

# Schema Records

Logical table layouts are stored as TableSchema documents in the schema
bucket. AddColumn reads the current layout, appends the column when absent,
and is a no-op when the column is already present, so upgrade steps that add
columns can be re-run after a partial failure.

# Usage

	store, err := storage.NewBoltStore("/var/lib/steward")
	if err != nil {
		return err
	}
	defer store.Close()

	clusters, err := store.ListClusters()

Absence is signaled with the ErrNotFound sentinel:

	cfg, err := store.GetConfig("prod", "cluster-env", tag)
	if errors.Is(err, storage.ErrNotFound) {
		// nothing to do
	}

# Transaction Management

  - Read: db.View() - concurrent reads
  - Write: db.Update() - serialized writes, fsync on commit

# Integration Points

  - pkg/state: Clusters registry and ConfigHelper are built over Store
  - pkg/upgrade: Schema steps call AddColumn; artifact steps call
    ListArtifactsByName and MergeArtifact
  - cmd/steward-upgrade: Opens the store for an upgrade run
*/
package storage
