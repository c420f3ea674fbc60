/*
Package state exposes the control plane's cluster and configuration model
over the storage layer.

Two collaborators live here:

  - Clusters: the registry of managed clusters, returning a name-to-cluster
    mapping (possibly empty) for per-cluster iteration
  - ConfigHelper: desired-configuration reads, stack property access, and
    versioned property writes

Both are plain structs taking their dependencies explicitly; there is no
process-wide singleton state.

# Configuration Versioning

Configurations are versioned per cluster and type. UpdateProperties either
mints a new version (the default, retaining the old version as history and
moving the cluster's desired pointer) or overwrites the matched desired
version in place, and either merges the given properties over the current
values or replaces the map wholesale. The four combinations are selected by
the caller per call site. An update that does not change the effective
property values is skipped entirely, which keeps repeated upgrade runs from
piling up identical versions.

# Absence Semantics

GetDesiredConfigByType returns a nil configuration, not an error, when the
cluster has no configuration of the requested type. GetStackProperties
returns a nil slice when the cluster's stack has no definition on disk.
Upgrade logic is built on these "absent means skip" contracts.

# Usage

	clusters := state.NewClusters(store)
	helper := state.NewConfigHelper(store, stackLibrary)

	byName, err := clusters.GetClusters()
	for _, cluster := range byName {
		env, err := helper.GetDesiredConfigByType(cluster, "cluster-env")
		if env == nil {
			continue
		}
		...
	}
*/
package state
