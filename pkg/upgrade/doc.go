/*
Package upgrade implements Steward's versioned upgrade catalogs.

A catalog is a one-time upgrade step between two adjacent releases. It
migrates persisted schema and configuration state so that a control plane
carrying state written by its source release can run the target release.
Catalogs are sequenced by the Executor: given a source and target version,
every catalog whose target version falls inside the range runs, in version
order, schema phase before data phases.

	deps := upgrade.Dependencies{
		Store:    store,
		Clusters: state.NewClusters(store),
		Configs:  state.NewConfigHelper(store, stacks),
		Stacks:   stacks,
	}
	executor := upgrade.NewExecutor(deps)
	if err := executor.Run("2.5.1", "2.5.2"); err != nil {
		...
	}

# Execution Model

Catalogs run single-threaded and synchronously; the driver guarantees a
catalog runs to completion (or aborts the whole upgrade) before the next
one starts. There are no retries and no partial-completion tracking.
Instead, every step checks current state before mutating, so a failed and
re-run upgrade converges to the same end state:

  - Schema changes are guarded by an existence check (re-adding a column
    is a no-op)
  - Configuration updates that leave values unchanged are not persisted
  - Artifact rewrites happen only when a mutation actually removed data

# Error Handling

Absence is never an error: a cluster missing a configuration type, a
property missing from a map, a stack without a definition, or a descriptor
missing a service node all mean "nothing to do" for that item. Real faults
(store access failures, schema failures, unparseable principals) propagate
immediately and abort the run.

# Catalogs

  - Catalog252 (2.5.1 -> 2.5.2): adds the service_deleted column to the
    clusterconfig table, seeds newly introduced stack properties, resets
    stack_tools/stack_features/stack_root in cluster-env to stack
    defaults, removes obsolete livy.superusers specifications from stored
    Kerberos descriptors, and repairs the livy.superusers lists in
    livy-conf and livy2-conf
*/
package upgrade
