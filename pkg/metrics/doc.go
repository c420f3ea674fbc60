/*
Package metrics provides Prometheus instrumentation for upgrade runs.

Collectors are package-level variables registered at init time, following
the standard client_golang pattern. The upgrade executor records catalog
outcomes and durations; individual catalog steps record the mutations they
actually perform (schema changes, configuration versions written, Kerberos
descriptor artifacts rewritten) and the clusters they skipped.

# Exposed Metrics

	steward_upgrade_catalogs_run_total{target_version,result}
	steward_upgrade_catalog_duration_seconds{target_version}
	steward_upgrade_schema_changes_total
	steward_upgrade_config_versions_total{config_type}
	steward_upgrade_kerberos_descriptors_updated_total
	steward_upgrade_clusters_skipped_total{reason}

Handler returns the promhttp handler for exposing them; the upgrade CLI is
a one-shot process, so exposure is optional and off by default.
*/
package metrics
