package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Catalog metrics
	CatalogsRun = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steward_upgrade_catalogs_run_total",
			Help: "Total number of upgrade catalogs run by target version and result",
		},
		[]string{"target_version", "result"},
	)

	CatalogDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steward_upgrade_catalog_duration_seconds",
			Help:    "Upgrade catalog execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target_version"},
	)

	// Mutation metrics
	SchemaChanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "steward_upgrade_schema_changes_total",
			Help: "Total number of schema changes applied during upgrades",
		},
	)

	ConfigVersionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steward_upgrade_config_versions_total",
			Help: "Total number of configuration versions written during upgrades by type",
		},
		[]string{"config_type"},
	)

	DescriptorsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "steward_upgrade_kerberos_descriptors_updated_total",
			Help: "Total number of Kerberos descriptor artifacts rewritten during upgrades",
		},
	)

	ClustersSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steward_upgrade_clusters_skipped_total",
			Help: "Total number of per-cluster mutations skipped by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(CatalogsRun)
	prometheus.MustRegister(CatalogDuration)
	prometheus.MustRegister(SchemaChanges)
	prometheus.MustRegister(ConfigVersionsCreated)
	prometheus.MustRegister(DescriptorsUpdated)
	prometheus.MustRegister(ClustersSkipped)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
