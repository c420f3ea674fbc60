package upgrade

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/steward-sh/steward/pkg/log"
	"github.com/steward-sh/steward/pkg/metrics"
	"github.com/steward-sh/steward/pkg/stack"
	"github.com/steward-sh/steward/pkg/state"
	"github.com/steward-sh/steward/pkg/storage"
)

// Catalog is one versioned upgrade step. A catalog migrates persisted
// schema and configuration state from its source release to its target
// release and runs exactly once per upgrade between those versions.
//
// Execution is phased: all schema updates run before any data updates, so
// data updates may assume the schema changes of their own catalog exist.
type Catalog interface {
	SourceVersion() string
	TargetVersion() string
	ExecuteSchemaUpdates() error
	ExecutePreDataUpdates() error
	ExecuteDataUpdates() error
}

// Dependencies carries the externally owned collaborators catalogs run
// against. Catalogs receive these explicitly; there is no injected global
// state.
type Dependencies struct {
	Store    storage.Store
	Clusters *state.Clusters
	Configs  *state.ConfigHelper
	Stacks   *stack.Library
}

// AllCatalogs returns every known catalog, ordered by target version
func AllCatalogs(deps Dependencies) []Catalog {
	catalogs := []Catalog{
		NewCatalog252(deps),
	}
	sort.Slice(catalogs, func(i, j int) bool {
		return CompareVersions(catalogs[i].TargetVersion(), catalogs[j].TargetVersion()) < 0
	})
	return catalogs
}

// Executor sequences catalogs between a source and a target version
type Executor struct {
	deps Dependencies
}

// NewExecutor creates an executor over the given dependencies
func NewExecutor(deps Dependencies) *Executor {
	return &Executor{deps: deps}
}

// Pending returns the catalogs that must run to upgrade from sourceVersion
// to targetVersion, in execution order
func (e *Executor) Pending(sourceVersion, targetVersion string) []Catalog {
	var pending []Catalog
	for _, catalog := range AllCatalogs(e.deps) {
		if CompareVersions(catalog.TargetVersion(), sourceVersion) > 0 &&
			CompareVersions(catalog.TargetVersion(), targetVersion) <= 0 {
			pending = append(pending, catalog)
		}
	}
	return pending
}

// Run executes every pending catalog in order. Each catalog runs its schema
// phase, then its pre-data phase, then its data phase. The first failure
// aborts the run; catalogs check current state before mutating, so a fixed
// and re-run upgrade converges to the same end state.
func (e *Executor) Run(sourceVersion, targetVersion string) error {
	pending := e.Pending(sourceVersion, targetVersion)
	logger := log.WithComponent("upgrade")

	if len(pending) == 0 {
		logger.Info().
			Str("source_version", sourceVersion).
			Str("target_version", targetVersion).
			Msg("No catalogs to run")
		return nil
	}

	for _, catalog := range pending {
		if err := e.runCatalog(catalog); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runCatalog(catalog Catalog) error {
	logger := log.WithCatalog(catalog.SourceVersion(), catalog.TargetVersion())
	logger.Info().Msg("Running upgrade catalog")

	timer := metrics.NewTimer()
	err := executePhases(catalog)
	timer.ObserveDurationVec(metrics.CatalogDuration, catalog.TargetVersion())

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.CatalogsRun.With(prometheus.Labels{
		"target_version": catalog.TargetVersion(),
		"result":         result,
	}).Inc()

	if err != nil {
		logger.Error().Err(err).Msg("Upgrade catalog failed")
		return fmt.Errorf("catalog %s -> %s: %w", catalog.SourceVersion(), catalog.TargetVersion(), err)
	}

	logger.Info().Dur("duration", timer.Duration()).Msg("Upgrade catalog complete")
	return nil
}

func executePhases(catalog Catalog) error {
	if err := catalog.ExecuteSchemaUpdates(); err != nil {
		return fmt.Errorf("schema updates: %w", err)
	}
	if err := catalog.ExecutePreDataUpdates(); err != nil {
		return fmt.Errorf("pre-data updates: %w", err)
	}
	if err := catalog.ExecuteDataUpdates(); err != nil {
		return fmt.Errorf("data updates: %w", err)
	}
	return nil
}

// CompareVersions compares two dotted numeric version strings. It returns
// -1, 0, or 1 as a sorts before, equal to, or after b. Missing segments
// compare as zero, so "2.5" equals "2.5.0".
func CompareVersions(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	n := len(aParts)
	if len(bParts) > n {
		n = len(bParts)
	}

	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(aParts) {
			av, _ = strconv.Atoi(aParts[i])
		}
		if i < len(bParts) {
			bv, _ = strconv.Atoi(bParts[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
