/*
Package log provides structured logging for Steward using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level.

# Usage

Initialize once at process start:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: false,
	})

Component loggers carry a fixed field so upgrade output can be filtered per
subsystem:

	logger := log.WithComponent("upgrade")
	logger.Info().Str("catalog", "2.5.2").Msg("Running schema updates")

Per-cluster and per-catalog child loggers:

	log.WithCluster("prod").Warn().Msg("Skipping cluster without cluster-env")
	log.WithCatalog("2.5.1", "2.5.2").Info().Msg("Catalog complete")

# Integration Points

  - cmd/steward-upgrade: Initializes the global logger from CLI flags
  - pkg/upgrade: Logs catalog progress and mutations actually performed
  - pkg/state: Logs configuration version creation
*/
package log
