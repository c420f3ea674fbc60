package storage

import (
	"errors"

	"github.com/steward-sh/steward/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist. Callers
// that treat absence as "nothing to do" check it with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for control-plane state storage
// This is implemented by BoltDB-backed storage
type Store interface {
	// Clusters
	CreateCluster(cluster *types.Cluster) error
	GetCluster(name string) (*types.Cluster, error)
	ListClusters() ([]*types.Cluster, error)
	UpdateCluster(cluster *types.Cluster) error
	DeleteCluster(name string) error

	// Configurations
	CreateConfig(config *types.Config) error
	GetConfig(clusterName, configType, tag string) (*types.Config, error)
	ListConfigs(clusterName, configType string) ([]*types.Config, error)

	// Artifacts
	CreateArtifact(artifact *types.Artifact) error
	GetArtifact(name string, foreignKeys map[string]string) (*types.Artifact, error)
	ListArtifactsByName(name string) ([]*types.Artifact, error)
	MergeArtifact(artifact *types.Artifact) error

	// Table schemas
	GetTableSchema(table string) (*types.TableSchema, error)
	AddColumn(table string, column types.ColumnInfo) error

	// Utility
	Close() error
}
