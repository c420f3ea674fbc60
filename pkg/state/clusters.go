package state

import (
	"github.com/steward-sh/steward/pkg/storage"
	"github.com/steward-sh/steward/pkg/types"
)

// Clusters is the registry of managed clusters
type Clusters struct {
	store storage.Store
}

// NewClusters creates a cluster registry over the given store
func NewClusters(store storage.Store) *Clusters {
	return &Clusters{store: store}
}

// GetClusters returns all registered clusters keyed by name. An empty
// installation yields an empty map.
func (c *Clusters) GetClusters() (map[string]*types.Cluster, error) {
	clusters, err := c.store.ListClusters()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*types.Cluster, len(clusters))
	for _, cluster := range clusters {
		byName[cluster.Name] = cluster
	}
	return byName, nil
}

// GetCluster returns a single cluster by name
func (c *Clusters) GetCluster(name string) (*types.Cluster, error) {
	return c.store.GetCluster(name)
}
