package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/steward-sh/steward/pkg/log"
	"github.com/steward-sh/steward/pkg/stack"
	"github.com/steward-sh/steward/pkg/storage"
	"github.com/steward-sh/steward/pkg/types"
)

// ConfigHelper provides configuration reads and versioned writes for
// clusters, plus access to the stack-defined property metadata of the
// cluster's installed stack.
type ConfigHelper struct {
	store  storage.Store
	stacks *stack.Library
}

// NewConfigHelper creates a configuration helper over the given store and
// stack definition library
func NewConfigHelper(store storage.Store, stacks *stack.Library) *ConfigHelper {
	return &ConfigHelper{store: store, stacks: stacks}
}

// GetDesiredConfigByType returns the currently active configuration of the
// given type for a cluster, or nil when the cluster carries no
// configuration of that type.
func (h *ConfigHelper) GetDesiredConfigByType(cluster *types.Cluster, configType string) (*types.Config, error) {
	tag, ok := cluster.DesiredConfigs[configType]
	if !ok {
		return nil, nil
	}

	config, err := h.store.GetConfig(cluster.Name, configType, tag)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return config, nil
}

// GetStackProperties returns the stack-defined property set for the
// cluster's installed stack, or nil when no stack definition is available
func (h *ConfigHelper) GetStackProperties(cluster *types.Cluster) ([]types.StackPropertyInfo, error) {
	return h.stacks.StackProperties(cluster.StackName, cluster.StackVersion)
}

// GetStackConfigProperties returns the stack-defined properties of a single
// configuration type for the cluster's installed stack
func (h *ConfigHelper) GetStackConfigProperties(cluster *types.Cluster, configType string) (map[string]string, error) {
	return h.stacks.ConfigProperties(cluster.StackName, cluster.StackVersion, configType)
}

// UpdateProperties persists a property change to a cluster's configuration.
//
// With mergeExisting set, properties are overlaid onto the current desired
// values; otherwise the given map replaces the configuration wholesale.
// With overwriteCurrent set, the change is written onto the matched desired
// version in place; otherwise a new version is minted and the old version
// is retained as history.
//
// A change that leaves the effective properties identical to the current
// desired version is not persisted.
func (h *ConfigHelper) UpdateProperties(cluster *types.Cluster, configType string, properties map[string]string, mergeExisting, overwriteCurrent bool) error {
	current, err := h.GetDesiredConfigByType(cluster, configType)
	if err != nil {
		return err
	}

	merged := make(map[string]string)
	if mergeExisting && current != nil {
		for name, value := range current.Properties {
			merged[name] = value
		}
	}
	for name, value := range properties {
		merged[name] = value
	}

	if current != nil && propertiesEqual(current.Properties, merged) {
		return nil
	}

	config := &types.Config{
		ClusterName: cluster.Name,
		Type:        configType,
		Properties:  merged,
		CreatedAt:   time.Now(),
	}

	logger := log.WithCluster(cluster.Name)
	if overwriteCurrent && current != nil {
		config.Tag = current.Tag
		config.Version = current.Version
		logger.Debug().
			Str("type", configType).
			Str("tag", config.Tag).
			Msg("Overwriting desired configuration version")
	} else {
		config.Tag = "version-" + uuid.New().String()
		config.Version = 1
		if current != nil {
			config.Version = current.Version + 1
		}
		logger.Info().
			Str("type", configType).
			Int64("version", config.Version).
			Msg("Creating new configuration version")
	}

	if err := h.store.CreateConfig(config); err != nil {
		return fmt.Errorf("failed to persist %s configuration for cluster %s: %w", configType, cluster.Name, err)
	}

	if cluster.DesiredConfigs == nil {
		cluster.DesiredConfigs = make(map[string]string)
	}
	cluster.DesiredConfigs[configType] = config.Tag

	if err := h.store.UpdateCluster(cluster); err != nil {
		return fmt.Errorf("failed to update desired configuration pointer for cluster %s: %w", cluster.Name, err)
	}
	return nil
}

func propertiesEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for name, value := range a {
		if other, ok := b[name]; !ok || other != value {
			return false
		}
	}
	return true
}
