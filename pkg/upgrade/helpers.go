package upgrade

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/steward-sh/steward/pkg/kerberos"
	"github.com/steward-sh/steward/pkg/log"
	"github.com/steward-sh/steward/pkg/metrics"
	"github.com/steward-sh/steward/pkg/stack"
	"github.com/steward-sh/steward/pkg/types"
)

// kerberosDescriptorArtifact is the artifact name under which user-supplied
// Kerberos descriptors are persisted
const kerberosDescriptorArtifact = "kerberos_descriptor"

// updateKerberosDescriptorArtifacts loads every stored Kerberos descriptor
// artifact and passes it to fn. The callback owns mutation and persistence
// of the artifact.
func updateKerberosDescriptorArtifacts(deps Dependencies, fn func(*types.Artifact) error) error {
	artifacts, err := deps.Store.ListArtifactsByName(kerberosDescriptorArtifact)
	if err != nil {
		return err
	}

	for _, artifact := range artifacts {
		if err := fn(artifact); err != nil {
			return err
		}
	}
	return nil
}

// removeConfigurationSpecification removes configType/propertyName from the
// given service node. Every missing level (service, configuration block,
// property) is a no-op. It returns whether anything was actually removed.
func removeConfigurationSpecification(service *kerberos.ServiceDescriptor, configType, propertyName string) bool {
	properties := service.Configuration(configType).Properties()
	if properties == nil {
		return false
	}
	if _, ok := properties[propertyName]; !ok {
		return false
	}

	delete(properties, propertyName)
	logger := log.WithComponent("upgrade")
	logger.Info().
		Str("config_type", configType).
		Str("property", propertyName).
		Str("service", service.Name()).
		Msg("Removed configuration specification from Kerberos descriptor")
	return true
}

// updateListValues treats the named property as a comma-delimited set,
// removes valuesToRemove, adds valuesToAdd, and persists the result only
// when the set actually changed. A missing configuration type or property
// map is a no-op.
func updateListValues(deps Dependencies, cluster *types.Cluster, configType, propertyName string, valuesToAdd, valuesToRemove []string) error {
	config, err := deps.Configs.GetDesiredConfigByType(cluster, configType)
	if err != nil {
		return err
	}
	if config == nil || config.Properties == nil {
		return nil
	}

	existingValue := config.Properties[propertyName]
	var newValue string

	if strings.TrimSpace(existingValue) == "" {
		if len(valuesToAdd) > 0 {
			newValue = strings.Join(valuesToAdd, ",")
		}
	} else {
		valueSet := splitList(existingValue)

		removed := false
		for _, value := range valuesToRemove {
			if _, ok := valueSet[value]; ok {
				delete(valueSet, value)
				removed = true
			}
		}

		added := false
		for _, value := range valuesToAdd {
			if _, ok := valueSet[value]; !ok {
				valueSet[value] = struct{}{}
				added = true
			}
		}

		if removed || added {
			newValue = joinList(valueSet)
		}
	}

	if newValue == "" {
		return nil
	}

	if err := deps.Configs.UpdateProperties(cluster, configType,
		map[string]string{propertyName: newValue}, true, true); err != nil {
		return err
	}
	metrics.ConfigVersionsCreated.With(prometheus.Labels{"config_type": configType}).Inc()
	return nil
}

// splitList canonicalizes a comma-delimited string into a set, trimming
// whitespace and dropping empty entries
func splitList(value string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

// joinList serializes a set as a sorted comma-delimited string
func joinList(set map[string]struct{}) string {
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}

// addNewStackConfigurations seeds properties newly defined by the cluster's
// installed stack into the cluster's existing configurations. Only types
// the cluster already carries are touched, and existing values are never
// overwritten.
func addNewStackConfigurations(deps Dependencies, cluster *types.Cluster) error {
	stackProperties, err := deps.Configs.GetStackProperties(cluster)
	if err != nil {
		return err
	}
	if len(stackProperties) == 0 {
		return nil
	}

	newProperties := make(map[string]map[string]string)
	for _, info := range stackProperties {
		if info.Filename == "" {
			continue
		}
		configType := stack.FileNameToConfigType(info.Filename)
		if _, ok := cluster.DesiredConfigs[configType]; !ok {
			continue
		}
		if newProperties[configType] == nil {
			newProperties[configType] = make(map[string]string)
		}
		newProperties[configType][info.Name] = info.Value
	}

	for configType, properties := range newProperties {
		config, err := deps.Configs.GetDesiredConfigByType(cluster, configType)
		if err != nil {
			return err
		}
		if config == nil {
			continue
		}

		missing := make(map[string]string)
		for name, value := range properties {
			if _, ok := config.Properties[name]; !ok {
				missing[name] = value
			}
		}
		if len(missing) == 0 {
			continue
		}

		if err := deps.Configs.UpdateProperties(cluster, configType, missing, true, false); err != nil {
			return err
		}
		metrics.ConfigVersionsCreated.With(prometheus.Labels{"config_type": configType}).Inc()
	}
	return nil
}
