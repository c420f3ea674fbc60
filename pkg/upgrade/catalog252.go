package upgrade

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/steward-sh/steward/pkg/kerberos"
	"github.com/steward-sh/steward/pkg/metrics"
	"github.com/steward-sh/steward/pkg/stack"
	"github.com/steward-sh/steward/pkg/types"
)

const (
	clusterConfigTable   = "clusterconfig"
	serviceDeletedColumn = "service_deleted"

	clusterEnv = "cluster-env"

	// The realm passed to the principal parser when a principal omits one.
	// It only satisfies the parser; the extracted principal name does not
	// depend on it.
	placeholderRealm = "EXAMPLE.COM"
)

// Catalog252 upgrades Steward from 2.5.1 to 2.5.2.
type Catalog252 struct {
	deps Dependencies
}

// NewCatalog252 creates the 2.5.1 to 2.5.2 upgrade catalog
func NewCatalog252(deps Dependencies) *Catalog252 {
	return &Catalog252{deps: deps}
}

func (c *Catalog252) SourceVersion() string {
	return "2.5.1"
}

func (c *Catalog252) TargetVersion() string {
	return "2.5.2"
}

func (c *Catalog252) ExecuteSchemaUpdates() error {
	return c.addServiceDeletedColumnToClusterConfigTable()
}

func (c *Catalog252) ExecutePreDataUpdates() error {
	return nil
}

func (c *Catalog252) ExecuteDataUpdates() error {
	if err := c.addNewStackConfigurations(); err != nil {
		return err
	}
	if err := c.resetStackToolsAndFeatures(); err != nil {
		return err
	}
	if err := c.updateKerberosDescriptorArtifacts(); err != nil {
		return err
	}
	return c.fixLivySuperusers()
}

// addServiceDeletedColumnToClusterConfigTable adds the service_deleted
// column to the clusterconfig table. The store treats re-adding an existing
// column as a no-op, so a re-run after a partial failure is safe. A schema
// failure is fatal: later steps assume the column exists.
func (c *Catalog252) addServiceDeletedColumnToClusterConfigTable() error {
	err := c.deps.Store.AddColumn(clusterConfigTable, types.ColumnInfo{
		Name:         serviceDeletedColumn,
		Type:         types.ColumnTypeSmallInt,
		DefaultValue: 0,
		Nullable:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to add column %s to table %s: %w", serviceDeletedColumn, clusterConfigTable, err)
	}
	metrics.SchemaChanges.Inc()
	return nil
}

// addNewStackConfigurations seeds properties newly introduced by the
// installed stack definition into every cluster's existing configurations
func (c *Catalog252) addNewStackConfigurations() error {
	clusters, err := c.deps.Clusters.GetClusters()
	if err != nil {
		return err
	}

	for _, cluster := range clusters {
		if err := addNewStackConfigurations(c.deps, cluster); err != nil {
			return err
		}
	}
	return nil
}

// resetStackToolsAndFeatures resets the following properties in cluster-env
// to their stack-defined defaults:
//
//   - stack_tools
//   - stack_features
//   - stack_root
//
// Clusters without a cluster-env configuration or without stack properties
// are skipped. Other cluster-env properties are left untouched.
func (c *Catalog252) resetStackToolsAndFeatures() error {
	propertiesToReset := map[string]bool{
		"stack_tools":    true,
		"stack_features": true,
		"stack_root":     true,
	}

	clusters, err := c.deps.Clusters.GetClusters()
	if err != nil {
		return err
	}

	for _, cluster := range clusters {
		clusterEnvConfig, err := c.deps.Configs.GetDesiredConfigByType(cluster, clusterEnv)
		if err != nil {
			return err
		}
		if clusterEnvConfig == nil {
			metrics.ClustersSkipped.With(prometheus.Labels{"reason": "no-cluster-env"}).Inc()
			continue
		}

		stackProperties, err := c.deps.Configs.GetStackProperties(cluster)
		if err != nil {
			return err
		}
		if len(stackProperties) == 0 {
			metrics.ClustersSkipped.With(prometheus.Labels{"reason": "no-stack-properties"}).Inc()
			continue
		}

		newStackProperties := make(map[string]string)
		for _, info := range stackProperties {
			if info.Filename == "" {
				continue
			}
			if stack.FileNameToConfigType(info.Filename) != clusterEnv {
				continue
			}
			if propertiesToReset[info.Name] {
				newStackProperties[info.Name] = info.Value
			}
		}

		if err := c.deps.Configs.UpdateProperties(cluster, clusterEnv, newStackProperties, true, false); err != nil {
			return err
		}
	}
	return nil
}

// updateKerberosDescriptorArtifacts applies the descriptor cleanup to every
// stored Kerberos descriptor artifact
func (c *Catalog252) updateKerberosDescriptorArtifacts() error {
	return updateKerberosDescriptorArtifacts(c.deps, c.updateKerberosDescriptorArtifact)
}

// updateKerberosDescriptorArtifact removes the livy.superusers
// configuration specifications from the SPARK and SPARK2 service nodes of a
// stored descriptor. The logic to manage livy.superusers moved into the
// stack advisors in 2.5.2, so descriptor copies of it are obsolete. The
// artifact is rewritten only when a property was actually removed.
func (c *Catalog252) updateKerberosDescriptorArtifact(artifact *types.Artifact) error {
	if artifact == nil {
		return nil
	}

	descriptor, err := kerberos.FromMap(artifact.Data)
	if err != nil {
		return fmt.Errorf("failed to parse Kerberos descriptor artifact: %w", err)
	}
	if descriptor == nil {
		return nil
	}

	updatedSpark := removeConfigurationSpecification(descriptor.Service("SPARK"), "livy-conf", "livy.superusers")
	updatedSpark2 := removeConfigurationSpecification(descriptor.Service("SPARK2"), "livy2-conf", "livy.superusers")

	if updatedSpark || updatedSpark2 {
		artifact.Data = descriptor.ToMap()
		if err := c.deps.Store.MergeArtifact(artifact); err != nil {
			return fmt.Errorf("failed to persist updated Kerberos descriptor artifact: %w", err)
		}
		metrics.DescriptorsUpdated.Inc()
	}
	return nil
}

// fixLivySuperusers repairs the livy.superusers value in livy-conf and
// livy2-conf.
//
// When Kerberos is enabled, livy.superusers may carry an incorrect entry of
// the form "zeppelin-<clustername>" produced by earlier releases. For every
// cluster with a Zeppelin Kerberos principal configured, the incorrect
// entry is removed and the principal name parsed from
// zeppelin.server.kerberos.principal is added.
func (c *Catalog252) fixLivySuperusers() error {
	clusters, err := c.deps.Clusters.GetClusters()
	if err != nil {
		return err
	}

	for _, cluster := range clusters {
		zeppelinEnvConfig, err := c.deps.Configs.GetDesiredConfigByType(cluster, "zeppelin-env")
		if err != nil {
			return err
		}
		if zeppelinEnvConfig == nil || zeppelinEnvConfig.Properties == nil {
			metrics.ClustersSkipped.With(prometheus.Labels{"reason": "no-zeppelin-env"}).Inc()
			continue
		}

		zeppelinPrincipal := zeppelinEnvConfig.Properties["zeppelin.server.kerberos.principal"]
		if strings.TrimSpace(zeppelinPrincipal) == "" {
			metrics.ClustersSkipped.With(prometheus.Labels{"reason": "no-zeppelin-principal"}).Inc()
			continue
		}

		deconstructed, err := kerberos.DeconstructPrincipal(zeppelinPrincipal, placeholderRealm)
		if err != nil {
			return fmt.Errorf("failed to parse Zeppelin principal for cluster %s: %w", cluster.Name, err)
		}

		newZeppelinPrincipalName := deconstructed.PrincipalName()
		oldZeppelinPrincipalName := "zeppelin-" + strings.ToLower(cluster.Name)

		if err := updateListValues(c.deps, cluster, "livy-conf", "livy.superusers",
			[]string{newZeppelinPrincipalName}, []string{oldZeppelinPrincipalName}); err != nil {
			return err
		}
		if err := updateListValues(c.deps, cluster, "livy2-conf", "livy.superusers",
			[]string{newZeppelinPrincipalName}, []string{oldZeppelinPrincipalName}); err != nil {
			return err
		}
	}
	return nil
}
