package upgrade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/steward-sh/steward/pkg/kerberos"
	"github.com/steward-sh/steward/pkg/stack"
	"github.com/steward-sh/steward/pkg/state"
	"github.com/steward-sh/steward/pkg/storage"
	"github.com/steward-sh/steward/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	deps     Dependencies
	store    storage.Store
	stackDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	stackDir := t.TempDir()
	lib := stack.NewLibrary(stackDir)

	return &fixture{
		deps: Dependencies{
			Store:    store,
			Clusters: state.NewClusters(store),
			Configs:  state.NewConfigHelper(store, lib),
			Stacks:   lib,
		},
		store:    store,
		stackDir: stackDir,
	}
}

func (f *fixture) addCluster(t *testing.T, name string) *types.Cluster {
	t.Helper()
	cluster := &types.Cluster{
		Name:           name,
		StackName:      "HDP",
		StackVersion:   "2.6",
		DesiredConfigs: map[string]string{},
	}
	require.NoError(t, f.store.CreateCluster(cluster))
	return cluster
}

func (f *fixture) addConfig(t *testing.T, cluster *types.Cluster, configType string, properties map[string]string) {
	t.Helper()
	config := &types.Config{
		ClusterName: cluster.Name,
		Type:        configType,
		Tag:         "version-seed-" + configType,
		Version:     1,
		Properties:  properties,
	}
	require.NoError(t, f.store.CreateConfig(config))
	cluster.DesiredConfigs[configType] = config.Tag
	require.NoError(t, f.store.UpdateCluster(cluster))
}

func (f *fixture) writeStackConfig(t *testing.T, filename, content string) {
	t.Helper()
	confDir := filepath.Join(f.stackDir, "HDP", "2.6", "configuration")
	require.NoError(t, os.MkdirAll(confDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, filename), []byte(content), 0644))
}

func (f *fixture) desiredProperties(t *testing.T, clusterName, configType string) map[string]string {
	t.Helper()
	cluster, err := f.store.GetCluster(clusterName)
	require.NoError(t, err)
	config, err := f.deps.Configs.GetDesiredConfigByType(cluster, configType)
	require.NoError(t, err)
	if config == nil {
		return nil
	}
	return config.Properties
}

func (f *fixture) configVersionCount(t *testing.T, clusterName, configType string) int {
	t.Helper()
	configs, err := f.store.ListConfigs(clusterName, configType)
	require.NoError(t, err)
	return len(configs)
}

func TestAddServiceDeletedColumn(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalog252(f.deps)

	require.NoError(t, catalog.ExecuteSchemaUpdates())

	schema, err := f.store.GetTableSchema("clusterconfig")
	require.NoError(t, err)
	require.True(t, schema.HasColumn("service_deleted"))

	var col types.ColumnInfo
	for _, c := range schema.Columns {
		if c.Name == "service_deleted" {
			col = c
		}
	}
	assert.Equal(t, types.ColumnTypeSmallInt, col.Type)
	assert.True(t, col.Nullable)
	assert.EqualValues(t, 0, col.DefaultValue)

	// Running the schema phase again must not error or duplicate the column
	require.NoError(t, catalog.ExecuteSchemaUpdates())
	schema, err = f.store.GetTableSchema("clusterconfig")
	require.NoError(t, err)
	assert.Len(t, schema.Columns, 1)
}

func TestResetStackToolsAndFeatures(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "cluster-env", map[string]string{
		"stack_tools":    "old-tools",
		"stack_features": "old-features",
		"stack_root":     "/usr/old",
		"custom_prop":    "keep-me",
	})
	f.writeStackConfig(t, "cluster-env.yml", `
properties:
  stack_tools: new-tools
  stack_features: new-features
  stack_root: /usr/hdp
  unrelated_stack_prop: ignored
`)

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.resetStackToolsAndFeatures())

	props := f.desiredProperties(t, "prod", "cluster-env")
	assert.Equal(t, "new-tools", props["stack_tools"])
	assert.Equal(t, "new-features", props["stack_features"])
	assert.Equal(t, "/usr/hdp", props["stack_root"])
	assert.Equal(t, "keep-me", props["custom_prop"])

	// Only the reset set is written; other stack-defined properties are not
	// pulled in by the reset
	assert.NotContains(t, props, "unrelated_stack_prop")

	// The update minted a new version and kept the old one
	assert.Equal(t, 2, f.configVersionCount(t, "prod", "cluster-env"))
}

func TestResetStackToolsAndFeaturesIdempotent(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "cluster-env", map[string]string{
		"stack_root": "/usr/old",
	})
	f.writeStackConfig(t, "cluster-env.yml", "properties:\n  stack_root: /usr/hdp\n")

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.resetStackToolsAndFeatures())
	first := f.desiredProperties(t, "prod", "cluster-env")

	require.NoError(t, catalog.resetStackToolsAndFeatures())
	second := f.desiredProperties(t, "prod", "cluster-env")

	assert.Equal(t, first, second)
	// The second run changed nothing, so no extra version was written
	assert.Equal(t, 2, f.configVersionCount(t, "prod", "cluster-env"))
}

func TestResetSkipsClusterWithoutClusterEnv(t *testing.T) {
	f := newFixture(t)
	f.addCluster(t, "bare")

	withEnv := f.addCluster(t, "prod")
	f.addConfig(t, withEnv, "cluster-env", map[string]string{"stack_root": "/usr/old"})
	f.writeStackConfig(t, "cluster-env.yml", "properties:\n  stack_root: /usr/hdp\n")

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.resetStackToolsAndFeatures())

	// The bare cluster is untouched, the other cluster is updated
	assert.Nil(t, f.desiredProperties(t, "bare", "cluster-env"))
	assert.Equal(t, "/usr/hdp", f.desiredProperties(t, "prod", "cluster-env")["stack_root"])
}

func TestResetSkipsClusterWithoutStackProperties(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "cluster-env", map[string]string{"stack_root": "/usr/old"})
	// No stack definition written

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.resetStackToolsAndFeatures())

	assert.Equal(t, "/usr/old", f.desiredProperties(t, "prod", "cluster-env")["stack_root"])
	assert.Equal(t, 1, f.configVersionCount(t, "prod", "cluster-env"))
}

func kerberosArtifactData() map[string]interface{} {
	return map[string]interface{}{
		"services": []interface{}{
			map[string]interface{}{
				"name": "SPARK",
				"configurations": []interface{}{
					map[string]interface{}{
						"livy-conf": map[string]interface{}{
							"livy.superusers":            "zeppelin-prod",
							"livy.impersonation.enabled": "true",
						},
					},
				},
			},
			map[string]interface{}{
				"name": "SPARK2",
				"configurations": []interface{}{
					map[string]interface{}{
						"livy2-conf": map[string]interface{}{
							"livy.superusers": "zeppelin-prod",
						},
					},
				},
			},
		},
	}
}

func TestKerberosDescriptorCleanup(t *testing.T) {
	f := newFixture(t)
	artifact := &types.Artifact{
		Name:        "kerberos_descriptor",
		ForeignKeys: map[string]string{"cluster": "prod"},
		Data:        kerberosArtifactData(),
	}
	require.NoError(t, f.store.CreateArtifact(artifact))

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.updateKerberosDescriptorArtifacts())

	updated, err := f.store.GetArtifact("kerberos_descriptor", map[string]string{"cluster": "prod"})
	require.NoError(t, err)

	descriptor, err := kerberos.FromMap(updated.Data)
	require.NoError(t, err)

	sparkProps := descriptor.Service("SPARK").Configuration("livy-conf").Properties()
	assert.NotContains(t, sparkProps, "livy.superusers")
	assert.Equal(t, "true", sparkProps["livy.impersonation.enabled"])

	spark2Props := descriptor.Service("SPARK2").Configuration("livy2-conf").Properties()
	assert.NotContains(t, spark2Props, "livy.superusers")
}

func TestKerberosDescriptorCleanupNoChangeNoWrite(t *testing.T) {
	f := newFixture(t)
	// Descriptor without any livy.superusers entries; the artifact must not
	// be rewritten
	artifact := &types.Artifact{
		Name:        "kerberos_descriptor",
		ForeignKeys: map[string]string{"cluster": "prod"},
		Data: map[string]interface{}{
			"services": []interface{}{
				map[string]interface{}{"name": "ZEPPELIN"},
			},
		},
	}
	require.NoError(t, f.store.CreateArtifact(artifact))

	catalog := NewCatalog252(f.deps)
	loaded, err := f.store.GetArtifact("kerberos_descriptor", map[string]string{"cluster": "prod"})
	require.NoError(t, err)
	dataBefore := loaded.Data

	require.NoError(t, catalog.updateKerberosDescriptorArtifact(loaded))

	// Data map was not replaced, so no merge happened
	assert.Equal(t, dataBefore, loaded.Data)
}

func TestRemoveConfigurationSpecificationChangedFlag(t *testing.T) {
	descriptor, err := kerberos.FromMap(kerberosArtifactData())
	require.NoError(t, err)

	// Present property: removed, flag set
	assert.True(t, removeConfigurationSpecification(descriptor.Service("SPARK"), "livy-conf", "livy.superusers"))
	// Already gone: flag clear
	assert.False(t, removeConfigurationSpecification(descriptor.Service("SPARK"), "livy-conf", "livy.superusers"))
	// Absent configuration type and absent service: flag clear, no panic
	assert.False(t, removeConfigurationSpecification(descriptor.Service("SPARK"), "missing-conf", "livy.superusers"))
	assert.False(t, removeConfigurationSpecification(descriptor.Service("NOPE"), "livy-conf", "livy.superusers"))
}

func TestKerberosDescriptorCleanupNilData(t *testing.T) {
	f := newFixture(t)
	catalog := NewCatalog252(f.deps)

	require.NoError(t, catalog.updateKerberosDescriptorArtifact(nil))
	require.NoError(t, catalog.updateKerberosDescriptorArtifact(&types.Artifact{
		Name: "kerberos_descriptor",
	}))
}

func TestFixLivySuperusersAdd(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "zeppelin-env", map[string]string{
		"zeppelin.server.kerberos.principal": "zeppelin@EXAMPLE.COM",
	})
	f.addConfig(t, cluster, "livy-conf", map[string]string{
		"livy.superusers": "",
	})

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.fixLivySuperusers())

	props := f.desiredProperties(t, "prod", "livy-conf")
	assert.Equal(t, "zeppelin", props["livy.superusers"])
}

func TestFixLivySuperusersReplace(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "mycluster")
	f.addConfig(t, cluster, "zeppelin-env", map[string]string{
		"zeppelin.server.kerberos.principal": "zeppelin@EXAMPLE.COM",
	})
	f.addConfig(t, cluster, "livy-conf", map[string]string{
		"livy.superusers": "zeppelin-mycluster,other",
	})
	f.addConfig(t, cluster, "livy2-conf", map[string]string{
		"livy.superusers": "zeppelin-mycluster",
	})

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.fixLivySuperusers())

	// Legacy entry removed, parsed principal added, sorted comma join
	assert.Equal(t, "other,zeppelin", f.desiredProperties(t, "mycluster", "livy-conf")["livy.superusers"])
	assert.Equal(t, "zeppelin", f.desiredProperties(t, "mycluster", "livy2-conf")["livy.superusers"])
}

func TestFixLivySuperusersUnchangedSkipsWrite(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "zeppelin-env", map[string]string{
		"zeppelin.server.kerberos.principal": "zeppelin@EXAMPLE.COM",
	})
	f.addConfig(t, cluster, "livy-conf", map[string]string{
		"livy.superusers": "zeppelin",
	})

	clusterBefore, err := f.store.GetCluster("prod")
	require.NoError(t, err)
	tagBefore := clusterBefore.DesiredConfigs["livy-conf"]

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.fixLivySuperusers())

	clusterAfter, err := f.store.GetCluster("prod")
	require.NoError(t, err)
	assert.Equal(t, tagBefore, clusterAfter.DesiredConfigs["livy-conf"])
	assert.Equal(t, 1, f.configVersionCount(t, "prod", "livy-conf"))
}

func TestFixLivySuperusersSkipsClusters(t *testing.T) {
	f := newFixture(t)

	// No zeppelin-env at all
	f.addCluster(t, "plain")

	// zeppelin-env without a principal
	noPrincipal := f.addCluster(t, "noprincipal")
	f.addConfig(t, noPrincipal, "zeppelin-env", map[string]string{"zeppelin_user": "zeppelin"})

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.fixLivySuperusers())
}

func TestFixLivySuperusersParseErrorIsFatal(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "zeppelin-env", map[string]string{
		"zeppelin.server.kerberos.principal": "zeppelin//bad@REALM",
	})

	catalog := NewCatalog252(f.deps)
	err := catalog.fixLivySuperusers()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prod")
}

func TestAddNewStackConfigurations(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "cluster-env", map[string]string{
		"stack_root": "/usr/custom",
	})
	f.writeStackConfig(t, "cluster-env.yml", `
properties:
  stack_root: /usr/hdp
  brand_new_prop: fresh
`)
	f.writeStackConfig(t, "zeppelin-env.yml", `
properties:
  zeppelin_user: zeppelin
`)

	catalog := NewCatalog252(f.deps)
	require.NoError(t, catalog.addNewStackConfigurations())

	props := f.desiredProperties(t, "prod", "cluster-env")
	// New stack property seeded, existing value not overwritten
	assert.Equal(t, "fresh", props["brand_new_prop"])
	assert.Equal(t, "/usr/custom", props["stack_root"])

	// Types the cluster does not carry are not created
	assert.Nil(t, f.desiredProperties(t, "prod", "zeppelin-env"))
}

func TestCatalog252EndToEnd(t *testing.T) {
	f := newFixture(t)
	cluster := f.addCluster(t, "prod")
	f.addConfig(t, cluster, "cluster-env", map[string]string{"stack_root": "/usr/old"})
	f.addConfig(t, cluster, "zeppelin-env", map[string]string{
		"zeppelin.server.kerberos.principal": "zeppelin@EXAMPLE.COM",
	})
	f.addConfig(t, cluster, "livy-conf", map[string]string{
		"livy.superusers": "zeppelin-prod,admin",
	})
	f.writeStackConfig(t, "cluster-env.yml", "properties:\n  stack_root: /usr/hdp\n")

	artifact := &types.Artifact{
		Name:        "kerberos_descriptor",
		ForeignKeys: map[string]string{"cluster": "prod"},
		Data:        kerberosArtifactData(),
	}
	require.NoError(t, f.store.CreateArtifact(artifact))

	executor := NewExecutor(f.deps)
	require.NoError(t, executor.Run("2.5.1", "2.5.2"))

	// Schema
	schema, err := f.store.GetTableSchema("clusterconfig")
	require.NoError(t, err)
	assert.True(t, schema.HasColumn("service_deleted"))

	// Stack reset
	assert.Equal(t, "/usr/hdp", f.desiredProperties(t, "prod", "cluster-env")["stack_root"])

	// Livy repair
	assert.Equal(t, "admin,zeppelin", f.desiredProperties(t, "prod", "livy-conf")["livy.superusers"])

	// Running the whole catalog again converges without error
	require.NoError(t, executor.Run("2.5.1", "2.5.2"))
	assert.Equal(t, "admin,zeppelin", f.desiredProperties(t, "prod", "livy-conf")["livy.superusers"])
}
