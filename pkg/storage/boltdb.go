package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/steward-sh/steward/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketClusters      = []byte("clusters")
	bucketClusterConfig = []byte("clusterconfig")
	bucketArtifacts     = []byte("artifacts")
	bucketSchema        = []byte("schema")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "steward.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketClusters,
			bucketClusterConfig,
			bucketArtifacts,
			bucketSchema,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Cluster operations
func (s *BoltStore) CreateCluster(cluster *types.Cluster) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		data, err := json.Marshal(cluster)
		if err != nil {
			return err
		}
		return b.Put([]byte(cluster.Name), data)
	})
}

func (s *BoltStore) GetCluster(name string) (*types.Cluster, error) {
	var cluster types.Cluster
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("cluster %s: %w", name, ErrNotFound)
		}
		return json.Unmarshal(data, &cluster)
	})
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

func (s *BoltStore) ListClusters() ([]*types.Cluster, error) {
	var clusters []*types.Cluster
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		return b.ForEach(func(k, v []byte) error {
			var cluster types.Cluster
			if err := json.Unmarshal(v, &cluster); err != nil {
				return err
			}
			clusters = append(clusters, &cluster)
			return nil
		})
	})
	return clusters, err
}

func (s *BoltStore) UpdateCluster(cluster *types.Cluster) error {
	return s.CreateCluster(cluster) // Same as create (upsert)
}

func (s *BoltStore) DeleteCluster(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		return b.Delete([]byte(name))
	})
}

// Configuration operations
//
// Config versions are keyed by cluster/type/tag so that every version of a
// configuration is retained. The desired version pointer lives on the
// cluster record, not here.
func configKey(clusterName, configType, tag string) []byte {
	return []byte(clusterName + "/" + configType + "/" + tag)
}

func (s *BoltStore) CreateConfig(config *types.Config) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusterConfig)
		data, err := json.Marshal(config)
		if err != nil {
			return err
		}
		return b.Put(configKey(config.ClusterName, config.Type, config.Tag), data)
	})
}

func (s *BoltStore) GetConfig(clusterName, configType, tag string) (*types.Config, error) {
	var config types.Config
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusterConfig)
		data := b.Get(configKey(clusterName, configType, tag))
		if data == nil {
			return fmt.Errorf("config %s/%s tag %s: %w", clusterName, configType, tag, ErrNotFound)
		}
		return json.Unmarshal(data, &config)
	})
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *BoltStore) ListConfigs(clusterName, configType string) ([]*types.Config, error) {
	prefix := []byte(clusterName + "/" + configType + "/")
	var configs []*types.Config
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketClusterConfig).Cursor()
		for k, v := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), string(prefix)); k, v = c.Next() {
			var config types.Config
			if err := json.Unmarshal(v, &config); err != nil {
				return err
			}
			configs = append(configs, &config)
		}
		return nil
	})
	return configs, err
}

// Artifact operations
//
// Artifacts are addressed by name plus foreign keys, so the key embeds the
// foreign keys in a deterministic order.
func artifactKey(name string, foreignKeys map[string]string) []byte {
	keys := make([]string, 0, len(foreignKeys))
	for k := range foreignKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{name}
	for _, k := range keys {
		parts = append(parts, k+"="+foreignKeys[k])
	}
	return []byte(strings.Join(parts, "/"))
}

func (s *BoltStore) CreateArtifact(artifact *types.Artifact) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketArtifacts)
		data, err := json.Marshal(artifact)
		if err != nil {
			return err
		}
		return b.Put(artifactKey(artifact.Name, artifact.ForeignKeys), data)
	})
}

func (s *BoltStore) GetArtifact(name string, foreignKeys map[string]string) (*types.Artifact, error) {
	var artifact types.Artifact
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketArtifacts)
		data := b.Get(artifactKey(name, foreignKeys))
		if data == nil {
			return fmt.Errorf("artifact %s: %w", name, ErrNotFound)
		}
		return json.Unmarshal(data, &artifact)
	})
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (s *BoltStore) ListArtifactsByName(name string) ([]*types.Artifact, error) {
	prefix := []byte(name + "/")
	var artifacts []*types.Artifact
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketArtifacts)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if string(k) != name && !strings.HasPrefix(string(k), string(prefix)) {
				continue
			}
			var artifact types.Artifact
			if err := json.Unmarshal(v, &artifact); err != nil {
				return err
			}
			artifacts = append(artifacts, &artifact)
		}
		return nil
	})
	return artifacts, err
}

// MergeArtifact persists the mutated artifact data over the stored record
func (s *BoltStore) MergeArtifact(artifact *types.Artifact) error {
	return s.CreateArtifact(artifact)
}

// Table schema operations
func (s *BoltStore) GetTableSchema(table string) (*types.TableSchema, error) {
	var schema types.TableSchema
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSchema)
		data := b.Get([]byte(table))
		if data == nil {
			return fmt.Errorf("table %s: %w", table, ErrNotFound)
		}
		return json.Unmarshal(data, &schema)
	})
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

// AddColumn appends a column to the table's schema record. Adding a column
// that already exists is a no-op, so schema upgrade steps can be re-run
// safely after a partial failure.
func (s *BoltStore) AddColumn(table string, column types.ColumnInfo) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSchema)

		schema := types.TableSchema{Name: table}
		if data := b.Get([]byte(table)); data != nil {
			if err := json.Unmarshal(data, &schema); err != nil {
				return fmt.Errorf("failed to decode schema for table %s: %w", table, err)
			}
		}

		if schema.HasColumn(column.Name) {
			return nil
		}

		schema.Columns = append(schema.Columns, column)
		data, err := json.Marshal(&schema)
		if err != nil {
			return err
		}
		return b.Put([]byte(table), data)
	})
}
