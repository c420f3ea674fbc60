package stack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/steward-sh/steward/pkg/types"
	"gopkg.in/yaml.v3"
)

// Library loads stack definition metadata from a directory tree laid out as
//
//	<dir>/<stack name>/<stack version>/configuration/<config type>.yml
//
// Each configuration file declares the stack-authoritative defaults for one
// configuration type.
type Library struct {
	dir string
}

// NewLibrary creates a stack definition library rooted at dir
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// configFile is the on-disk shape of a stack configuration file
type configFile struct {
	Properties map[string]string `yaml:"properties"`
}

// StackProperties returns every stack-defined property for the given stack,
// tagged with the configuration file it originated from. A stack with no
// definition on disk yields a nil slice and no error; callers treat that as
// "no stack properties available".
func (l *Library) StackProperties(stackName, stackVersion string) ([]types.StackPropertyInfo, error) {
	confDir := filepath.Join(l.dir, stackName, stackVersion, "configuration")
	entries, err := os.ReadDir(confDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stack configuration dir: %w", err)
	}

	var properties []types.StackPropertyInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || FileNameToConfigType(name) == name {
			continue
		}

		data, err := os.ReadFile(filepath.Join(confDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read stack configuration %s: %w", name, err)
		}

		var file configFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse stack configuration %s: %w", name, err)
		}

		keys := make([]string, 0, len(file.Properties))
		for k := range file.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			properties = append(properties, types.StackPropertyInfo{
				Name:     k,
				Value:    file.Properties[k],
				Filename: name,
			})
		}
	}

	return properties, nil
}

// ConfigProperties returns the stack-defined properties for a single
// configuration type, or nil when the stack does not define that type.
func (l *Library) ConfigProperties(stackName, stackVersion, configType string) (map[string]string, error) {
	all, err := l.StackProperties(stackName, stackVersion)
	if err != nil {
		return nil, err
	}

	var properties map[string]string
	for _, info := range all {
		if FileNameToConfigType(info.Filename) != configType {
			continue
		}
		if properties == nil {
			properties = make(map[string]string)
		}
		properties[info.Name] = info.Value
	}
	return properties, nil
}

// ConfigTypes returns the configuration types the stack defines, sorted
func (l *Library) ConfigTypes(stackName, stackVersion string) ([]string, error) {
	all, err := l.StackProperties(stackName, stackVersion)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var configTypes []string
	for _, info := range all {
		configType := FileNameToConfigType(info.Filename)
		if !seen[configType] {
			seen[configType] = true
			configTypes = append(configTypes, configType)
		}
	}
	sort.Strings(configTypes)
	return configTypes, nil
}

// FileNameToConfigType maps a stack configuration file name to the
// configuration type it defines, e.g. "cluster-env.yml" -> "cluster-env".
// A name without a recognized extension is returned unchanged.
func FileNameToConfigType(filename string) string {
	for _, ext := range []string{".yml", ".yaml", ".xml"} {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext)
		}
	}
	return filename
}
