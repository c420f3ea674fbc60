package kerberos

import (
	"fmt"
	"sort"
)

// Descriptor is a Kerberos descriptor: a tree of named service nodes, each
// optionally carrying named configuration blocks. Descriptors round-trip
// to/from the generic map form stored in artifact records; structure the
// model does not understand (identities, components, auth-to-local rules)
// is preserved verbatim across the round trip.
type Descriptor struct {
	services map[string]*ServiceDescriptor
	extra    map[string]interface{}
}

// ServiceDescriptor is a single named service node within a descriptor
type ServiceDescriptor struct {
	name           string
	configurations map[string]*ConfigurationDescriptor
	extra          map[string]interface{}
}

// ConfigurationDescriptor holds the property map for one configuration type
// within a service node
type ConfigurationDescriptor struct {
	configType string
	properties map[string]string
}

// FromMap builds a descriptor from artifact data. Nil data yields a nil
// descriptor and no error; callers treat that as "nothing to do".
func FromMap(data map[string]interface{}) (*Descriptor, error) {
	if data == nil {
		return nil, nil
	}

	descriptor := &Descriptor{
		services: make(map[string]*ServiceDescriptor),
		extra:    make(map[string]interface{}),
	}

	for key, value := range data {
		if key != "services" {
			descriptor.extra[key] = value
			continue
		}

		rawServices, ok := value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("descriptor services element is not a list")
		}

		for _, rawService := range rawServices {
			serviceMap, ok := rawService.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("descriptor service entry is not a map")
			}
			service, err := serviceFromMap(serviceMap)
			if err != nil {
				return nil, err
			}
			descriptor.services[service.name] = service
		}
	}

	return descriptor, nil
}

func serviceFromMap(data map[string]interface{}) (*ServiceDescriptor, error) {
	service := &ServiceDescriptor{
		configurations: make(map[string]*ConfigurationDescriptor),
		extra:          make(map[string]interface{}),
	}

	for key, value := range data {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("descriptor service name is not a string")
			}
			service.name = name
		case "configurations":
			rawConfigurations, ok := value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("descriptor configurations element is not a list")
			}
			for _, rawConfiguration := range rawConfigurations {
				configurationMap, ok := rawConfiguration.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("descriptor configuration entry is not a map")
				}
				// Each entry is a single-key map of config type to properties
				for configType, rawProperties := range configurationMap {
					properties := make(map[string]string)
					if propertyMap, ok := rawProperties.(map[string]interface{}); ok {
						for name, rawValue := range propertyMap {
							properties[name] = fmt.Sprint(rawValue)
						}
					}
					service.configurations[configType] = &ConfigurationDescriptor{
						configType: configType,
						properties: properties,
					}
				}
			}
		default:
			service.extra[key] = value
		}
	}

	if service.name == "" {
		return nil, fmt.Errorf("descriptor service entry has no name")
	}
	return service, nil
}

// Service returns the named service node, or nil when absent. Safe to call
// on a nil descriptor.
func (d *Descriptor) Service(name string) *ServiceDescriptor {
	if d == nil {
		return nil
	}
	return d.services[name]
}

// ServiceNames returns the names of the descriptor's service nodes, sorted
func (d *Descriptor) ServiceNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.services))
	for name := range d.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToMap serializes the descriptor back to the artifact data form
func (d *Descriptor) ToMap() map[string]interface{} {
	data := make(map[string]interface{}, len(d.extra)+1)
	for key, value := range d.extra {
		data[key] = value
	}

	if len(d.services) > 0 {
		services := make([]interface{}, 0, len(d.services))
		for _, name := range d.ServiceNames() {
			services = append(services, d.services[name].toMap())
		}
		data["services"] = services
	}

	return data
}

func (s *ServiceDescriptor) toMap() map[string]interface{} {
	data := make(map[string]interface{}, len(s.extra)+2)
	for key, value := range s.extra {
		data[key] = value
	}
	data["name"] = s.name

	if len(s.configurations) > 0 {
		configTypes := make([]string, 0, len(s.configurations))
		for configType := range s.configurations {
			configTypes = append(configTypes, configType)
		}
		sort.Strings(configTypes)

		configurations := make([]interface{}, 0, len(configTypes))
		for _, configType := range configTypes {
			configuration := s.configurations[configType]
			properties := make(map[string]interface{}, len(configuration.properties))
			for name, value := range configuration.properties {
				properties[name] = value
			}
			configurations = append(configurations, map[string]interface{}{
				configType: properties,
			})
		}
		data["configurations"] = configurations
	}

	return data
}

// Name returns the service node's name. Safe to call on a nil service.
func (s *ServiceDescriptor) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Configuration returns the configuration block of the given type, or nil
// when absent. Safe to call on a nil service.
func (s *ServiceDescriptor) Configuration(configType string) *ConfigurationDescriptor {
	if s == nil {
		return nil
	}
	return s.configurations[configType]
}

// Properties returns the live property map of the configuration block.
// Mutations are reflected in a subsequent ToMap. Safe to call on a nil
// configuration.
func (c *ConfigurationDescriptor) Properties() map[string]string {
	if c == nil {
		return nil
	}
	return c.properties
}

// Type returns the configuration type of the block
func (c *ConfigurationDescriptor) Type() string {
	if c == nil {
		return ""
	}
	return c.configType
}
