package provider

import "fmt"

// Constructor builds a Provider from its configuration.
type Constructor func(cfg Config) Provider

var registry = map[string]Constructor{}

// Register adds a provider constructor under the given name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the provider constructor for the given name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown analysis provider: %s", name)
	}
	return ctor, nil
}

// Names returns the names of all registered providers.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
