package link

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed icons.yaml
var iconsYAML []byte

// registry is the singleton target registry.
var registry = &Registry{}

// Registry holds the link targets loaded from icons.yaml, indexed by
// output kind ("image", "html", "vega", "pdf", "web").
type Registry struct {
	once    sync.Once
	targets map[string]Target
	loadErr error
}

// load parses the embedded targets.
func (r *Registry) load() {
	r.once.Do(func() {
		r.targets = make(map[string]Target)
		if err := yaml.Unmarshal(iconsYAML, &r.targets); err != nil {
			r.loadErr = fmt.Errorf("parsing icons.yaml: %w", err)
		}
	})
}

// Lookup returns the target registered for an output kind.
func Lookup(kind string) (Target, bool) {
	registry.load()
	t, ok := registry.targets[kind]
	return t, ok
}

// LoadError returns the error encountered loading the registry, if any.
func LoadError() error {
	registry.load()
	return registry.loadErr
}
