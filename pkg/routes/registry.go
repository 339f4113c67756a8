package routes

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnknownRouter is returned by Lookup for names nobody registered
var ErrUnknownRouter = errors.New("unknown router")

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// Register makes a Source available to the CLI under name. Registering the
// same name twice replaces the earlier source.
func Register(name string, src Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = src
}

// Unregister removes name from the registry
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

// Lookup returns the Source registered under name
func Lookup(name string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	src, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRouter, "%q (registered: %v)", name, namesLocked())
	}
	return src, nil
}

// Names lists registered sources in sorted order
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
