package dialect

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrDialectRequired is returned when a caller must name a dialect and
// did not.
var ErrDialectRequired = errors.New("dialect is required")

// The process-global registry. Built-in dialects register themselves in
// init, so a blank import of a pkg/dialects package makes it available.
var (
	mu       sync.RWMutex
	registry = map[string]*Dialect{}
)

// Register adds d under its lowercased name, replacing any previous
// registration.
func Register(d *Dialect) {
	mu.Lock()
	registry[strings.ToLower(d.Name)] = d
	mu.Unlock()
}

// Get looks up a dialect by name, case-insensitively.
func Get(name string) (*Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := registry[strings.ToLower(name)]
	return d, ok
}

// List returns the registered dialect names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
