package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Factory builds an unconnected adapter. A nil logger means the adapter
// logs nowhere.
type Factory func(*slog.Logger) Adapter

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds a factory under a type name. The pkg/adapters packages
// call this from init, so blank-importing one enables its type.
func Register(name string, factory Factory) {
	mu.Lock()
	factories[name] = factory
	mu.Unlock()
}

// NewAdapter builds the adapter for cfg.Type. The result is not yet
// connected.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}
	mu.RLock()
	factory, ok := factories[cfg.Type]
	mu.RUnlock()
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	return factory(logger), nil
}

// ListAdapters returns the registered type names, sorted.
func ListAdapters() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a type name has a factory.
func IsRegistered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[name]
	return ok
}

// UnknownAdapterError reports a request for a type nothing registered.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q (available: %v)", e.Type, e.Available)
}
