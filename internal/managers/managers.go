// Package managers implements the lazily populated manager cache shared by
// the IndexedDB factories.
package managers

import (
	"fmt"
	"sync"

	"github.com/tarmac-project/indexeddb"
)

// Builder constructs an unopened manager for a schema.
type Builder func(indexeddb.DatabaseSchema) (indexeddb.Manager, error)

// Cache builds every registered manager on first access and reuses them
// afterwards. A lookup for an unregistered name still triggers population.
type Cache struct {
	mu       sync.Mutex
	schemas  []indexeddb.DatabaseSchema
	build    Builder
	managers map[string]indexeddb.Manager
}

// New validates the schemas and returns an empty cache.
func New(schemas []indexeddb.DatabaseSchema, build Builder) (*Cache, error) {
	seen := make(map[string]struct{}, len(schemas))
	owned := make([]indexeddb.DatabaseSchema, 0, len(schemas))
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", indexeddb.ErrDuplicateDatabase, s.Name)
		}
		seen[s.Name] = struct{}{}
		owned = append(owned, s.Clone())
	}

	return &Cache{
		schemas:  owned,
		build:    build,
		managers: make(map[string]indexeddb.Manager),
	}, nil
}

// Get returns the manager for name, populating the cache first when it is
// empty.
func (c *Cache) Get(name string) (indexeddb.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.managers) == 0 {
		if err := c.populate(); err != nil {
			return nil, err
		}
	}

	m, ok := c.managers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", indexeddb.ErrDatabaseNotFound, name)
	}
	return m, nil
}

// Len returns the number of managers built so far.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.managers)
}

// populate builds and opens every manager. The cache is only updated once all
// of them succeed.
func (c *Cache) populate() error {
	built := make(map[string]indexeddb.Manager, len(c.schemas))
	for _, s := range c.schemas {
		m, err := c.build(s.Clone())
		if err != nil {
			return fmt.Errorf("building manager for %q: %w", s.Name, err)
		}
		if _, err := m.Open(nil); err != nil {
			return fmt.Errorf("opening database %q: %w", s.Name, err)
		}
		built[s.Name] = m
	}
	c.managers = built
	return nil
}
