package indexeddb

import (
	"fmt"
	"slices"
)

// StoreSchema declares a single object store.
type StoreSchema struct {
	// Name identifies the store within its database.
	Name string

	// PrimaryKey is the key path of the store's primary key.
	PrimaryKey string

	// PrimaryKeyAuto asks the engine to generate primary keys.
	PrimaryKeyAuto bool

	// UniqueIndexes lists index fields whose values must be unique.
	UniqueIndexes []string

	// Indexes lists non-unique index fields.
	Indexes []string
}

// DatabaseSchema declares a database and its stores. Version bumps are
// accepted as configuration only; no migration logic runs against them.
type DatabaseSchema struct {
	// Name identifies the database.
	Name string

	// Version is the schema version handed to the engine on open.
	Version int

	// Stores lists the stores to create, in declaration order.
	Stores []StoreSchema
}

// Validate reports whether the schema can be used to build a database.
func (s DatabaseSchema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidSchema)
	}

	seen := make(map[string]struct{}, len(s.Stores))
	for _, st := range s.Stores {
		if st.Name == "" {
			return fmt.Errorf("%w: database %q declares a store without a name", ErrInvalidSchema, s.Name)
		}
		if _, ok := seen[st.Name]; ok {
			return fmt.Errorf("%w: database %q declares store %q twice", ErrInvalidSchema, s.Name, st.Name)
		}
		seen[st.Name] = struct{}{}
	}
	return nil
}

// Store returns the declared store with the given name.
func (s DatabaseSchema) Store(name string) (StoreSchema, bool) {
	for _, st := range s.Stores {
		if st.Name == name {
			return st, true
		}
	}
	return StoreSchema{}, false
}

// StoreNames returns the declared store names in declaration order.
func (s DatabaseSchema) StoreNames() []string {
	names := make([]string, 0, len(s.Stores))
	for _, st := range s.Stores {
		names = append(names, st.Name)
	}
	return names
}

// Clone returns a deep copy so callers cannot mutate a registered schema.
func (s DatabaseSchema) Clone() DatabaseSchema {
	out := DatabaseSchema{Name: s.Name, Version: s.Version}
	if s.Stores != nil {
		out.Stores = make([]StoreSchema, len(s.Stores))
		for i, st := range s.Stores {
			st.UniqueIndexes = slices.Clone(st.UniqueIndexes)
			st.Indexes = slices.Clone(st.Indexes)
			out.Stores[i] = st
		}
	}
	return out
}

// AddStore appends a store declaration and returns the schema for chaining.
// It is meant for the option functions passed to registration hooks.
func (s *DatabaseSchema) AddStore(name string, indexes ...string) *DatabaseSchema {
	s.Stores = append(s.Stores, StoreSchema{Name: name, Indexes: indexes})
	return s
}
