package mock

import (
	"fmt"

	"github.com/tarmac-project/indexeddb"
	"github.com/tarmac-project/indexeddb/internal/managers"
	"github.com/tarmac-project/indexeddb/logging"
)

// Config controls construction of a Factory.
type Config struct {
	// Databases lists the schemas the factory serves.
	Databases []indexeddb.DatabaseSchema

	// Logger is handed to every Manager the factory builds.
	Logger logging.Client
}

// AddDatabase registers a database built by options, in the same way a test
// context registers the real client.
func (c *Config) AddDatabase(options func(*indexeddb.DatabaseSchema)) *Config {
	var s indexeddb.DatabaseSchema
	if options != nil {
		options(&s)
	}
	c.Databases = append(c.Databases, s)
	return c
}

// Factory implements indexeddb.Factory over in-memory managers.
type Factory struct {
	cache *managers.Cache
}

// Compile-time check: ensure Factory implements the indexeddb.Factory interface.
var _ indexeddb.Factory = (*Factory)(nil)

// New validates the registered databases and returns a Factory. Managers
// are built lazily on the first lookup.
func New(cfg Config) (*Factory, error) {
	logger := cfg.Logger
	cache, err := managers.New(cfg.Databases, func(s indexeddb.DatabaseSchema) (indexeddb.Manager, error) {
		return NewManager(ManagerConfig{Schema: s, Logger: logger})
	})
	if err != nil {
		return nil, err
	}
	return &Factory{cache: cache}, nil
}

// GetManager returns the manager for the named database. The first call
// builds and opens managers for every registered database; later calls reuse
// them. An unregistered name yields a nil manager and
// indexeddb.ErrDatabaseNotFound.
func (f *Factory) GetManager(name string) (indexeddb.Manager, error) {
	m, err := f.cache.Get(name)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetManagerFor looks a manager up by the schema's name.
func (f *Factory) GetManagerFor(schema indexeddb.DatabaseSchema) (indexeddb.Manager, error) {
	return f.GetManager(schema.Name)
}

// Manager is GetManager returning the concrete mock, for scripting
// responses and inspecting calls.
func (f *Factory) Manager(name string) (*Manager, error) {
	m, err := f.cache.Get(name)
	if err != nil {
		return nil, err
	}
	mm, ok := m.(*Manager)
	if !ok {
		return nil, fmt.Errorf("unexpected manager type %T", m)
	}
	return mm, nil
}
