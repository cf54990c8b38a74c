package hostdb

import (
	"fmt"

	"github.com/tarmac-project/indexeddb"
	"github.com/tarmac-project/indexeddb/internal/managers"
	"github.com/tarmac-project/indexeddb/logging"
	"github.com/tarmac-project/indexeddb/metrics"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// FactoryConfig controls construction of a Factory.
type FactoryConfig struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig indexeddb.RuntimeConfig

	// Databases lists the schemas the factory serves.
	Databases []indexeddb.DatabaseSchema

	// HostCall overrides the waPC host function used by every client.
	HostCall HostCall

	// Logger is handed to every client. Nil discards logs.
	Logger logging.Client

	// Metrics is shared by every client. Nil disables instrumentation.
	Metrics *metrics.Operations
}

// Factory implements indexeddb.Factory over host-backed clients.
type Factory struct {
	cache *managers.Cache
}

// Ensure Factory satisfies the Factory interface at compile time.
var _ indexeddb.Factory = (*Factory)(nil)

// NewFactory validates the registered databases. Clients are built and opened
// on the first lookup.
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	cache, err := managers.New(cfg.Databases, func(s indexeddb.DatabaseSchema) (indexeddb.Manager, error) {
		return New(Config{
			SDKConfig: cfg.SDKConfig,
			Schema:    s,
			HostCall:  cfg.HostCall,
			Logger:    cfg.Logger,
			Metrics:   cfg.Metrics,
		})
	})
	if err != nil {
		return nil, err
	}
	return &Factory{cache: cache}, nil
}

// GetManager returns the client for the named database, or
// indexeddb.ErrDatabaseNotFound.
func (f *Factory) GetManager(name string) (indexeddb.Manager, error) {
	m, err := f.cache.Get(name)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (f *Factory) GetManagerFor(schema indexeddb.DatabaseSchema) (indexeddb.Manager, error) {
	return f.GetManager(schema.Name)
}

// HandleCompletion routes a host completion to the client of the database it
// names.
func (f *Factory) HandleCompletion(payload []byte) ([]byte, error) {
	db, tx, failed, message, err := decodeCompletion(payload)
	if err != nil {
		return nil, err
	}

	m, err := f.cache.Get(db)
	if err != nil {
		return nil, err
	}
	c, ok := m.(*Client)
	if !ok {
		return nil, fmt.Errorf("unexpected manager type %T", m)
	}
	return nil, c.CalledFromHost(tx, failed, message)
}

// RegisterCompletions exposes HandleCompletion to the host as the
// indexeddb_completed guest function.
func (f *Factory) RegisterCompletions() {
	wapc.RegisterFunction(FnCompleted, f.HandleCompletion)
}
