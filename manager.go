package indexeddb

import "github.com/google/uuid"

// Event describes the outcome of an operation.
type Event struct {
	// Transaction correlates the event with the call that produced it.
	Transaction uuid.UUID

	// Failed reports whether the operation failed.
	Failed bool

	// Message is a human-readable detail, empty on success.
	Message string
}

// Callback receives the completion event of a fire-and-forget operation.
// A nil Callback is allowed and ignored.
type Callback func(Event)

// Notify invokes the callback when it is set.
func (c Callback) Notify(e Event) {
	if c != nil {
		c(e)
	}
}

// StoreRecord names a record together with its target store.
type StoreRecord struct {
	StoreName string
	Record    any
}

// UpdateRecord is a StoreRecord addressed by primary key.
type UpdateRecord struct {
	StoreRecord
	Key any
}

// IndexFilter selects records whose Index field equals Value.
type IndexFilter struct {
	Index string
	Value any
}

// Manager is the client contract for a single IndexedDB database.
//
// Mutating operations come in two flavors. The plain form returns the
// transaction identifier and reports completion through the Callback. The
// Wait form returns the completion Event directly.
type Manager interface {
	// DBName returns the database name.
	DBName() string

	// CurrentVersion returns the schema version the database was opened with.
	CurrentVersion() int

	// Stores returns the declared stores.
	Stores() []StoreSchema

	// Open opens the database, creating declared stores when needed.
	Open(done Callback) (uuid.UUID, error)

	// DeleteDB deletes the named database.
	DeleteDB(name string, done Callback) (uuid.UUID, error)
	DeleteDBWait(name string) (Event, error)

	// AddRecord adds a record to its store.
	AddRecord(rec StoreRecord, done Callback) (uuid.UUID, error)
	AddRecordWait(rec StoreRecord) (Event, error)

	// BulkAddRecord adds records to a store in a single operation, preserving order.
	BulkAddRecord(store string, records []any, done Callback) (uuid.UUID, error)
	BulkAddRecordWait(store string, records []any) (Event, error)

	// PutRecord adds or replaces a record.
	PutRecord(rec StoreRecord, done Callback) (uuid.UUID, error)
	PutRecordWait(rec StoreRecord) (Event, error)

	// UpdateRecord replaces the record stored under rec.Key.
	UpdateRecord(rec UpdateRecord, done Callback) (uuid.UUID, error)
	UpdateRecordWait(rec UpdateRecord) (Event, error)

	// GetRecordByID returns the record stored under key.
	GetRecordByID(store string, key any) (any, error)

	// GetRecordByIndex returns the first record whose index field equals value,
	// or nil when none does.
	GetRecordByIndex(store, index string, value any) (any, error)
	GetRecordByFilter(store string, filter IndexFilter) (any, error)

	// Where returns every record whose index field equals value.
	Where(store, index string, value any) ([]any, error)
	WhereFilters(store string, filters []IndexFilter) ([]any, error)

	// ToArray returns every record in the store.
	ToArray(store string) ([]any, error)

	// DeleteRecord deletes the record stored under key.
	DeleteRecord(store string, key any, done Callback) (uuid.UUID, error)
	DeleteRecordWait(store string, key any) (Event, error)

	// ClearTable removes every record but keeps the store.
	ClearTable(store string, done Callback) (uuid.UUID, error)
	ClearTableWait(store string) (Event, error)

	// CalledFromHost delivers the asynchronous completion of a transaction.
	CalledFromHost(tx uuid.UUID, failed bool, message string) error
}

// Factory hands out one Manager per registered database.
type Factory interface {
	// GetManager returns the manager for the named database, or
	// ErrDatabaseNotFound when no such database was registered.
	GetManager(name string) (Manager, error)

	// GetManagerFor looks a manager up by the schema's name.
	GetManagerFor(schema DatabaseSchema) (Manager, error)
}
