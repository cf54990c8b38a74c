package mock

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/tarmac-project/indexeddb"
	"github.com/tarmac-project/indexeddb/logging"
	"github.com/tarmac-project/indexeddb/memstore"
)

// Operation names recorded in Call.Op and used for scripted responses.
const (
	OpOpen              = "OPEN"
	OpDeleteDB          = "DELETE_DB"
	OpAddRecord         = "ADD"
	OpBulkAddRecord     = "BULK_ADD"
	OpPutRecord         = "PUT"
	OpUpdateRecord      = "UPDATE"
	OpGetRecordByID     = "GET_BY_ID"
	OpGetRecordByIndex  = "GET_BY_INDEX"
	OpGetRecordByFilter = "GET_BY_FILTER"
	OpWhere             = "WHERE"
	OpWhereFilters      = "WHERE_FILTERS"
	OpToArray           = "TO_ARRAY"
	OpDeleteRecord      = "DELETE"
	OpClearTable        = "CLEAR"
	OpCalledFromHost    = "CALLED_FROM_HOST"
)

// Call records an operation performed against the mock.
type Call struct {
	Op      string
	Store   string
	Index   string
	Value   any
	Records []any
}

// Response describes a scripted outcome for an operation.
type Response struct {
	// Err is returned by the operation and reported in a failed Event.
	Err error
}

// ResponseBuilder allows fluent configuration of responses.
type ResponseBuilder struct {
	m   *Manager
	key string // composite key: OP + " " + store
}

// ReturnError makes the configured operation fail with err. A nil err
// removes the scripted response.
func (b *ResponseBuilder) ReturnError(err error) *Manager {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	if err == nil {
		delete(b.m.responses, b.key)
		return b.m
	}
	b.m.responses[b.key] = Response{Err: err}
	return b.m
}

// ManagerConfig configures a standalone Manager.
type ManagerConfig struct {
	// Schema declares the database and its stores.
	Schema indexeddb.DatabaseSchema

	// Logger receives debug entries for every operation. Nil discards them.
	Logger logging.Client
}

// Manager implements indexeddb.Manager in memory.
type Manager struct {
	registry *memstore.Registry
	log      logging.Client

	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// Compile-time check: ensure Manager implements the indexeddb.Manager interface.
var _ indexeddb.Manager = (*Manager)(nil)

// NewManager creates a Manager with one empty table per declared store.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	registry, err := memstore.New(cfg.Schema)
	if err != nil {
		return nil, err
	}

	return &Manager{
		registry:  registry,
		log:       logging.OrDiscard(cfg.Logger),
		responses: make(map[string]Response),
		calls:     []Call{},
	}, nil
}

// OnOpen configures the Open response.
func (m *Manager) OnOpen() *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpOpen}
}

// OnAddRecord configures the AddRecord response for a store.
func (m *Manager) OnAddRecord(store string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpAddRecord + " " + store}
}

// OnBulkAddRecord configures the BulkAddRecord response for a store.
func (m *Manager) OnBulkAddRecord(store string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpBulkAddRecord + " " + store}
}

// Calls returns the history of operations for assertions.
func (m *Manager) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Records returns a snapshot of a store's contents in insertion order.
func (m *Manager) Records(store string) ([]any, error) {
	t, err := m.registry.Table(store)
	if err != nil {
		return nil, err
	}
	return t.All(), nil
}

func (m *Manager) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *Manager) scripted(key string) (Response, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[key]
	return r, ok
}

func (m *Manager) unsupported(c Call) error {
	m.record(c)
	m.log.Warn(fmt.Sprintf("%s on %q is not supported by the in-memory database", c.Op, c.Store))
	return fmt.Errorf("%w: %s", indexeddb.ErrNotSupported, c.Op)
}

// DBName returns the database name.
func (m *Manager) DBName() string { return m.registry.Schema().Name }

// CurrentVersion returns the declared schema version.
func (m *Manager) CurrentVersion() int { return m.registry.Schema().Version }

// Stores returns the declared stores.
func (m *Manager) Stores() []indexeddb.StoreSchema { return m.registry.Schema().Stores }

// Open always succeeds unless scripted otherwise; the stores exist from
// construction on.
func (m *Manager) Open(done indexeddb.Callback) (uuid.UUID, error) {
	m.record(Call{Op: OpOpen})

	e := indexeddb.Event{Transaction: uuid.New()}
	if r, ok := m.scripted(OpOpen); ok {
		e.Failed, e.Message = true, r.Err.Error()
		done.Notify(e)
		return e.Transaction, r.Err
	}

	m.log.Debug(fmt.Sprintf("opened database %q version %d", m.DBName(), m.CurrentVersion()))
	done.Notify(e)
	return e.Transaction, nil
}

// AddRecord appends rec.Record to its store and reports success through done.
func (m *Manager) AddRecord(rec indexeddb.StoreRecord, done indexeddb.Callback) (uuid.UUID, error) {
	e, err := m.AddRecordWait(rec)
	if e.Transaction != uuid.Nil {
		done.Notify(e)
	}
	return e.Transaction, err
}

// AddRecordWait appends rec.Record to its store and returns the completion event.
func (m *Manager) AddRecordWait(rec indexeddb.StoreRecord) (indexeddb.Event, error) {
	return m.add(OpAddRecord, rec.StoreName, []any{rec.Record})
}

// BulkAddRecord appends records to a store in order and reports success
// through done.
func (m *Manager) BulkAddRecord(store string, records []any, done indexeddb.Callback) (uuid.UUID, error) {
	e, err := m.BulkAddRecordWait(store, records)
	if e.Transaction != uuid.Nil {
		done.Notify(e)
	}
	return e.Transaction, err
}

// BulkAddRecordWait appends records to a store in order and returns the
// completion event.
func (m *Manager) BulkAddRecordWait(store string, records []any) (indexeddb.Event, error) {
	return m.add(OpBulkAddRecord, store, records)
}

// add is shared by the single and bulk flavors. Unknown stores return a zero
// Event, scripted failures return a failed Event; neither touches the table.
func (m *Manager) add(op, store string, records []any) (indexeddb.Event, error) {
	m.record(Call{Op: op, Store: store, Records: slices.Clone(records)})

	t, err := m.registry.Table(store)
	if err != nil {
		return indexeddb.Event{}, err
	}

	e := indexeddb.Event{Transaction: uuid.New()}
	if r, ok := m.scripted(op + " " + store); ok {
		e.Failed, e.Message = true, r.Err.Error()
		m.log.Debug(fmt.Sprintf("%s %q failed as scripted: %v", op, store, r.Err))
		return e, r.Err
	}

	t.Append(records...)
	m.log.Debug(fmt.Sprintf("%s %q: %d record(s)", op, store, len(records)))
	return e, nil
}

// GetRecordByIndex returns the first record, in insertion order, whose index
// field equals value. It returns nil when nothing matches.
func (m *Manager) GetRecordByIndex(store, index string, value any) (any, error) {
	m.record(Call{Op: OpGetRecordByIndex, Store: store, Index: index, Value: value})

	t, err := m.registry.Table(store)
	if err != nil {
		return nil, err
	}
	rec, _ := t.First(index, value)
	return rec, nil
}

// Where returns every record whose index field equals value, in insertion
// order. The result is empty, not nil, when nothing matches.
func (m *Manager) Where(store, index string, value any) ([]any, error) {
	m.record(Call{Op: OpWhere, Store: store, Index: index, Value: value})

	t, err := m.registry.Table(store)
	if err != nil {
		return nil, err
	}
	return t.Filter(index, value), nil
}

// DeleteDB is not supported.
func (m *Manager) DeleteDB(name string, _ indexeddb.Callback) (uuid.UUID, error) {
	return uuid.Nil, m.unsupported(Call{Op: OpDeleteDB, Value: name})
}

// DeleteDBWait is not supported.
func (m *Manager) DeleteDBWait(name string) (indexeddb.Event, error) {
	return indexeddb.Event{}, m.unsupported(Call{Op: OpDeleteDB, Value: name})
}

// PutRecord is not supported.
func (m *Manager) PutRecord(rec indexeddb.StoreRecord, _ indexeddb.Callback) (uuid.UUID, error) {
	return uuid.Nil, m.unsupported(Call{Op: OpPutRecord, Store: rec.StoreName, Records: []any{rec.Record}})
}

// PutRecordWait is not supported.
func (m *Manager) PutRecordWait(rec indexeddb.StoreRecord) (indexeddb.Event, error) {
	return indexeddb.Event{}, m.unsupported(Call{Op: OpPutRecord, Store: rec.StoreName, Records: []any{rec.Record}})
}

// UpdateRecord is not supported.
func (m *Manager) UpdateRecord(rec indexeddb.UpdateRecord, _ indexeddb.Callback) (uuid.UUID, error) {
	return uuid.Nil, m.unsupported(Call{Op: OpUpdateRecord, Store: rec.StoreName, Value: rec.Key, Records: []any{rec.Record}})
}

// UpdateRecordWait is not supported.
func (m *Manager) UpdateRecordWait(rec indexeddb.UpdateRecord) (indexeddb.Event, error) {
	return indexeddb.Event{}, m.unsupported(Call{Op: OpUpdateRecord, Store: rec.StoreName, Value: rec.Key, Records: []any{rec.Record}})
}

// GetRecordByID is not supported.
func (m *Manager) GetRecordByID(store string, key any) (any, error) {
	return nil, m.unsupported(Call{Op: OpGetRecordByID, Store: store, Value: key})
}

// GetRecordByFilter is not supported.
func (m *Manager) GetRecordByFilter(store string, filter indexeddb.IndexFilter) (any, error) {
	return nil, m.unsupported(Call{Op: OpGetRecordByFilter, Store: store, Index: filter.Index, Value: filter.Value})
}

// WhereFilters is not supported.
func (m *Manager) WhereFilters(store string, filters []indexeddb.IndexFilter) ([]any, error) {
	return nil, m.unsupported(Call{Op: OpWhereFilters, Store: store, Value: slices.Clone(filters)})
}

// ToArray is not supported.
func (m *Manager) ToArray(store string) ([]any, error) {
	return nil, m.unsupported(Call{Op: OpToArray, Store: store})
}

// DeleteRecord is not supported.
func (m *Manager) DeleteRecord(store string, key any, _ indexeddb.Callback) (uuid.UUID, error) {
	return uuid.Nil, m.unsupported(Call{Op: OpDeleteRecord, Store: store, Value: key})
}

// DeleteRecordWait is not supported.
func (m *Manager) DeleteRecordWait(store string, key any) (indexeddb.Event, error) {
	return indexeddb.Event{}, m.unsupported(Call{Op: OpDeleteRecord, Store: store, Value: key})
}

// ClearTable is not supported.
func (m *Manager) ClearTable(store string, _ indexeddb.Callback) (uuid.UUID, error) {
	return uuid.Nil, m.unsupported(Call{Op: OpClearTable, Store: store})
}

// ClearTableWait is not supported.
func (m *Manager) ClearTableWait(store string) (indexeddb.Event, error) {
	return indexeddb.Event{}, m.unsupported(Call{Op: OpClearTable, Store: store})
}

// CalledFromHost is unreachable in memory: nothing ever completes later.
func (m *Manager) CalledFromHost(tx uuid.UUID, _ bool, _ string) error {
	return m.unsupported(Call{Op: OpCalledFromHost, Value: tx})
}

// Example errors used in tests of this mock. Exported for convenience.
var (
	// ErrExample is a sentinel error to help tests customize failures.
	ErrExample = errors.New("indexeddb mock example error")
)
