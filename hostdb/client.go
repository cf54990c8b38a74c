package hostdb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tarmac-project/indexeddb"
	"github.com/tarmac-project/indexeddb/logging"
	"github.com/tarmac-project/indexeddb/metrics"
	wapc "github.com/wapc/wapc-guest-tinygo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// HostCall defines the waPC host function signature used by IndexedDB operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig indexeddb.RuntimeConfig

	// Schema describes the database this client manages.
	Schema indexeddb.DatabaseSchema

	// HostCall overrides the waPC host function used for IndexedDB operations.
	HostCall HostCall

	// Logger receives operation logs. Nil discards them.
	Logger logging.Client

	// Metrics records operation outcomes. Nil disables instrumentation.
	Metrics *metrics.Operations
}

// Client is the host-backed IndexedDB manager.
type Client struct {
	runtime  indexeddb.RuntimeConfig
	schema   indexeddb.DatabaseSchema
	hostCall HostCall
	log      logging.Client
	metrics  *metrics.Operations

	mu       sync.Mutex
	pending  map[uuid.UUID]indexeddb.Callback
	deferred map[uuid.UUID]bool
}

// Ensure Client satisfies the Manager interface at compile time.
var _ indexeddb.Manager = (*Client)(nil)

// New validates the schema and creates a client. The database is not opened.
func New(cfg Config) (*Client, error) {
	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &Client{
		runtime:  cfg.SDKConfig.WithDefaults(),
		schema:   cfg.Schema.Clone(),
		hostCall: hostCall,
		log:      logging.OrDiscard(cfg.Logger),
		metrics:  cfg.Metrics,
		pending:  make(map[uuid.UUID]indexeddb.Callback),
		deferred: make(map[uuid.UUID]bool),
	}, nil
}

func (c *Client) DBName() string { return c.schema.Name }

func (c *Client) CurrentVersion() int { return c.schema.Version }

func (c *Client) Stores() []indexeddb.StoreSchema { return c.schema.Clone().Stores }

// Open asks the host to open the database, creating the declared stores when
// the browser does not have them yet.
func (c *Client) Open(done indexeddb.Callback) (uuid.UUID, error) {
	return c.fire(fnOpen, map[string]any{
		keyVersion: c.schema.Version,
		keyStores:  storesValue(c.schema.Stores),
	}, done)
}

func (c *Client) DeleteDB(name string, done indexeddb.Callback) (uuid.UUID, error) {
	return c.fire(fnDeleteDB, map[string]any{keyName: name}, done)
}

func (c *Client) DeleteDBWait(name string) (indexeddb.Event, error) {
	return c.wait(fnDeleteDB, map[string]any{keyName: name})
}

func (c *Client) AddRecord(rec indexeddb.StoreRecord, done indexeddb.Callback) (uuid.UUID, error) {
	fields, err := recordFields(rec)
	if err != nil {
		return uuid.Nil, err
	}
	return c.fire(fnAdd, fields, done)
}

func (c *Client) AddRecordWait(rec indexeddb.StoreRecord) (indexeddb.Event, error) {
	fields, err := recordFields(rec)
	if err != nil {
		return indexeddb.Event{}, err
	}
	return c.wait(fnAdd, fields)
}

func (c *Client) BulkAddRecord(store string, records []any, done indexeddb.Callback) (uuid.UUID, error) {
	fields, err := bulkFields(store, records)
	if err != nil {
		return uuid.Nil, err
	}
	c.metrics.BatchSize(len(records))
	return c.fire(fnBulkAdd, fields, done)
}

func (c *Client) BulkAddRecordWait(store string, records []any) (indexeddb.Event, error) {
	fields, err := bulkFields(store, records)
	if err != nil {
		return indexeddb.Event{}, err
	}
	c.metrics.BatchSize(len(records))
	return c.wait(fnBulkAdd, fields)
}

func (c *Client) PutRecord(rec indexeddb.StoreRecord, done indexeddb.Callback) (uuid.UUID, error) {
	fields, err := recordFields(rec)
	if err != nil {
		return uuid.Nil, err
	}
	return c.fire(fnPut, fields, done)
}

func (c *Client) PutRecordWait(rec indexeddb.StoreRecord) (indexeddb.Event, error) {
	fields, err := recordFields(rec)
	if err != nil {
		return indexeddb.Event{}, err
	}
	return c.wait(fnPut, fields)
}

func (c *Client) UpdateRecord(rec indexeddb.UpdateRecord, done indexeddb.Callback) (uuid.UUID, error) {
	fields, err := updateFields(rec)
	if err != nil {
		return uuid.Nil, err
	}
	return c.fire(fnUpdate, fields, done)
}

func (c *Client) UpdateRecordWait(rec indexeddb.UpdateRecord) (indexeddb.Event, error) {
	fields, err := updateFields(rec)
	if err != nil {
		return indexeddb.Event{}, err
	}
	return c.wait(fnUpdate, fields)
}

func (c *Client) DeleteRecord(store string, key any, done indexeddb.Callback) (uuid.UUID, error) {
	fields, err := keyFields(store, key)
	if err != nil {
		return uuid.Nil, err
	}
	return c.fire(fnDelete, fields, done)
}

func (c *Client) DeleteRecordWait(store string, key any) (indexeddb.Event, error) {
	fields, err := keyFields(store, key)
	if err != nil {
		return indexeddb.Event{}, err
	}
	return c.wait(fnDelete, fields)
}

func (c *Client) ClearTable(store string, done indexeddb.Callback) (uuid.UUID, error) {
	return c.fire(fnClear, map[string]any{keyStore: store}, done)
}

func (c *Client) ClearTableWait(store string) (indexeddb.Event, error) {
	return c.wait(fnClear, map[string]any{keyStore: store})
}

func (c *Client) GetRecordByID(store string, key any) (any, error) {
	fields, err := keyFields(store, key)
	if err != nil {
		return nil, err
	}
	resp, err := c.query(fnGetByID, fields)
	if err != nil {
		return nil, err
	}
	return resp.GetFields()[keyRecord].AsInterface(), nil
}

func (c *Client) GetRecordByIndex(store, index string, value any) (any, error) {
	return c.GetRecordByFilter(store, indexeddb.IndexFilter{Index: index, Value: value})
}

func (c *Client) GetRecordByFilter(store string, filter indexeddb.IndexFilter) (any, error) {
	v, err := plain(filter.Value)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	resp, err := c.query(fnGetByIndex, map[string]any{keyStore: store, keyIndex: filter.Index, keyValue: v})
	if err != nil {
		return nil, err
	}
	return resp.GetFields()[keyRecord].AsInterface(), nil
}

func (c *Client) Where(store, index string, value any) ([]any, error) {
	return c.WhereFilters(store, []indexeddb.IndexFilter{{Index: index, Value: value}})
}

func (c *Client) WhereFilters(store string, filters []indexeddb.IndexFilter) ([]any, error) {
	f, err := filtersValue(filters)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	resp, err := c.query(fnWhere, map[string]any{keyStore: store, keyFilters: f})
	if err != nil {
		return nil, err
	}
	return records(resp), nil
}

func (c *Client) ToArray(store string) ([]any, error) {
	resp, err := c.query(fnToArray, map[string]any{keyStore: store})
	if err != nil {
		return nil, err
	}
	return records(resp), nil
}

// CalledFromHost resolves a transaction the host accepted with a deferred
// completion.
func (c *Client) CalledFromHost(tx uuid.UUID, failed bool, message string) error {
	c.mu.Lock()
	done, ok := c.pending[tx]
	delete(c.pending, tx)
	deferred := ok && c.deferred[tx]
	delete(c.deferred, tx)
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", indexeddb.ErrUnknownTransaction, tx)
	}

	if deferred {
		c.metrics.Resolved()
	}
	c.metrics.Completed(failed)
	if failed {
		c.log.Warn(fmt.Sprintf("transaction %s on %s failed: %s", tx, c.schema.Name, message))
	} else {
		c.log.Debug(fmt.Sprintf("transaction %s on %s completed", tx, c.schema.Name))
	}

	done.Notify(indexeddb.Event{Transaction: tx, Failed: failed, Message: message})
	return nil
}

// HandleCompletion decodes a completion delivered by the host and resolves
// the transaction it names.
func (c *Client) HandleCompletion(payload []byte) ([]byte, error) {
	_, tx, failed, message, err := decodeCompletion(payload)
	if err != nil {
		return nil, err
	}
	return nil, c.CalledFromHost(tx, failed, message)
}

// Pending returns the number of transactions awaiting a host completion.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Client) fire(fn string, fields map[string]any, done indexeddb.Callback) (uuid.UUID, error) {
	tx := uuid.New()

	// The host may deliver the completion before the call returns.
	c.mu.Lock()
	c.pending[tx] = done
	c.mu.Unlock()

	e, deferred, err := c.mutate(fn, tx, fields, false)
	if deferred {
		// A completion delivered during the call already resolved it. The
		// gauge moves under the lock so Resolved can never run first.
		c.mu.Lock()
		if _, ok := c.pending[tx]; ok {
			c.deferred[tx] = true
			c.metrics.Deferred()
		}
		c.mu.Unlock()
		return tx, nil
	}

	c.mu.Lock()
	_, stillPending := c.pending[tx]
	delete(c.pending, tx)
	c.mu.Unlock()

	if stillPending && e.Transaction != uuid.Nil {
		done.Notify(e)
	}
	return tx, err
}

func (c *Client) wait(fn string, fields map[string]any) (indexeddb.Event, error) {
	e, _, err := c.mutate(fn, uuid.New(), fields, true)
	return e, err
}

// mutate performs one mutating host call. A zero Event means the exchange
// itself broke and no outcome is known.
func (c *Client) mutate(fn string, tx uuid.UUID, fields map[string]any, wait bool) (indexeddb.Event, bool, error) {
	fields[keyDB] = c.schema.Name
	fields[keyTransaction] = tx.String()
	if wait {
		fields[keyWait] = true
	}

	payload, err := encode(fields)
	if err != nil {
		return indexeddb.Event{}, false, err
	}

	c.log.Debug(fmt.Sprintf("%s on %s (transaction %s)", fn, c.schema.Name, tx))
	resp, callErr := c.hostCall(c.runtime.Namespace, indexeddb.Capability, fn, payload)
	if callErr != nil && len(resp) == 0 {
		c.log.Error(fmt.Sprintf("%s on %s: host call failed: %s", fn, c.schema.Name, callErr))
		return indexeddb.Event{}, false, errors.Join(indexeddb.ErrHostCall, callErr)
	}

	status, err := decodeStatus(resp)
	if err != nil {
		if callErr != nil {
			err = errors.Join(indexeddb.ErrHostCall, callErr, err)
		}
		return indexeddb.Event{}, false, err
	}

	if status.GetCode() == hostStatusAccepted && callErr == nil {
		if wait {
			return indexeddb.Event{}, false, fmt.Errorf("%w: %s deferred a synchronous call", indexeddb.ErrHostResponseInvalid, fn)
		}
		c.log.Debug(fmt.Sprintf("%s on %s deferred (transaction %s)", fn, c.schema.Name, tx))
		return indexeddb.Event{Transaction: tx}, true, nil
	}

	if err := validateStatus(status, callErr); err != nil {
		if !failedStatus(err) {
			return indexeddb.Event{}, false, err
		}
		c.metrics.Completed(true)
		c.log.Warn(fmt.Sprintf("%s on %s failed: %s", fn, c.schema.Name, err))
		return indexeddb.Event{Transaction: tx, Failed: true, Message: status.GetStatus()}, false, err
	}

	c.metrics.Completed(false)
	return indexeddb.Event{Transaction: tx}, false, nil
}

func (c *Client) query(fn string, fields map[string]any) (*structpb.Struct, error) {
	fields[keyDB] = c.schema.Name

	payload, err := encode(fields)
	if err != nil {
		return nil, err
	}

	c.log.Trace(fmt.Sprintf("%s on %s", fn, c.schema.Name))
	resp, callErr := c.hostCall(c.runtime.Namespace, indexeddb.Capability, fn, payload)
	if callErr != nil && len(resp) == 0 {
		c.log.Error(fmt.Sprintf("%s on %s: host call failed: %s", fn, c.schema.Name, callErr))
		return nil, errors.Join(indexeddb.ErrHostCall, callErr)
	}

	out, status, err := decodeQuery(resp)
	if err != nil {
		if callErr != nil {
			err = errors.Join(indexeddb.ErrHostCall, callErr, err)
		}
		return nil, err
	}
	if err := validateStatus(status, callErr); err != nil {
		return nil, err
	}
	return out, nil
}

func recordFields(rec indexeddb.StoreRecord) (map[string]any, error) {
	v, err := plain(rec.Record)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	return map[string]any{keyStore: rec.StoreName, keyRecord: v}, nil
}

func updateFields(rec indexeddb.UpdateRecord) (map[string]any, error) {
	fields, err := recordFields(rec.StoreRecord)
	if err != nil {
		return nil, err
	}
	k, err := plain(rec.Key)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	fields[keyKey] = k
	return fields, nil
}

func bulkFields(store string, records []any) (map[string]any, error) {
	vs, err := plainAll(records)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	return map[string]any{keyStore: store, keyRecords: vs}, nil
}

func keyFields(store string, key any) (map[string]any, error) {
	k, err := plain(key)
	if err != nil {
		return nil, errors.Join(indexeddb.ErrMarshalRequest, err)
	}
	return map[string]any{keyStore: store, keyKey: k}, nil
}

// records extracts the record list of a query response, never nil.
func records(resp *structpb.Struct) []any {
	out := resp.GetFields()[keyRecords].GetListValue().AsSlice()
	if out == nil {
		return []any{}
	}
	return out
}

// decodeCompletion reads a completion payload: db, transaction, failed and
// message.
func decodeCompletion(payload []byte) (string, uuid.UUID, bool, string, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(payload, &s); err != nil {
		return "", uuid.Nil, false, "", errors.Join(indexeddb.ErrUnmarshalResponse, err)
	}

	f := s.GetFields()
	tx, err := uuid.Parse(f[keyTransaction].GetStringValue())
	if err != nil {
		return "", uuid.Nil, false, "", errors.Join(indexeddb.ErrHostResponseInvalid, err)
	}
	return f[keyDB].GetStringValue(), tx, f[keyFailed].GetBoolValue(), f[keyMessage].GetStringValue(), nil
}
