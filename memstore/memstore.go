package memstore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/tarmac-project/indexeddb"
	"github.com/tarmac-project/indexeddb/field"
)

// Table is an ordered sequence of records. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	name    string
	records []any
}

// Name returns the store name the table was declared with.
func (t *Table) Name() string { return t.name }

// Len returns the number of records in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Append adds records to the end of the table, preserving their order.
func (t *Table) Append(records ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, records...)
}

// All returns a snapshot of the table contents.
func (t *Table) All() []any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.records)
}

// First returns the first record whose named field equals value.
func (t *Table) First(name string, value any) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, rec := range t.records {
		if field.Matches(rec, name, value) {
			return rec, true
		}
	}
	return nil, false
}

// Filter returns every record whose named field equals value, in table
// order. The result is never nil.
func (t *Table) Filter(name string, value any) []any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []any{}
	for _, rec := range t.records {
		if field.Matches(rec, name, value) {
			out = append(out, rec)
		}
	}
	return out
}

// Registry maps store names to tables for a single database.
type Registry struct {
	schema indexeddb.DatabaseSchema
	tables map[string]*Table
}

// New creates a registry with one empty table per store declared in schema.
func New(schema indexeddb.DatabaseSchema) (*Registry, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		schema: schema.Clone(),
		tables: make(map[string]*Table, len(schema.Stores)),
	}
	for _, st := range schema.Stores {
		r.tables[st.Name] = &Table{name: st.Name}
	}
	return r, nil
}

// Schema returns a copy of the schema the registry was built from.
func (r *Registry) Schema() indexeddb.DatabaseSchema { return r.schema.Clone() }

// Table returns the table for a declared store.
func (r *Registry) Table(store string) (*Table, error) {
	t, ok := r.tables[store]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not declared in database %q", indexeddb.ErrUnknownStore, store, r.schema.Name)
	}
	return t, nil
}
