/*
Package mock provides an in-memory implementation of the indexeddb.Manager and
indexeddb.Factory interfaces for component tests.

The mock emulates a small part of the contract: Open, AddRecord,
BulkAddRecord, GetRecordByIndex and Where, in both the callback and the Wait
flavors. Every other operation fails immediately with
indexeddb.ErrNotSupported and leaves the tables untouched. Operations on a
store that the schema does not declare fail with indexeddb.ErrUnknownStore.

# Basic Usage

Register databases on a Config and ask the Factory for a manager:

	import (
		"testing"

		"github.com/tarmac-project/indexeddb"
		"github.com/tarmac-project/indexeddb/mock"
	)

	func TestSomething(t *testing.T) {
		var cfg mock.Config
		cfg.AddDatabase(func(db *indexeddb.DatabaseSchema) {
			db.Name = "app"
			db.Version = 1
			db.AddStore("people", "Name", "Age")
		})

		f, _ := mock.New(cfg)
		m, _ := f.GetManager("app")

		_, _ = m.AddRecordWait(indexeddb.StoreRecord{StoreName: "people", Record: Person{Name: "Ann", Age: 30}})
		people, _ := indexeddb.Where[Person](m, "people", "age", 30)
		// people == []Person{{Name: "Ann", Age: 30}}
	}

The factory builds and opens a manager for every registered database the
first time any name is requested, and returns the same instances afterwards.

# Overriding Behavior

Script failures per operation and store using a fluent builder:

	mm, _ := f.Manager("app")
	mm.OnAddRecord("people").ReturnError(errors.New("quota exceeded"))
	mm.OnBulkAddRecord("people").ReturnError(errors.New("quota exceeded"))
	mm.OnOpen().ReturnError(errors.New("blocked"))

A scripted failure reports a failed Event, passes it to the callback, returns
the error, and does not touch the table.

# Inspecting Calls

	for _, c := range mm.Calls() {
		// c.Op, c.Store, c.Index, c.Value, c.Records
	}
*/
package mock
