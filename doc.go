/*
Package indexeddb defines the client contract for the browser-side IndexedDB
capability used by Tarmac WebAssembly functions, along with the runtime
configuration shared by its implementations.

Two implementations live in sub-packages. The hostdb package forwards every
operation to the host over waPC. The mock package is an in-memory emulation
for component tests: it supports adding, bulk adding, point lookup by field
and filtered retrieval, and fails immediately with ErrNotSupported for the
rest of the contract.

Records are opaque values. They are only inspected when a query names one of
their fields, see the field package for the lookup and equality rules.
*/
package indexeddb
