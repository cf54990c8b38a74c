/*
Package memstore holds the in-memory tables behind the IndexedDB test double.

A Registry is built from a database schema and owns one Table per declared
store. Tables are ordered and append-only from the caller's point of view;
queries scan them linearly in insertion order. Stores cannot be created after
construction, so any name that was not declared yields ErrUnknownStore.
*/
package memstore
