/*
Package logging offers a client for emitting log entries from Tarmac WebAssembly
functions to the host runtime.

The IndexedDB clients log through this package so guest output ends up in the
host's log stream next to the storage calls that produced it. A Component set
in Config prefixes every message, which keeps entries from several databases
apart. Discard returns a client that drops everything and is the default for
components constructed without a logger.
*/
package logging
