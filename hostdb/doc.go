/*
Package hostdb implements the indexeddb.Manager contract against the browser's
IndexedDB through the Tarmac host runtime.

Every operation is one waPC call to the "indexeddb" capability. Requests are
google.protobuf.Struct payloads carrying the database name, a transaction
identifier and the operation arguments; records are sent in their JSON shape.
Mutations answer with a tarmac sdk.Status:

  - 200 and 206 complete the operation immediately.
  - 202 accepts it; the host delivers the outcome later through
    CalledFromHost, or through the indexeddb_completed guest function
    registered with Factory.RegisterCompletions.
  - 400, 404 and 500 fail it; the error wraps indexeddb.ErrHostError.

Queries answer with a Struct holding a status plus the matching record or
records. Records come back as generic JSON values; use indexeddb.As or the
typed helpers to convert them.

The Wait flavors ask the host to finish synchronously. A 202 answer to a Wait
call is treated as an invalid response, since a guest cannot block for a
later callback.
*/
package hostdb
