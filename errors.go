package indexeddb

import "errors"

var (
	// ErrNotSupported is returned by contract operations an implementation
	// deliberately does not provide.
	ErrNotSupported = errors.New("operation not supported")

	// ErrUnknownStore is returned when an operation names a store that was not
	// declared in the database schema.
	ErrUnknownStore = errors.New("unknown store")

	// ErrDatabaseNotFound is returned by a Factory when no schema with the
	// requested name was registered.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrInvalidSchema indicates a database schema that cannot be used.
	ErrInvalidSchema = errors.New("database schema is invalid")

	// ErrDuplicateDatabase indicates two registered schemas share a name.
	ErrDuplicateDatabase = errors.New("database registered more than once")

	// ErrUnknownTransaction is returned when a completion arrives for a
	// transaction that is not pending.
	ErrUnknownTransaction = errors.New("unknown transaction")

	// ErrTypeMismatch is returned by the typed helpers when a record cannot be
	// converted to the requested type.
	ErrTypeMismatch = errors.New("record type mismatch")

	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")

	// ErrMarshalRequest wraps failures while encoding a request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrUnmarshalResponse wraps failures while decoding a host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")
)
