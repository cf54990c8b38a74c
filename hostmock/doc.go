/*
Package hostmock provides a friendly pretend host for waPC calls.

It's designed for tests of the host-backed IndexedDB client and the ambient
logging and metrics clients, where you want to validate exactly what a
component is sending to the Tarmac host without needing a real host running.

Why use hostmock?

  - Validate routing: ensure calls use the expected namespace, capability, and function when you set them.
  - Inspect payloads: plug in a PayloadValidator to assert protobuf contents.
  - Script responses: return custom bytes per function or simulate failures.
  - Replay traffic: every call is recorded in order.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "indexeddb",
	  Functions: map[string]hostmock.Handler{
	    "add": func(p []byte) ([]byte, error) { return okStatus, nil },
	  },
	})

	// Inject into a component under test
	client, _ := hostdb.New(hostdb.Config{HostCall: m.HostCall, ...})

Behavior

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise, HostCall enforces ExpectedNamespace/Capability/Function and runs
    PayloadValidator when provided. A Functions entry for the called function
    produces the reply; failing that, Response (when set) provides the return
    bytes; otherwise it returns nil.

Leave expectation fields blank when you want a wildcard; hostmock only
enforces values you set.
*/
package hostmock
