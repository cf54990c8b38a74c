/*
Package metrics provides a client for creating custom metrics through the
Tarmac host runtime, and the Operations instrumentation the host-backed
IndexedDB client reports through.

Counter, Gauge and Histogram handles are backed by protobuf payloads sent over
waPC host calls. Emission methods follow Prometheus-style ergonomics:
Inc/Dec/Observe are best-effort and do not return errors. Marshal or host-call
failures are swallowed so storage calls never fail because of metrics.
*/
package metrics
