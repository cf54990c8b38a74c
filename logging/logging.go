package logging

import (
	"github.com/tarmac-project/indexeddb"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const capabilityName = "logging"

// Client exposes convenience helpers for sending log entries to the host runtime.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig indexeddb.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall func(string, string, string, []byte) ([]byte, error)

	// Component, when set, prefixes every message as "component: message".
	Component string
}

// client implements Client using the configured host call entrypoint.
type client struct {
	runtime  indexeddb.RuntimeConfig
	hostCall func(string, string, string, []byte) ([]byte, error)
	prefix   string
}

// New creates a Client that emits logs through the configured host capability.
func New(cfg Config) (Client, error) {
	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	c := &client{
		runtime:  cfg.SDKConfig.WithDefaults(),
		hostCall: hostCall,
	}
	if cfg.Component != "" {
		c.prefix = cfg.Component + ": "
	}
	return c, nil
}

func (c *client) Info(message string)  { c.log("Info", message) }
func (c *client) Warn(message string)  { c.log("Warn", message) }
func (c *client) Error(message string) { c.log("Error", message) }
func (c *client) Debug(message string) { c.log("Debug", message) }
func (c *client) Trace(message string) { c.log("Trace", message) }

// log is best-effort; host failures are dropped so logging never changes
// the outcome of a storage call.
func (c *client) log(fn string, message string) {
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, fn, []byte(c.prefix+message))
}

type discard struct{}

// Discard returns a Client that drops every message.
func Discard() Client { return discard{} }

func (discard) Info(string)  {}
func (discard) Warn(string)  {}
func (discard) Error(string) {}
func (discard) Debug(string) {}
func (discard) Trace(string) {}

// OrDiscard returns c, or a discarding client when c is nil.
func OrDiscard(c Client) Client {
	if c == nil {
		return Discard()
	}
	return c
}
