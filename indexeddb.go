package indexeddb

const (
	// DefaultNamespace is used when no explicit namespace is provided.
	DefaultNamespace = "tarmac"

	// Capability is the host capability name that serves IndexedDB calls.
	Capability = "indexeddb"
)

// RuntimeConfig carries configuration that is used during creation of
// IndexedDB components.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// WithDefaults returns a copy of the runtime configuration with empty fields
// replaced by their defaults.
func (r RuntimeConfig) WithDefaults() RuntimeConfig {
	if r.Namespace == "" {
		r.Namespace = DefaultNamespace
	}
	return r
}
