package kv

// KeyVal is a key-value store.
type KeyVal interface {
	// Open opens a key-value store.
	Open() error

	// Close closes a key-value store.
	Close() error

	// GetValue returns a value for a given key, or nil if the key does not
	// exist.
	GetValue(key []byte) ([]byte, error)

	// SetValues saves records in one transaction.
	SetValues(rs ...Record) error

	// Scan returns records with keys that start with prefix, ordered by key.
	Scan(prefix []byte) ([]Record, error)
}
