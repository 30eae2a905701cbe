package storage

// Store abstracts the visitor-scoped key-value persistence used for
// assignments and event logs. Implementations can be in-memory, file or
// database backed and must be safe for concurrent use.
// Get reports whether the key was present; a missing key is not an error.
// Writes are last-write-wins.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Close() error
}
