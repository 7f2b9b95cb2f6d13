package storage

// Backend is the durable key-value port. Values are text snapshots that are
// read once at startup and overwritten on every relevant mutation.
type Backend interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access. ok is false when the key has never been written.
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error

	// Path returns a non-sensitive identifier of the storage location.
	Path() string
}

// Reloader is implemented by backends that cache the data file in memory.
// Reload discards the cache and reads the file again.
type Reloader interface {
	Reload() error
}

// SchemaChecker is implemented by the SQL backends.
type SchemaChecker interface {
	SchemaVersion() (current, latest int, err error)
}
