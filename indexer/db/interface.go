package db

import "errors"

var ErrKeyNotFound = errors.New("key not found")

// ErrIterationDone stops a BatchRead early without reporting an error.
var ErrIterationDone = errors.New("iteration done")

// ReadBatch reads from a stable snapshot of the database.
type ReadBatch interface {
	Get(key []byte) ([]byte, error)
}

type WriteBatch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Flush() error
	Close()
}

// KVDB is the storage the index is built on. Every call is a complete
// transaction; View runs the callback against a consistent snapshot so
// readers never observe a half-applied block.
type KVDB interface {
	Read(key []byte) ([]byte, error)
	Write(key, value []byte) error
	Delete(key []byte) error
	Close() error

	NewWriteBatch() WriteBatch

	// BatchRead iterates all keys with the given prefix. The callback
	// may return ErrIterationDone to stop without failing the read.
	BatchRead(prefix []byte, reverse bool, r func(k, v []byte) error) error

	View(func(ReadBatch) error) error
}
