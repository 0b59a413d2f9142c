package storage

import "errors"

var (
	// ErrSlotNotFound is returned by GetSlot when the slot has never been written
	ErrSlotNotFound = errors.New("slot not found")
	// ErrNotLoaded is returned when a store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when the backing storage does not exist yet
	ErrNotInitialized = errors.New("storage not initialized, run 'habitual init' first")
)

// Provider is a durable key-value slot store. Each slot holds one JSON
// document that is always rewritten in full.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots
	GetSlot(key string) ([]byte, error)
	PutSlot(key string, value []byte) error
	DeleteSlot(key string) error

	// Utils
	GetConfigPath() string
}

// Lister is implemented by providers that can enumerate their slots.
type Lister interface {
	ListSlots() ([]string, error)
}
