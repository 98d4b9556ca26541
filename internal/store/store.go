// Package store persists the active animation sequence across power
// cycles behind a byte-addressed key-value interface, the shape of the
// EEPROM it stands in for.
package store

import (
	"os"
	"sync"

	"codeberg.org/halvor/revstrip/internal/errors"
)

// KeyValueStore is the non-volatile byte store. Implementations must
// make WriteByte durable before returning.
type KeyValueStore interface {
	ReadByte(addr int) (byte, error)
	WriteByte(addr int, b byte) error
}

// Non-volatile layout: a guard byte marking the image valid, then the
// sequence variant.
const (
	addrGuard    = 0
	addrSequence = 1
	imageSize    = 2

	// GuardByte marks a previously written image. Anything else at
	// address 0 means first boot or corrupted storage.
	GuardByte = 0xA5
)

// FileStore is a tiny fixed-size binary file standing in for EEPROM.
type FileStore struct {
	mu    sync.Mutex
	path  string
	image [imageSize]byte
}

// OpenFileStore loads the image from path, or starts from a zeroed
// image if the file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	errFactory := errors.New()

	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		copy(s.image[:], data)
	case os.IsNotExist(err):
		// First boot: image stays zeroed, no guard byte present.
	default:
		return nil, errFactory.Wrap(ErrStoreOpen, err)
	}

	return s, nil
}

func (s *FileStore) ReadByte(addr int) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr < 0 || addr >= imageSize {
		return 0, errors.New().WithData(ErrBadAddress, addr)
	}

	return s.image[addr], nil
}

func (s *FileStore) WriteByte(addr int, b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	errFactory := errors.New()

	if addr < 0 || addr >= imageSize {
		return errFactory.WithData(ErrBadAddress, addr)
	}

	s.image[addr] = b
	if err := os.WriteFile(s.path, s.image[:], 0o600); err != nil {
		return errFactory.Wrap(ErrStoreWrite, err)
	}

	return nil
}

// MemStore is an in-memory KeyValueStore for tests and the simulator.
type MemStore struct {
	mu    sync.Mutex
	image [imageSize]byte
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) ReadByte(addr int) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr < 0 || addr >= imageSize {
		return 0, errors.New().WithData(ErrBadAddress, addr)
	}

	return s.image[addr], nil
}

func (s *MemStore) WriteByte(addr int, b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr < 0 || addr >= imageSize {
		return errors.New().WithData(ErrBadAddress, addr)
	}
	s.image[addr] = b

	return nil
}
