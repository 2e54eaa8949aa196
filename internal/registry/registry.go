// Package registry manages the tag container backends available to the
// stripper.
package registry

import (
	"slices"
	"sync"

	"github.com/simonhull/mp3strip/internal/types"
)

// Container is an opened tag container bound to one file on disk.
type Container interface {
	// Path returns the path the container was opened from.
	Path() string

	// Tags returns the tag set, or nil when the file carries no tag at all.
	// Deleting from the returned Tag marks entries for removal on save.
	Tags() *types.Tag

	// Warnings returns non-fatal issues found while parsing.
	Warnings() []types.Warning

	// SaveAs writes the current tag set and the audio stream to path.
	SaveAs(path string) error

	// Close releases the underlying file handle.
	Close() error
}

// Backend opens files into containers.
type Backend interface {
	Open(path string) (Container, error)
}

var (
	mu       sync.RWMutex
	backends = make(map[string]Backend)
)

// Register registers a backend under name.
// This is called by backend packages during initialization (init functions).
func Register(name string, backend Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends[name] = backend
}

// Get returns the backend registered under name.
// Returns an UnknownBackendError if nothing is registered under that name.
func Get(name string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()
	if b, ok := backends[name]; ok {
		return b, nil
	}
	return nil, &types.UnknownBackendError{Name: name}
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
