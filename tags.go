package mp3strip

import (
	_ "github.com/simonhull/mp3strip/internal/id3lib" // registers the id3v2 backend
	"github.com/simonhull/mp3strip/internal/registry"
	"github.com/simonhull/mp3strip/internal/types"
)

// Tag is an alias to types.Tag, the keyed set of frames of one file.
type Tag = types.Tag

// Frame is an alias to types.Frame.
type Frame = types.Frame

// Value is an alias to types.Value. It is one of TextValue, BinaryValue
// or OtherValue.
type Value = types.Value

type (
	TextValue   = types.TextValue
	BinaryValue = types.BinaryValue
	OtherValue  = types.OtherValue
)

// IsCustomKey reports whether key denotes a user-defined field (TXXX, WXXX).
func IsCustomKey(key string) bool {
	return types.IsCustomKey(key)
}

// Backends returns the names of the registered container backends.
func Backends() []string {
	return registry.Names()
}
