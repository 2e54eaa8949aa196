package types

import (
	"fmt"
	"strings"
)

// Value is the payload carried by a Frame. It is one of TextValue,
// BinaryValue or OtherValue.
type Value interface {
	isValue()
}

// TextValue holds one or more text strings.
type TextValue []string

// BinaryValue holds an opaque payload such as an embedded picture.
type BinaryValue []byte

// OtherValue holds frames that are neither text nor raw data (URLs,
// counters, chapters). Repr is the human readable rendering.
type OtherValue struct {
	Repr string
}

func (TextValue) isValue()   {}
func (BinaryValue) isValue() {}
func (OtherValue) isValue()  {}

// String returns the rendering of the value.
func (v OtherValue) String() string {
	return v.Repr
}

// Frame is one metadata entry of a tag.
type Frame struct {
	// Key identifies the frame within its Tag (e.g. "TIT2", "TXXX:replaygain_track_gain").
	Key string

	// ID is the frame identifier as stored on disk ("TIT2", "TT2").
	ID string

	// Description is the user supplied description of custom, comment and
	// picture frames. Described is set for frame types that carry one, even
	// when it is empty.
	Description string
	Described   bool

	// Value is the decoded payload.
	Value Value

	// Flags are the on-disk frame flags, preserved when the frame is rewritten.
	Flags uint16

	// Body is the raw frame body. Nil for frames synthesized from an ID3v1
	// trailer, which are re-encoded on write.
	Body []byte
}

// String renders the frame for debugging.
func (f *Frame) String() string {
	return fmt.Sprintf("%s(%T)", f.Key, f.Value)
}

// customPrefixes are the frame ids whose entries are user defined and carry
// a description next to their value.
var customPrefixes = []string{"TXXX", "WXXX", "TXX", "WXX"}

// IsCustomKey reports whether key denotes a user-defined field.
func IsCustomKey(key string) bool {
	for _, prefix := range customPrefixes {
		if key == prefix || strings.HasPrefix(key, prefix+":") {
			return true
		}
	}
	return false
}
