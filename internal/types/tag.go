// Package types provides the core data structures shared by the tag
// container backends: the Tag container, its frames and the error taxonomy.
package types

import (
	"iter"
	"maps"
	"slices"
)

// Tag is the metadata container of one audio file: a mapping from frame key
// to frame. Keys are unique and case-sensitive.
//
// Iteration is always in ascending key order, regardless of the order the
// frames were stored in on disk.
type Tag struct {
	frames map[string]*Frame
}

// NewTag returns an empty, present tag.
func NewTag() *Tag {
	return &Tag{frames: make(map[string]*Frame)}
}

// Len returns the number of entries.
func (t *Tag) Len() int {
	if t == nil {
		return 0
	}
	return len(t.frames)
}

// Keys returns a sorted snapshot of the keys. The snapshot is safe to range
// over while deleting entries.
func (t *Tag) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.frames))
}

// Get returns the frame stored under key, or nil.
func (t *Tag) Get(key string) *Frame {
	if t == nil {
		return nil
	}
	return t.frames[key]
}

// Set stores a frame under its key.
//
// If a text frame already exists under the same key and the new frame is
// also text, the values are merged. Any other collision replaces the
// existing frame. Set on a nil Tag is a no-op, as a nil Tag stands for an
// absent tag.
func (t *Tag) Set(f *Frame) {
	if t == nil || f == nil {
		return
	}
	if t.frames == nil {
		t.frames = make(map[string]*Frame)
	}

	if existing, ok := t.frames[f.Key]; ok {
		oldText, oldOK := existing.Value.(TextValue)
		newText, newOK := f.Value.(TextValue)
		if oldOK && newOK {
			merged := *existing
			merged.Value = append(slices.Clone(oldText), newText...)
			merged.Body = nil
			t.frames[f.Key] = &merged
			return
		}
	}

	t.frames[f.Key] = f
}

// Delete removes the entry stored under key. It reports whether the key
// was present.
func (t *Tag) Delete(key string) bool {
	if t == nil {
		return false
	}
	if _, ok := t.frames[key]; !ok {
		return false
	}
	delete(t.frames, key)
	return true
}

// All returns an iterator over all frames in ascending key order.
//
//	for key, frame := range tag.All() {
//		fmt.Println(key, frame.Value)
//	}
func (t *Tag) All() iter.Seq2[string, *Frame] {
	return func(yield func(string, *Frame) bool) {
		for _, key := range t.Keys() {
			if !yield(key, t.frames[key]) {
				return
			}
		}
	}
}
