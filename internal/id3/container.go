// Package id3 is the native tag container backend. It reads ID3v2.2, 2.3
// and 2.4 tags plus ID3v1 trailers, and rewrites files with whatever frames
// remain in the tag.
package id3

import (
	"os"

	binutil "github.com/simonhull/mp3strip/internal/binary"
	"github.com/simonhull/mp3strip/internal/registry"
	"github.com/simonhull/mp3strip/internal/types"
)

// Name is the registry name of this backend.
const Name = "native"

// Container is an MP3 file opened for tag inspection and rewriting.
type Container struct {
	file *os.File
	path string
	size int64
	p    *parsed
}

// Open opens path and parses its tags. The file handle stays open until
// Close so the audio stream can be copied on save.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.ContainerReadError{Path: path, Reason: "open file", Err: err}
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &types.ContainerReadError{Path: path, Reason: "stat file", Err: err}
	}

	p, err := parse(binutil.NewSafeReader(f, stat.Size(), path))
	if err != nil {
		f.Close()
		return nil, &types.ContainerReadError{Path: path, Reason: "parse tag", Err: err}
	}

	return &Container{
		file: f,
		path: path,
		size: stat.Size(),
		p:    p,
	}, nil
}

// Path returns the path the container was opened from.
func (c *Container) Path() string {
	return c.path
}

// Tags returns the tag set, or nil when the file has no tag.
func (c *Container) Tags() *types.Tag {
	return c.p.tag
}

// Warnings returns non-fatal parse issues.
func (c *Container) Warnings() []types.Warning {
	return c.p.warnings
}

// Version returns the ID3v2 major version read from the file, 0 if none.
func (c *Container) Version() byte {
	return c.p.version()
}

// HasV1 reports whether the file carried an ID3v1 trailer when opened.
func (c *Container) HasV1() bool {
	return c.p.hasV1
}

// Close releases the file handle.
func (c *Container) Close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

type backend struct{}

func (backend) Open(path string) (registry.Container, error) {
	return Open(path)
}

func init() {
	registry.Register(Name, backend{})
}
