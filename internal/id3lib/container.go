// Package id3lib is a tag container backend built on
// github.com/bogem/id3v2. It handles ID3v2.3 and 2.4 tags plus the ID3v1
// trailer, and drops the tag header entirely once every frame has been
// removed.
package id3lib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/simonhull/mp3strip/internal/id3"
	"github.com/simonhull/mp3strip/internal/registry"
	"github.com/simonhull/mp3strip/internal/types"
)

// Name is the registry name of this backend.
const Name = "id3v2"

// entry remembers where a keyed frame came from so it can be written back.
type entry struct {
	key   string
	id    string
	frame id3v2.Framer
}

// Container wraps a parsed id3v2.Tag.
type Container struct {
	path     string
	tag      *id3v2.Tag
	tags     *types.Tag
	entries  []entry
	hasV1    bool
	v1       []*types.Frame
	warnings []types.Warning
}

// Open parses the ID3v2 tag of path.
func Open(path string) (*Container, error) {
	present, hasV1, err := sniff(path)
	if err != nil {
		return nil, &types.ContainerReadError{Path: path, Reason: "open file", Err: err}
	}

	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if errors.Is(err, id3v2.ErrUnsupportedVersion) {
			err = &types.UnsupportedFormatError{Path: path, Reason: err.Error()}
		}
		return nil, &types.ContainerReadError{Path: path, Reason: "parse tag", Err: err}
	}

	c := &Container{path: path, tag: t, hasV1: hasV1}
	if present || t.HasFrames() || hasV1 {
		c.load()
	}
	if hasV1 {
		if err := c.loadV1(); err != nil {
			t.Close()
			return nil, &types.ContainerReadError{Path: path, Reason: "read ID3v1 trailer", Err: err}
		}
	}
	return c, nil
}

// sniff reports whether path starts with an ID3v2 header and whether it
// ends with an ID3v1 trailer.
func sniff(path string) (v2, v1 bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, false, err
	}
	defer f.Close()

	head := make([]byte, 3)
	if _, err := io.ReadFull(f, head); err == nil {
		v2 = string(head) == "ID3"
	}

	stat, err := f.Stat()
	if err != nil {
		return false, false, err
	}
	if stat.Size() >= 128 {
		tail := make([]byte, 3)
		if _, err := f.ReadAt(tail, stat.Size()-128); err == nil {
			v1 = string(tail) == "TAG"
		}
	}
	return v2, v1, nil
}

// load converts every parsed frame into a keyed types.Frame.
func (c *Container) load() {
	c.tags = types.NewTag()
	for id, frames := range c.tag.AllFrames() {
		for _, f := range frames {
			frame := convert(id, f)
			c.entries = append(c.entries, entry{key: frame.Key, id: id, frame: f})
			c.tags.Set(frame)
		}
	}
}

// loadV1 adds the fields of the ID3v1 trailer that the ID3v2 tag does not
// already carry.
func (c *Container) loadV1() error {
	f, err := os.Open(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	buf := make([]byte, id3.V1Size)
	if _, err := f.ReadAt(buf, stat.Size()-id3.V1Size); err != nil {
		return err
	}

	version := c.tag.Version()
	for _, frame := range id3.ParseV1(buf, version) {
		if frame.ID == "" {
			c.warnings = append(c.warnings, types.Warning{
				Stage:   "id3v1",
				Message: fmt.Sprintf("no ID3v2.%d frame for %s, field ignored", version, frame.Key),
				Offset:  stat.Size() - id3.V1Size,
			})
			continue
		}
		if c.tags.Get(frame.Key) == nil {
			c.tags.Set(frame)
			c.v1 = append(c.v1, frame)
		}
	}
	return nil
}

// convert maps one library frame onto the shared frame model.
func convert(id string, f id3v2.Framer) *types.Frame {
	frame := &types.Frame{Key: id, ID: id}

	switch f := f.(type) {
	case id3v2.TextFrame:
		frame.Value = types.TextValue(splitValues(f.Text))

	case id3v2.UserDefinedTextFrame:
		frame.Key = "TXXX:" + f.Description
		frame.Description = f.Description
		frame.Described = true
		frame.Value = types.TextValue(splitValues(f.Value))

	case id3v2.CommentFrame:
		frame.Key = "COMM:" + f.Description + ":" + f.Language
		frame.Description = f.Description
		frame.Described = true
		frame.Value = types.TextValue(splitValues(f.Text))

	case id3v2.UnsynchronisedLyricsFrame:
		frame.Key = "USLT:" + f.ContentDescriptor + ":" + f.Language
		frame.Description = f.ContentDescriptor
		frame.Described = true
		frame.Value = types.TextValue(splitValues(f.Lyrics))

	case id3v2.PictureFrame:
		frame.Key = "APIC:" + f.Description
		frame.Description = f.Description
		frame.Described = true
		frame.Value = types.BinaryValue(f.Picture)

	case id3v2.UFIDFrame:
		frame.Key = "UFID:" + f.OwnerIdentifier
		frame.Value = types.BinaryValue(f.Identifier)

	case id3v2.PopularimeterFrame:
		count := f.Counter
		if count == nil {
			count = new(big.Int)
		}
		frame.Key = "POPM:" + f.Email
		frame.Value = types.OtherValue{Repr: fmt.Sprintf("%s rating=%d count=%s", f.Email, f.Rating, count)}

	case id3v2.ChapterFrame:
		frame.Key = "CHAP:" + f.ElementID
		frame.Value = types.OtherValue{Repr: fmt.Sprintf("CHAP element %q", f.ElementID)}

	case id3v2.UnknownFrame:
		convertUnknown(frame, f.Body)

	default:
		frame.Value = types.OtherValue{Repr: fmt.Sprint(f)}
	}

	return frame
}

// convertUnknown handles frames the library keeps as raw bodies.
func convertUnknown(frame *types.Frame, body []byte) {
	switch {
	case frame.ID == "PRIV":
		owner, payload, _ := bytes.Cut(body, []byte{0})
		frame.Key = "PRIV:" + string(owner)
		frame.Value = types.BinaryValue(payload)

	case frame.ID == "WXXX" && len(body) > 0:
		// [encoding][description\0][url]; descriptions here are assumed Latin-1/UTF-8
		desc, url, _ := bytes.Cut(body[1:], []byte{0})
		frame.Key = "WXXX:" + string(desc)
		frame.Description = string(desc)
		frame.Described = true
		frame.Value = types.OtherValue{Repr: string(bytes.TrimRight(url, "\x00"))}

	case strings.HasPrefix(frame.ID, "W"):
		frame.Value = types.OtherValue{Repr: string(bytes.TrimRight(body, "\x00"))}

	default:
		frame.Value = types.BinaryValue(body)
	}
}

// splitValues splits NUL separated ID3v2.4 multi-value text.
func splitValues(s string) []string {
	values := strings.Split(s, "\x00")
	for len(values) > 1 && values[len(values)-1] == "" {
		values = values[:len(values)-1]
	}
	return values
}

// Path returns the path the container was opened from.
func (c *Container) Path() string {
	return c.path
}

// Tags returns the tag set, or nil when the file has no ID3v2 tag.
func (c *Container) Tags() *types.Tag {
	return c.tags
}

// Warnings returns non-fatal issues noticed on open.
func (c *Container) Warnings() []types.Warning {
	return c.warnings
}

// Version returns the ID3v2 major version the library will write.
func (c *Container) Version() byte {
	if c.tag == nil {
		return 0
	}
	return c.tag.Version()
}

// SaveAs writes the remaining frames back to the file. The library only
// rewrites the file it opened, so path must be the container's own path.
func (c *Container) SaveAs(path string) error {
	if c.tag == nil {
		return &types.ContainerWriteError{Path: path, Reason: "container is closed"}
	}
	if filepath.Clean(path) != filepath.Clean(c.path) {
		return &types.ContainerWriteError{Path: path, Reason: "the id3v2 backend only saves in place"}
	}

	c.tag.DeleteAllFrames()
	for _, e := range c.entries {
		if c.tags.Get(e.key) != nil {
			c.tag.AddFrame(e.id, e.frame)
		}
	}
	// Trailer fields that survive move into the ID3v2 tag
	for _, frame := range c.v1 {
		if c.tags.Get(frame.Key) != nil {
			c.addV1Frame(frame)
		}
	}

	if err := c.tag.Save(); err != nil {
		return &types.ContainerWriteError{Path: path, Reason: "save tag", Err: err}
	}
	if c.hasV1 {
		if err := truncateV1(path); err != nil {
			return &types.ContainerWriteError{Path: path, Reason: "remove ID3v1 trailer", Err: err}
		}
		c.hasV1 = false
		c.v1 = nil
	}
	return nil
}

func (c *Container) addV1Frame(frame *types.Frame) {
	values, _ := frame.Value.(types.TextValue)
	text := strings.Join(values, "\x00")
	enc := c.tag.DefaultEncoding()

	if frame.Described {
		c.tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    enc,
			Language:    "eng",
			Description: frame.Description,
			Text:        text,
		})
		return
	}
	c.tag.AddTextFrame(frame.ID, enc, text)
}

// truncateV1 cuts a trailing ID3v1 tag off path.
func truncateV1(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	if stat.Size() < id3.V1Size {
		return nil
	}
	tail := make([]byte, 3)
	if _, err := f.ReadAt(tail, stat.Size()-id3.V1Size); err != nil {
		return err
	}
	if string(tail) != "TAG" {
		return nil
	}
	if err := f.Truncate(stat.Size() - id3.V1Size); err != nil {
		return err
	}
	return f.Sync()
}

// Close releases the file handle held by the library.
func (c *Container) Close() error {
	if c.tag == nil {
		return nil
	}
	err := c.tag.Close()
	c.tag = nil
	return err
}

type backend struct{}

func (backend) Open(path string) (registry.Container, error) {
	return Open(path)
}

func init() {
	registry.Register(Name, backend{})
}
