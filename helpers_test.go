package mp3strip

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/simonhull/mp3strip/internal/registry"
)

// audioPayload stands in for the MPEG stream.
var audioPayload = append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte("audio-data"), 40)...)

// writeBare writes an untagged MP3 into dir.
func writeBare(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, audioPayload, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeTagged writes an MP3 into dir carrying a title, an artist and a
// replaygain TXXX frame.
func writeTagged(t *testing.T, dir, name string) string {
	t.Helper()
	return writeWithTags(t, dir, name, func(tag *id3v2.Tag) {
		tag.SetTitle("Shadowrun")
		tag.SetArtist("Tapio")
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: "replaygain_track_gain",
			Value:       "-6.5 dB",
		})
	})
}

// writeWithTags writes an MP3 into dir and tags it with fn.
func writeWithTags(t *testing.T, dir, name string, fn func(*id3v2.Tag)) string {
	t.Helper()
	path := writeBare(t, dir, name)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	fn(tag)
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
	if err := tag.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// v1Trailer builds an ID3v1.1 trailer.
func v1Trailer(title, artist string) []byte {
	b := make([]byte, 128)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	b[127] = 0xFF
	return b
}

// tagKeys opens path with the named backend and returns its keys. The
// second result is false when the file has no tag at all.
func tagKeys(t *testing.T, backend, path string) ([]string, bool) {
	t.Helper()
	b, err := registry.Get(backend)
	if err != nil {
		t.Fatal(err)
	}
	c, err := b.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer c.Close()

	if c.Tags() == nil {
		return nil, false
	}
	return c.Tags().Keys(), true
}

// resolved returns path with symlinks in its directories followed, the
// way Process reports output paths.
func resolved(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// snapshot captures the bytes and modification time of a file.
type snapshot struct {
	data    []byte
	modTime int64
}

func takeSnapshot(t *testing.T, path string) snapshot {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return snapshot{data: data, modTime: info.ModTime().UnixNano()}
}

func (s snapshot) equal(o snapshot) bool {
	return bytes.Equal(s.data, o.data) && s.modTime == o.modTime
}
