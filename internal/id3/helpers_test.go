package id3

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// audioPayload stands in for the MPEG stream: a frame sync followed by
// recognisable filler.
var audioPayload = append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte("audio-data"), 40)...)

// testFrame is one frame to place in a synthetic tag.
type testFrame struct {
	id    string
	flags uint16
	body  []byte
}

// textBody builds a Latin-1 text frame body.
func textBody(values ...string) []byte {
	body := []byte{encLatin1}
	for i, v := range values {
		if i > 0 {
			body = append(body, 0)
		}
		body = append(body, v...)
	}
	return body
}

// txxxBody builds a Latin-1 TXXX body.
func txxxBody(desc, value string) []byte {
	body := []byte{encLatin1}
	body = append(body, desc...)
	body = append(body, 0)
	return append(body, value...)
}

// buildTag assembles an ID3v2 tag of the given major version.
func buildTag(t *testing.T, version byte, frames ...testFrame) []byte {
	t.Helper()

	var body bytes.Buffer
	for _, f := range frames {
		switch version {
		case 2:
			n := len(f.body)
			body.WriteString(f.id)
			body.Write([]byte{byte(n >> 16), byte(n >> 8), byte(n)})
		case 3:
			body.WriteString(f.id)
			binary.Write(&body, binary.BigEndian, uint32(len(f.body)))
			binary.Write(&body, binary.BigEndian, f.flags)
		default:
			size, err := encodeSynchsafe(uint32(len(f.body)))
			if err != nil {
				t.Fatal(err)
			}
			body.WriteString(f.id)
			body.Write(size)
			binary.Write(&body, binary.BigEndian, f.flags)
		}
		body.Write(f.body)
	}
	// a little padding, like real taggers
	body.Write(make([]byte, 16))

	size, err := encodeSynchsafe(uint32(body.Len()))
	if err != nil {
		t.Fatal(err)
	}

	out := []byte{'I', 'D', '3', version, 0x00, 0x00}
	out = append(out, size...)
	return append(out, body.Bytes()...)
}

// buildV1 builds an ID3v1.1 trailer.
func buildV1(title, artist string, track, genre byte) []byte {
	b := make([]byte, V1Size)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[97:125], "v1 comment")
	b[126] = track
	b[127] = genre
	return b
}

// writeMP3 writes tag + audio + trailer to a file in a temp dir.
func writeMP3(t *testing.T, name string, parts ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var data []byte
	for _, p := range parts {
		data = append(data, p...)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// openTest opens path and registers cleanup.
func openTest(t *testing.T, path string) *Container {
	t.Helper()
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", path, err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}
