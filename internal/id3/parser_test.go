package id3

import (
	"bytes"
	"compress/zlib"
	"errors"
	"slices"
	"testing"

	"github.com/simonhull/mp3strip/internal/types"
)

func TestOpen_ID3v23(t *testing.T) {
	tag := buildTag(t, 3,
		testFrame{id: "TPE1", body: textBody("Aurora Drive")},
		testFrame{id: "TIT2", body: textBody("Midnight Drive")},
		testFrame{id: "TXXX", body: txxxBody("replaygain_track_gain", "-6.5 dB")},
	)
	c := openTest(t, writeMP3(t, "song.mp3", tag, audioPayload))

	if c.Version() != 3 {
		t.Errorf("expected version 3, got %d", c.Version())
	}

	tags := c.Tags()
	want := []string{"TIT2", "TPE1", "TXXX:replaygain_track_gain"}
	if got := tags.Keys(); !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	title := tags.Get("TIT2")
	if got := title.Value.(types.TextValue); !slices.Equal(got, types.TextValue{"Midnight Drive"}) {
		t.Errorf("TIT2 = %v", got)
	}

	custom := tags.Get("TXXX:replaygain_track_gain")
	if !custom.Described || custom.Description != "replaygain_track_gain" {
		t.Errorf("TXXX description = %q (described %v)", custom.Description, custom.Described)
	}
	if got := custom.Value.(types.TextValue); !slices.Equal(got, types.TextValue{"-6.5 dB"}) {
		t.Errorf("TXXX value = %v", got)
	}
}

func TestOpen_ID3v24MultiValueUTF8(t *testing.T) {
	body := append([]byte{encUTF8}, "Rock\x00Jazz\x00"...)
	c := openTest(t, writeMP3(t, "multi.mp3", buildTag(t, 4, testFrame{id: "TCON", body: body}), audioPayload))

	got := c.Tags().Get("TCON").Value.(types.TextValue)
	if !slices.Equal(got, types.TextValue{"Rock", "Jazz"}) {
		t.Errorf("TCON = %v", got)
	}
}

func TestOpen_UTF16Text(t *testing.T) {
	body := append([]byte{encUTF16}, encodeText("Päättymätön hehku", encUTF16)...)
	c := openTest(t, writeMP3(t, "utf16.mp3", buildTag(t, 3, testFrame{id: "TIT2", body: body}), audioPayload))

	got := c.Tags().Get("TIT2").Value.(types.TextValue)
	if !slices.Equal(got, types.TextValue{"Päättymätön hehku"}) {
		t.Errorf("TIT2 = %q", got)
	}
}

func TestOpen_FrameKinds(t *testing.T) {
	apic := []byte{encLatin1}
	apic = append(apic, "image/png\x00"...)
	apic = append(apic, 0x03)
	apic = append(apic, "cover\x00"...)
	apic = append(apic, 0x89, 'P', 'N', 'G')

	comm := []byte{encLatin1}
	comm = append(comm, "eng"...)
	comm = append(comm, "note\x00hello"...)

	tag := buildTag(t, 3,
		testFrame{id: "APIC", body: apic},
		testFrame{id: "COMM", body: comm},
		testFrame{id: "WOAR", body: []byte("https://example.com/artist")},
		testFrame{id: "PRIV", body: []byte("owner\x00\x01\x02")},
		testFrame{id: "POPM", body: []byte("me@example.com\x00\xC4\x00\x05")},
		testFrame{id: "MCDI", body: []byte{0xDE, 0xAD}},
	)
	c := openTest(t, writeMP3(t, "kinds.mp3", tag, audioPayload))
	tags := c.Tags()

	tests := []struct {
		key   string
		check func(types.Value) bool
	}{
		{"APIC:cover", func(v types.Value) bool {
			b, ok := v.(types.BinaryValue)
			return ok && bytes.Equal(b, []byte{0x89, 'P', 'N', 'G'})
		}},
		{"COMM:note:eng", func(v types.Value) bool {
			s, ok := v.(types.TextValue)
			return ok && slices.Equal(s, types.TextValue{"hello"})
		}},
		{"WOAR", func(v types.Value) bool {
			o, ok := v.(types.OtherValue)
			return ok && o.String() == "https://example.com/artist"
		}},
		{"PRIV:owner", func(v types.Value) bool {
			b, ok := v.(types.BinaryValue)
			return ok && bytes.Equal(b, []byte{0x01, 0x02})
		}},
		{"POPM:me@example.com", func(v types.Value) bool {
			o, ok := v.(types.OtherValue)
			return ok && o.String() == "me@example.com rating=196 count=5"
		}},
		{"MCDI", func(v types.Value) bool {
			_, ok := v.(types.BinaryValue)
			return ok
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f := tags.Get(tt.key)
			if f == nil {
				t.Fatalf("missing %s, have %v", tt.key, tags.Keys())
			}
			if !tt.check(f.Value) {
				t.Errorf("unexpected value %#v", f.Value)
			}
		})
	}
}

func TestOpen_ID3v22KeysUpgraded(t *testing.T) {
	tag := buildTag(t, 2,
		testFrame{id: "TT2", body: textBody("Signal")},
		testFrame{id: "TXX", body: txxxBody("mood", "calm")},
	)
	c := openTest(t, writeMP3(t, "v22.mp3", tag, audioPayload))

	want := []string{"TIT2", "TXXX:mood"}
	if got := c.Tags().Keys(); !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if id := c.Tags().Get("TIT2").ID; id != "TT2" {
		t.Errorf("on-disk id = %q, want TT2", id)
	}
}

func TestOpen_CompressedFrame(t *testing.T) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(textBody("Compressed Title"))
	zw.Close()

	// ID3v2.4: data length indicator precedes compressed data
	size, _ := encodeSynchsafe(uint32(len(textBody("Compressed Title"))))
	body := append(size, compressed.Bytes()...)

	c := openTest(t, writeMP3(t, "zlib.mp3",
		buildTag(t, 4, testFrame{id: "TIT2", flags: v24FlagCompression | v24FlagDataLength, body: body}),
		audioPayload))

	f := c.Tags().Get("TIT2")
	if f == nil {
		t.Fatalf("missing TIT2, warnings: %v", c.Warnings())
	}
	if got := f.Value.(types.TextValue); !slices.Equal(got, types.TextValue{"Compressed Title"}) {
		t.Errorf("TIT2 = %v", got)
	}
	if f.Flags != 0 {
		t.Errorf("decoded frame should have processing flags cleared, got 0x%04x", f.Flags)
	}
}

func TestOpen_NoTag(t *testing.T) {
	c := openTest(t, writeMP3(t, "bare.mp3", audioPayload))

	if c.Tags() != nil {
		t.Errorf("expected nil tags, got %v", c.Tags().Keys())
	}
	if c.Version() != 0 || c.HasV1() {
		t.Error("bare file should report no tag versions")
	}
}

func TestOpen_ID3v1Only(t *testing.T) {
	c := openTest(t, writeMP3(t, "v1.mp3", audioPayload, buildV1("Old Title", "Old Artist", 7, 17)))

	if !c.HasV1() {
		t.Fatal("expected ID3v1 trailer to be detected")
	}
	want := []string{"COMM:ID3v1 Comment:eng", "TCON", "TIT2", "TPE1", "TRCK"}
	if got := c.Tags().Keys(); !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if got := c.Tags().Get("TRCK").Value.(types.TextValue); got[0] != "7" {
		t.Errorf("TRCK = %v", got)
	}
}

func TestOpen_ID3v2TakesPrecedenceOverV1(t *testing.T) {
	tag := buildTag(t, 3, testFrame{id: "TIT2", body: textBody("New Title")})
	c := openTest(t, writeMP3(t, "both.mp3", tag, audioPayload, buildV1("Old Title", "", 0, 0xFF)))

	if got := c.Tags().Get("TIT2").Value.(types.TextValue); got[0] != "New Title" {
		t.Errorf("TIT2 = %v, want the ID3v2 value", got)
	}
	if c.Tags().Get("TCON") != nil {
		t.Error("genre 255 means no genre")
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		target any
	}{
		{
			name:   "unsupported version",
			data:   append([]byte{'I', 'D', '3', 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, audioPayload...),
			target: new(*types.UnsupportedFormatError),
		},
		{
			name:   "size exceeds file",
			data:   []byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0x00, 0x00, 0x7F, 0x7F},
			target: new(*types.CorruptedFileError),
		},
		{
			name:   "size not synchsafe",
			data:   append([]byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}, audioPayload...),
			target: new(*types.CorruptedFileError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(writeMP3(t, "bad.mp3", tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var readErr *types.ContainerReadError
			if !errors.As(err, &readErr) {
				t.Fatalf("expected *ContainerReadError, got %T: %v", err, err)
			}
			if !errors.As(err, tt.target) {
				t.Errorf("expected cause %T, got %v", tt.target, err)
			}
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open("/nonexistent/path.mp3")

	var readErr *types.ContainerReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ContainerReadError, got %T: %v", err, err)
	}
}

func TestOpen_TruncatedFrameWarns(t *testing.T) {
	tag := buildTag(t, 3, testFrame{id: "TIT2", body: textBody("ok")})
	// declare a second frame far larger than the tag
	bogus := []byte{'T', 'P', 'E', '1', 0x00, 0x00, 0x10, 0x00, 0x00, 0x00}
	copy(tag[10+len("TIT2")+6+len(textBody("ok")):], bogus)

	c := openTest(t, writeMP3(t, "trunc.mp3", tag, audioPayload))
	if c.Tags().Get("TIT2") == nil {
		t.Error("frames before the damage should survive")
	}
	if len(c.Warnings()) == 0 {
		t.Error("expected a warning for the truncated frame")
	}
}

func TestOpen_UndecodableFrameKept(t *testing.T) {
	tag := buildTag(t, 3,
		testFrame{id: "TIT2", body: textBody("ok")},
		// too short for encoding plus language
		testFrame{id: "COMM", body: []byte{encLatin1, 'e'}},
	)
	c := openTest(t, writeMP3(t, "badcomm.mp3", tag, audioPayload))

	want := []string{"COMM", "TIT2"}
	if got := c.Tags().Keys(); !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	comm := c.Tags().Get("COMM")
	if got, ok := comm.Value.(types.BinaryValue); !ok || !bytes.Equal(got, []byte{encLatin1, 'e'}) {
		t.Errorf("COMM value = %#v", comm.Value)
	}
	if len(c.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", c.Warnings())
	}
}

func TestOpen_ID3v23ExtendedHeader(t *testing.T) {
	plain := buildTag(t, 3, testFrame{id: "TIT2", body: textBody("Behind the header")})

	// size 6 excludes itself: 2 flag bytes and a 4-byte padding size
	ext := []byte{0, 0, 0, 6, 0, 0, 0, 0, 0, 0}
	body := append(ext, plain[headerSize:]...)
	size, err := encodeSynchsafe(uint32(len(body)))
	if err != nil {
		t.Fatal(err)
	}
	tag := append([]byte{'I', 'D', '3', 3, 0, flagExtended}, size...)
	tag = append(tag, body...)

	c := openTest(t, writeMP3(t, "ext.mp3", tag, audioPayload))
	title := c.Tags().Get("TIT2")
	if title == nil {
		t.Fatalf("TIT2 missing, keys %v, warnings %v", c.Tags().Keys(), c.Warnings())
	}
	if got := title.Value.(types.TextValue); !slices.Equal(got, types.TextValue{"Behind the header"}) {
		t.Errorf("TIT2 = %v", got)
	}
}
