package mp3strip

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short", "Shadowrun", "Shadowrun"},
		{"exactly 256", strings.Repeat("x", 256), strings.Repeat("x", 256)},
		{"257", strings.Repeat("x", 257), strings.Repeat("x", 256) + "..."},
		{"multibyte counted as characters", strings.Repeat("ä", 300), strings.Repeat("ä", 256) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input); got != tt.want {
				t.Errorf("Truncate() = %d chars, want %d", len([]rune(got)), len([]rune(tt.want)))
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"single text", TextValue{"Shadowrun"}, "Shadowrun"},
		{"multi text", TextValue{"Rock", "Jazz", "Ambient"}, "Rock, Jazz, Ambient"},
		{"binary", BinaryValue{0xFF, 0xD8, 'J'}, `"\xff\xd8J"`},
		{"other", OtherValue{Repr: "https://example.com"}, "https://example.com"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value); got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
		want  string
	}{
		{
			name:  "plain",
			frame: &Frame{Key: "TIT2", ID: "TIT2", Value: TextValue{"Shadowrun"}},
			want:  "TIT2: Shadowrun",
		},
		{
			name: "custom field shows description",
			frame: &Frame{
				Key: "TXXX:replaygain_track_gain", ID: "TXXX",
				Description: "replaygain_track_gain", Described: true,
				Value: TextValue{"-6.5 dB"},
			},
			want: "TXXX:replaygain_track_gain: replaygain_track_gain = -6.5 dB",
		},
		{
			name: "comment description is not shown",
			frame: &Frame{
				Key: "COMM:note:eng", ID: "COMM",
				Description: "note", Described: true,
				Value: TextValue{"hi"},
			},
			want: "COMM:note:eng: hi",
		},
		{
			name:  "long value truncated",
			frame: &Frame{Key: "TIT2", ID: "TIT2", Value: TextValue{strings.Repeat("a", 400)}},
			want:  "TIT2: " + strings.Repeat("a", 256) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatEntry(tt.frame); got != tt.want {
				t.Errorf("formatEntry() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCustomKey(t *testing.T) {
	for key, want := range map[string]bool{
		"TXXX:replaygain_track_gain": true,
		"WXXX:homepage":              true,
		"TXXX":                       true,
		"TIT2":                       false,
		"COMM::eng":                  false,
		"TXXXY":                      false,
	} {
		if got := IsCustomKey(key); got != want {
			t.Errorf("IsCustomKey(%q) = %v, want %v", key, got, want)
		}
	}
}
