package id3

import (
	"bytes"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Text encodings as stored in the first byte of text-bearing frames.
const (
	encLatin1  byte = 0
	encUTF16   byte = 1 // with BOM
	encUTF16BE byte = 2 // ID3v2.4 only
	encUTF8    byte = 3 // ID3v2.4 only
)

// decodeText decodes text based on the ID3v2 encoding byte.
func decodeText(data []byte, encoding byte) string {
	if len(data) == 0 {
		return ""
	}

	var s string
	switch encoding {
	case encUTF16:
		s = decodeUTF16(data)
	case encUTF16BE:
		s = decodeUTF16BE(data)
	case encUTF8:
		if utf8.Valid(data) {
			s = string(data)
		} else {
			s = strings.ToValidUTF8(string(data), "\uFFFD")
		}
	default:
		// ISO-8859-1, and unknown encodings treated the same way
		s = decodeLatin1(data)
	}

	return strings.TrimPrefix(s, "\uFEFF")
}

// decodeLatin1 maps each byte to the code point of the same value.
func decodeLatin1(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

// decodeUTF16 decodes UTF-16 with BOM
func decodeUTF16(data []byte) string {
	if len(data) < 2 {
		return ""
	}

	if data[0] == 0xFF && data[1] == 0xFE {
		return decodeUTF16LE(data[2:])
	} else if data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16BE(data[2:])
	}

	// No BOM - assume big-endian
	return decodeUTF16BE(data)
}

func decodeUTF16LE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2]) | uint16(data[i*2+1])<<8
	}

	return string(utf16.Decode(u16))
}

func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[i*2])<<8 | uint16(data[i*2+1])
	}

	return string(utf16.Decode(u16))
}

// findNullTerminator finds the null terminator based on encoding
func findNullTerminator(data []byte, encoding byte) int {
	switch encoding {
	case encUTF16, encUTF16BE:
		for i := 0; i < len(data)-1; i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

// terminatorSize returns the size of the null terminator for the encoding
func terminatorSize(encoding byte) int {
	switch encoding {
	case encUTF16, encUTF16BE:
		return 2
	default:
		return 1
	}
}

// splitTerminated splits data at the first terminator and returns the
// decoded leading string and the remaining bytes. ok is false when no
// terminator is present, in which case the whole buffer is decoded.
func splitTerminated(data []byte, encoding byte) (s string, rest []byte, ok bool) {
	idx := findNullTerminator(data, encoding)
	if idx < 0 {
		return decodeText(data, encoding), nil, false
	}
	return decodeText(data[:idx], encoding), data[idx+terminatorSize(encoding):], true
}

// splitText decodes a terminator separated list of strings. Trailing empty
// strings produced by a final terminator are dropped.
func splitText(data []byte, encoding byte) []string {
	var values []string
	for len(data) > 0 {
		s, rest, ok := splitTerminated(data, encoding)
		values = append(values, s)
		if !ok {
			break
		}
		data = rest
	}

	for len(values) > 0 && values[len(values)-1] == "" {
		values = values[:len(values)-1]
	}
	return values
}

// textEncodingFor returns the encoding used when re-encoding text for a tag
// of the given major version.
func textEncodingFor(version byte) byte {
	if version >= 4 {
		return encUTF8
	}
	return encUTF16
}

// encodeText encodes s without a terminator.
func encodeText(s string, encoding byte) []byte {
	switch encoding {
	case encUTF8:
		return []byte(s)
	case encUTF16:
		u16 := utf16.Encode([]rune(s))
		out := make([]byte, 0, 2+len(u16)*2)
		out = append(out, 0xFF, 0xFE)
		for _, u := range u16 {
			out = append(out, byte(u), byte(u>>8))
		}
		return out
	default:
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0xFF {
				r = '?'
			}
			out = append(out, byte(r))
		}
		return out
	}
}

// terminator returns the null terminator bytes for the encoding.
func terminator(encoding byte) []byte {
	return make([]byte, terminatorSize(encoding))
}

// encodeTextList encodes values separated by terminators. ID3v2.3 and
// earlier have no multi-value text, so values are joined with "/" there.
func encodeTextList(values []string, encoding byte, version byte) []byte {
	if version < 4 {
		return encodeText(strings.Join(values, "/"), encoding)
	}

	var out []byte
	for i, v := range values {
		if i > 0 {
			out = append(out, terminator(encoding)...)
		}
		out = append(out, encodeText(v, encoding)...)
	}
	return out
}
