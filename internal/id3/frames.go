package id3

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/simonhull/mp3strip/internal/types"
)

// Frame format flags.
const (
	v23FlagCompression uint16 = 0x0080
	v23FlagEncryption  uint16 = 0x0040
	v23FlagGrouping    uint16 = 0x0020

	v24FlagGrouping    uint16 = 0x0040
	v24FlagCompression uint16 = 0x0008
	v24FlagEncryption  uint16 = 0x0004
	v24FlagUnsync      uint16 = 0x0002
	v24FlagDataLength  uint16 = 0x0001
)

var errShortFrame = errors.New("frame body too short")

// v22Upgrade maps ID3v2.2 frame identifiers to their ID3v2.3 equivalents.
// Keys always use the upgraded identifier.
var v22Upgrade = map[string]string{
	"TT1": "TIT1", "TT2": "TIT2", "TT3": "TIT3",
	"TP1": "TPE1", "TP2": "TPE2", "TP3": "TPE3", "TP4": "TPE4",
	"TAL": "TALB", "TCM": "TCOM", "TCO": "TCON", "TCR": "TCOP",
	"TYE": "TYER", "TDA": "TDAT", "TRK": "TRCK", "TPA": "TPOS",
	"TEN": "TENC", "TBP": "TBPM", "TLA": "TLAN", "TLE": "TLEN",
	"TPB": "TPUB", "TRC": "TSRC", "TSS": "TSSE", "TXT": "TEXT",
	"TXX": "TXXX", "WXX": "WXXX", "WAR": "WOAR", "WAF": "WOAF",
	"COM": "COMM", "ULT": "USLT", "PIC": "APIC", "GEO": "GEOB",
	"UFI": "UFID", "CNT": "PCNT", "POP": "POPM",
}

// v22Downgrade is the inverse of v22Upgrade.
var v22Downgrade = func() map[string]string {
	m := make(map[string]string, len(v22Upgrade))
	for old, upgraded := range v22Upgrade {
		m[upgraded] = old
	}
	return m
}()

// canonicalID returns the ID3v2.3+ identifier for id.
func canonicalID(id string, version byte) string {
	if version == 2 {
		if up, ok := v22Upgrade[id]; ok {
			return up
		}
	}
	return id
}

// unwrapFrameData undoes per-frame unsynchronisation, grouping, data length
// indicators and compression. Encrypted frames are returned untouched with
// ok false; they can only be carried as opaque data.
func unwrapFrameData(data []byte, flags uint16, version byte) (out []byte, remaining uint16, ok bool, err error) {
	switch version {
	case 3:
		if flags&v23FlagEncryption != 0 {
			return data, flags, false, nil
		}
		if flags&v23FlagCompression != 0 {
			if len(data) < 4 {
				return nil, flags, false, errShortFrame
			}
			data = data[4:]
		}
		if flags&v23FlagGrouping != 0 {
			if len(data) < 1 {
				return nil, flags, false, errShortFrame
			}
			data = data[1:]
		}
		if flags&v23FlagCompression != 0 {
			if data, err = inflate(data); err != nil {
				return nil, flags, false, err
			}
		}
		return data, flags &^ (v23FlagCompression | v23FlagGrouping), true, nil

	case 4:
		if flags&v24FlagEncryption != 0 {
			return data, flags, false, nil
		}
		if flags&v24FlagUnsync != 0 {
			data = removeUnsync(data)
		}
		if flags&v24FlagGrouping != 0 {
			if len(data) < 1 {
				return nil, flags, false, errShortFrame
			}
			data = data[1:]
		}
		if flags&v24FlagDataLength != 0 {
			if len(data) < 4 {
				return nil, flags, false, errShortFrame
			}
			data = data[4:]
		}
		if flags&v24FlagCompression != 0 {
			if data, err = inflate(data); err != nil {
				return nil, flags, false, err
			}
		}
		return data, flags &^ (v24FlagUnsync | v24FlagGrouping | v24FlagDataLength | v24FlagCompression), true, nil
	}

	return data, 0, true, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress frame: %w", err)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// decodeFrame turns one frame body into a keyed types.Frame.
func decodeFrame(id string, flags uint16, data []byte, version byte) (*types.Frame, error) {
	canon := canonicalID(id, version)
	frame := &types.Frame{Key: canon, ID: id, Flags: flags, Body: data}

	switch {
	case canon == "TXXX" || canon == "WXXX":
		if len(data) < 1 {
			return nil, errShortFrame
		}
		enc := data[0]
		desc, rest, _ := splitTerminated(data[1:], enc)
		frame.Key = canon + ":" + desc
		frame.Description = desc
		frame.Described = true
		if canon == "TXXX" {
			frame.Value = types.TextValue(splitText(rest, enc))
		} else {
			frame.Value = types.OtherValue{Repr: trimNull(decodeLatin1(rest))}
		}

	case canon[0] == 'T':
		if len(data) < 1 {
			return nil, errShortFrame
		}
		frame.Value = types.TextValue(splitText(data[1:], data[0]))

	case canon[0] == 'W':
		frame.Value = types.OtherValue{Repr: trimNull(decodeLatin1(data))}

	case canon == "COMM" || canon == "USLT":
		// [encoding][language(3)][description\0][text]
		if len(data) < 4 {
			return nil, errShortFrame
		}
		enc := data[0]
		lang := decodeLatin1(data[1:4])
		desc, rest, _ := splitTerminated(data[4:], enc)
		frame.Key = canon + ":" + desc + ":" + lang
		frame.Description = desc
		frame.Described = true
		frame.Value = types.TextValue(splitText(rest, enc))

	case canon == "APIC":
		desc, picture, err := decodePicture(data, version)
		if err != nil {
			return nil, err
		}
		frame.Key = "APIC:" + desc
		frame.Description = desc
		frame.Described = true
		frame.Value = types.BinaryValue(picture)

	case canon == "GEOB":
		// [encoding][mime\0][filename\0][description\0][data]
		if len(data) < 1 {
			return nil, errShortFrame
		}
		enc := data[0]
		_, rest, _ := splitTerminated(data[1:], encLatin1)
		_, rest, _ = splitTerminated(rest, enc)
		desc, object, _ := splitTerminated(rest, enc)
		frame.Key = "GEOB:" + desc
		frame.Description = desc
		frame.Described = true
		frame.Value = types.BinaryValue(object)

	case canon == "PRIV" || canon == "UFID":
		owner, payload, _ := splitTerminated(data, encLatin1)
		frame.Key = canon + ":" + owner
		frame.Value = types.BinaryValue(payload)

	case canon == "POPM":
		// [email\0][rating][counter...]
		email, rest, _ := splitTerminated(data, encLatin1)
		frame.Key = "POPM:" + email
		var rating byte
		count := new(big.Int)
		if len(rest) > 0 {
			rating = rest[0]
			count.SetBytes(rest[1:])
		}
		frame.Value = types.OtherValue{Repr: fmt.Sprintf("%s rating=%d count=%s", email, rating, count)}

	case canon == "PCNT":
		frame.Value = types.OtherValue{Repr: new(big.Int).SetBytes(data).String()}

	case canon == "CHAP" || canon == "CTOC":
		element, _, _ := splitTerminated(data, encLatin1)
		frame.Key = canon + ":" + element
		frame.Value = types.OtherValue{Repr: fmt.Sprintf("%s element %q", canon, element)}

	default:
		frame.Value = types.BinaryValue(data)
	}

	return frame, nil
}

// decodePicture extracts the description and image data of an APIC (or
// ID3v2.2 PIC) frame.
func decodePicture(data []byte, version byte) (desc string, picture []byte, err error) {
	if len(data) < 2 {
		return "", nil, errShortFrame
	}
	enc := data[0]
	rest := data[1:]

	if version == 2 {
		// [encoding][format(3)][type][description\0][data]
		if len(rest) < 4 {
			return "", nil, errShortFrame
		}
		rest = rest[4:]
	} else {
		// [encoding][mime\0][type][description\0][data]
		_, rest, _ = splitTerminated(rest, encLatin1)
		if len(rest) < 1 {
			return "", nil, errShortFrame
		}
		rest = rest[1:]
	}

	desc, picture, _ = splitTerminated(rest, enc)
	return desc, picture, nil
}

// encodeBody returns the body to write for frame in a tag of the given
// version. Frames read from disk keep their body; frames synthesized from
// ID3v1 or merged from duplicates are re-encoded.
func encodeBody(frame *types.Frame, version byte) ([]byte, error) {
	if frame.Body != nil {
		return frame.Body, nil
	}

	text, ok := frame.Value.(types.TextValue)
	if !ok {
		return nil, fmt.Errorf("frame %s: cannot encode %T without a raw body", frame.Key, frame.Value)
	}

	if len(frame.ID) != frameIDSize(version) {
		return nil, fmt.Errorf("frame %s: invalid frame id %q", frame.Key, frame.ID)
	}

	enc := textEncodingFor(version)
	canon := canonicalID(frame.ID, version)
	body := []byte{enc}

	switch {
	case canon == "TXXX":
		body = append(body, encodeText(frame.Description, enc)...)
		body = append(body, terminator(enc)...)
		body = append(body, encodeTextList(text, enc, version)...)

	case canon == "COMM" || canon == "USLT":
		lang := "eng"
		if i := strings.LastIndex(frame.Key, ":"); i >= 0 && len(frame.Key)-i-1 == 3 {
			lang = frame.Key[i+1:]
		}
		body = append(body, lang...)
		body = append(body, encodeText(frame.Description, enc)...)
		body = append(body, terminator(enc)...)
		body = append(body, encodeTextList(text, enc, version)...)

	case canon[0] == 'T':
		body = append(body, encodeTextList(text, enc, version)...)

	default:
		return nil, fmt.Errorf("frame %s: no text encoding for frame id %s", frame.Key, frame.ID)
	}

	return body, nil
}

// frameHeader builds the on-disk frame header for a body of n bytes.
func frameHeader(id string, flags uint16, n int, version byte) ([]byte, error) {
	if len(id) != frameIDSize(version) {
		return nil, fmt.Errorf("frame id %q is not valid in ID3v2.%d", id, version)
	}

	switch version {
	case 2:
		if n >= 1<<24 {
			return nil, fmt.Errorf("frame %s too large for ID3v2.2", id)
		}
		return append([]byte(id), byte(n>>16), byte(n>>8), byte(n)), nil
	case 3:
		hdr := make([]byte, 10)
		copy(hdr, id)
		binary.BigEndian.PutUint32(hdr[4:8], uint32(n))
		binary.BigEndian.PutUint16(hdr[8:10], flags)
		return hdr, nil
	default:
		size, err := encodeSynchsafe(uint32(n))
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", id, err)
		}
		hdr := make([]byte, 10)
		copy(hdr, id)
		copy(hdr[4:8], size)
		binary.BigEndian.PutUint16(hdr[8:10], flags)
		return hdr, nil
	}
}

func trimNull(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
