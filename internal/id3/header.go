package id3

import (
	"fmt"

	binutil "github.com/simonhull/mp3strip/internal/binary"
)

const (
	headerSize = 10
	footerSize = 10

	flagUnsync   byte = 0x80
	flagExtended byte = 0x40 // compression in ID3v2.2
	flagFooter   byte = 0x10
)

// header represents an ID3v2 tag header
type header struct {
	Version  byte // Major version (2, 3 or 4)
	Revision byte
	Flags    byte
	Size     uint32 // Tag size excluding header and footer
}

// totalSize returns the on-disk size of the tag including header and footer.
func (h header) totalSize() int64 {
	n := int64(headerSize) + int64(h.Size)
	if h.Version == 4 && h.Flags&flagFooter != 0 {
		n += footerSize
	}
	return n
}

// frameHeaderSize returns the size of a frame header for a major version.
func frameHeaderSize(version byte) int {
	if version == 2 {
		return 6
	}
	return 10
}

// frameIDSize returns the length of frame identifiers for a major version.
func frameIDSize(version byte) int {
	if version == 2 {
		return 3
	}
	return 4
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte)
// ID3v2 uses 7-bit encoding where bit 7 is always 0
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// encodeSynchsafe encodes n as a 4-byte synchsafe integer.
func encodeSynchsafe(n uint32) ([]byte, error) {
	if n >= 1<<28 {
		return nil, fmt.Errorf("size %d does not fit a synchsafe integer", n)
	}
	return []byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}, nil
}

// isSynchsafe reports whether all four size bytes have bit 7 clear.
func isSynchsafe(b []byte) bool {
	for _, c := range b {
		if c&0x80 != 0 {
			return false
		}
	}
	return true
}

// removeUnsync reverses the unsynchronisation scheme: every 0xFF 0x00 pair
// is replaced by 0xFF.
func removeUnsync(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		out = append(out, data[i])
		if data[i] == 0xFF && i+1 < len(data) && data[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// parseFrameHeader reads id, size and flags of the frame header at off.
func parseFrameHeader(br *binutil.SafeReader, off int64, version byte) (id string, size int, flags uint16, err error) {
	raw, err := br.Bytes(off, frameIDSize(version), "frame id")
	if err != nil {
		return "", 0, 0, err
	}
	id = string(raw)

	switch version {
	case 2:
		b, err := br.Bytes(off+3, 3, "frame size")
		if err != nil {
			return id, 0, 0, err
		}
		return id, int(b[0])<<16 | int(b[1])<<8 | int(b[2]), 0, nil
	case 3:
		n, err := binutil.Read[uint32](br, off+4, "frame size")
		if err != nil {
			return id, 0, 0, err
		}
		size = int(n)
	default:
		b, err := br.Bytes(off+4, 4, "frame size")
		if err != nil {
			return id, 0, 0, err
		}
		size = int(decodeSynchsafe(b))
	}

	flags, err = binutil.Read[uint16](br, off+8, "frame flags")
	return id, size, flags, err
}

// validFrameID reports whether id consists only of upper case letters and
// digits, as required for frame identifiers.
func validFrameID(id string, version byte) bool {
	if len(id) != frameIDSize(version) {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
