package id3

import (
	"bytes"
	"fmt"

	binutil "github.com/simonhull/mp3strip/internal/binary"
	"github.com/simonhull/mp3strip/internal/types"
)

// parsed is the outcome of reading the tags of one file.
type parsed struct {
	tag      *types.Tag // nil when neither an ID3v2 header nor an ID3v1 trailer is present
	header   *header    // nil without an ID3v2 header
	hasV1    bool
	warnings []types.Warning

	// audio stream boundaries
	audioStart int64
	audioEnd   int64
}

// version returns the ID3v2 major version, or 0 when the file only has an
// ID3v1 trailer or nothing.
func (p *parsed) version() byte {
	if p.header == nil {
		return 0
	}
	return p.header.Version
}

// parse reads the ID3v2 tag at the start of the file and any ID3v1 trailer.
func parse(sr *binutil.SafeReader) (*parsed, error) {
	size := sr.Size()
	p := &parsed{audioEnd: size}

	if size >= headerSize {
		if err := parseV2(sr, p); err != nil {
			return nil, err
		}
	}

	if size-V1Size >= p.audioStart {
		buf, err := sr.Bytes(size-V1Size, V1Size, "ID3v1 trailer")
		if err == nil && string(buf[0:3]) == "TAG" {
			p.hasV1 = true
			p.audioEnd = size - V1Size
			if p.tag == nil {
				p.tag = types.NewTag()
			}
			for _, frame := range ParseV1(buf, p.version()) {
				if frame.ID == "" {
					p.warnings = append(p.warnings, types.Warning{
						Stage:   "id3v1",
						Message: fmt.Sprintf("no ID3v2.%d frame for %s, field ignored", p.version(), frame.Key),
						Offset:  size - V1Size,
					})
					continue
				}
				// ID3v2 values take precedence over the trailer
				if p.tag.Get(frame.Key) == nil {
					p.tag.Set(frame)
				}
			}
		}
	}

	return p, nil
}

// parseV2 parses the ID3v2 tag, if any, into p.
func parseV2(sr *binutil.SafeReader, p *parsed) error {
	buf, err := sr.Bytes(0, headerSize, "ID3v2 header")
	if err != nil {
		return err
	}

	// Verify "ID3" magic bytes
	if string(buf[0:3]) != "ID3" {
		return nil
	}

	if !isSynchsafe(buf[6:10]) {
		return &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: "tag size is not synchsafe",
			Offset: 6,
		}
	}

	h := header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     decodeSynchsafe(buf[6:10]),
	}

	if h.Version < 2 || h.Version > 4 {
		return &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", h.Version),
		}
	}
	if h.Version == 2 && h.Flags&flagExtended != 0 {
		return &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: "compressed ID3v2.2 tag",
		}
	}
	if h.totalSize() > sr.Size() {
		return &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("tag size %d exceeds file size %d", h.totalSize(), sr.Size()),
			Offset: 6,
		}
	}

	body, err := sr.Bytes(headerSize, int(h.Size), "ID3v2 tag body")
	if err != nil {
		return err
	}
	if h.Flags&flagUnsync != 0 && h.Version < 4 {
		body = removeUnsync(body)
	}

	br := binutil.NewSafeReader(bytes.NewReader(body), int64(len(body)), sr.Path())

	offset := 0
	if h.Version > 2 && h.Flags&flagExtended != 0 {
		if len(body) < 4 {
			return &types.CorruptedFileError{Path: sr.Path(), Reason: "truncated extended header", Offset: headerSize}
		}
		if h.Version == 4 {
			// ID3v2.4: synchsafe size including itself
			offset = int(decodeSynchsafe(body[0:4]))
		} else {
			// ID3v2.3: regular size excluding itself
			n, err := binutil.Read[uint32](br, 0, "extended header size")
			if err != nil {
				return err
			}
			offset = int(n) + 4
		}
		if offset > len(body) {
			return &types.CorruptedFileError{Path: sr.Path(), Reason: "extended header exceeds tag", Offset: headerSize}
		}
	}

	p.header = &h
	p.tag = types.NewTag()
	p.audioStart = h.totalSize()
	p.warnings = append(p.warnings, parseFrames(br, body, offset, h.Version, p.tag)...)

	return nil
}

// parseFrames walks the frames of a tag body starting at offset.
func parseFrames(br *binutil.SafeReader, body []byte, offset int, version byte, tag *types.Tag) []types.Warning {
	var warnings []types.Warning
	hdrLen := frameHeaderSize(version)

	for offset+hdrLen <= len(body) {
		// Padding (null bytes) indicates end of frames
		if body[offset] == 0 {
			break
		}

		id, size, flags, err := parseFrameHeader(br, int64(offset), version)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "frame",
				Message: err.Error(),
				Offset:  int64(headerSize + offset),
			})
			break
		}
		if !validFrameID(id, version) {
			warnings = append(warnings, types.Warning{
				Stage:   "frame",
				Message: fmt.Sprintf("invalid frame id %q, ignoring rest of tag", id),
				Offset:  int64(headerSize + offset),
			})
			break
		}

		start := offset + hdrLen
		end := start + size
		if end > len(body) {
			warnings = append(warnings, types.Warning{
				Stage:   "frame",
				Message: fmt.Sprintf("frame %s truncated (%d bytes declared, %d available)", id, size, len(body)-start),
				Offset:  int64(headerSize + offset),
			})
			break
		}
		offset = end

		data, remaining, readable, err := unwrapFrameData(body[start:end], flags, version)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "frame",
				Message: fmt.Sprintf("%s: frame %s: %v", br.Path(), id, err),
				Offset:  int64(headerSize + start),
			})
			tag.Set(rawFrame(id, flags, body[start:end], version))
			continue
		}

		if !readable {
			tag.Set(rawFrame(id, flags, data, version))
			continue
		}

		frame, err := decodeFrame(id, remaining, data, version)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "frame",
				Message: fmt.Sprintf("frame %s: %v", id, err),
				Offset:  int64(headerSize + start),
			})
			// kept opaque so it is still listed and removable
			frame = rawFrame(id, remaining, data, version)
		}
		tag.Set(frame)
	}

	return warnings
}

// rawFrame carries a frame body that cannot be decoded as binary data under
// its canonical id.
func rawFrame(id string, flags uint16, data []byte, version byte) *types.Frame {
	return &types.Frame{
		Key:   canonicalID(id, version),
		ID:    id,
		Flags: flags,
		Body:  data,
		Value: types.BinaryValue(data),
	}
}
