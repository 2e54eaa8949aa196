package id3

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	binutil "github.com/simonhull/mp3strip/internal/binary"
	"github.com/simonhull/mp3strip/internal/types"
)

// defaultPadding is the number of zero bytes written after the last frame.
const defaultPadding = 1024

// SaveAs writes the remaining frames and the audio stream to outputPath.
//
// The tag keeps the major version it was read with (ID3v2.4 when the file
// had none). An empty tag is still written as a header followed by padding.
// Any ID3v1 trailer is dropped.
//
// This is an atomic operation: the file is written to a temporary file in
// the output directory first, then renamed over outputPath.
func (c *Container) SaveAs(outputPath string) error {
	if c.file == nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "container is closed"}
	}

	version := c.p.version()
	if version == 0 {
		version = 4
	}

	frames, err := encodeFrames(c.p.tag, version)
	if err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "encode frames", Err: err}
	}

	tagSize, err := encodeSynchsafe(uint32(len(frames) + defaultPadding))
	if err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "encode tag size", Err: err}
	}

	// Keep the permissions of whatever is being replaced
	mode := os.FileMode(0o644)
	if info, err := os.Stat(c.path); err == nil {
		mode = info.Mode().Perm()
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(outputPath), ".mp3strip-*.tmp")
	if err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "create temp file", Err: err}
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	bw := bufio.NewWriter(tempFile)
	sw := binutil.NewSafeWriter(bw)

	if err := writeTag(sw, version, tagSize, frames); err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "write tag", Err: err}
	}
	if err := sw.CopyFrom(c.file, c.p.audioStart, c.p.audioEnd-c.p.audioStart); err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "copy audio stream", Err: err}
	}
	if want := int64(headerSize+len(frames)+defaultPadding) + c.p.audioEnd - c.p.audioStart; sw.Offset() != want {
		return &types.ContainerWriteError{
			Path:   outputPath,
			Reason: fmt.Sprintf("wrote %d bytes, expected %d", sw.Offset(), want),
		}
	}
	if err := bw.Flush(); err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "flush temp file", Err: err}
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "sync temp file", Err: err}
	}
	if err := tempFile.Chmod(mode); err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "chmod temp file", Err: err}
	}
	if err := tempFile.Close(); err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "close temp file", Err: err}
	}

	// Atomic rename temp -> output
	if err := os.Rename(tempPath, outputPath); err != nil {
		return &types.ContainerWriteError{Path: outputPath, Reason: "rename temp to output", Err: err}
	}

	success = true
	return nil
}

// encodeFrames serializes the tag's frames in key order.
func encodeFrames(tag *types.Tag, version byte) ([]byte, error) {
	var buf bytes.Buffer
	for key, frame := range tag.All() {
		body, err := encodeBody(frame, version)
		if err != nil {
			return nil, err
		}
		hdr, err := frameHeader(frame.ID, frame.Flags, len(body), version)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		buf.Write(hdr)
		buf.Write(body)
	}
	return buf.Bytes(), nil
}

func writeTag(sw *binutil.SafeWriter, version byte, size []byte, frames []byte) error {
	if err := sw.WriteString("ID3"); err != nil {
		return err
	}
	if err := binutil.Write[uint8](sw, version); err != nil {
		return err
	}
	// revision and flags
	if err := binutil.Write[uint16](sw, 0); err != nil {
		return err
	}
	if err := sw.WriteBytes(size); err != nil {
		return err
	}
	if err := sw.WriteBytes(frames); err != nil {
		return err
	}
	return sw.WriteZeros(defaultPadding)
}
