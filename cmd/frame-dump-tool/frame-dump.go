package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Useful test file to confirm which frames are actually on disk, before
// any decoding.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: frame-dump <file.mp3>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	dumpV2(f)
	dumpV1(f, stat.Size())
}

func dumpV2(r io.ReaderAt) {
	header := make([]byte, 10)
	if _, err := r.ReadAt(header, 0); err != nil || string(header[0:3]) != "ID3" {
		fmt.Println("no ID3v2 tag")
		return
	}

	version := header[3]
	size := synchsafe(header[6:10])
	fmt.Printf("ID3v2.%d.%d (flags: %08b, size: %d)\n", version, header[4], header[5], size)

	idSize, headerSize := 4, int64(10)
	if version == 2 {
		idSize, headerSize = 3, 6
	}

	offset := int64(10)
	end := offset + int64(size)
	for offset+headerSize <= end {
		fh := make([]byte, headerSize)
		if _, err := r.ReadAt(fh, offset); err != nil {
			return
		}
		if fh[0] == 0 {
			fmt.Printf("  padding (%d bytes, offset: %d)\n", end-offset, offset)
			return
		}

		id := string(fh[:idSize])
		var frameSize int64
		var flags uint16
		switch version {
		case 2:
			frameSize = int64(fh[3])<<16 | int64(fh[4])<<8 | int64(fh[5])
		case 3:
			frameSize = int64(binary.BigEndian.Uint32(fh[4:8]))
			flags = binary.BigEndian.Uint16(fh[8:10])
		default:
			frameSize = int64(synchsafe(fh[4:8]))
			flags = binary.BigEndian.Uint16(fh[8:10])
		}

		fmt.Printf("  %s (size: %d, flags: %016b, offset: %d)\n", id, frameSize, flags, offset)
		offset += headerSize + frameSize
	}
}

func dumpV1(r io.ReaderAt, size int64) {
	if size < 128 {
		return
	}
	tag := make([]byte, 128)
	if _, err := r.ReadAt(tag, size-128); err != nil || string(tag[0:3]) != "TAG" {
		fmt.Println("no ID3v1 tag")
		return
	}

	version := "ID3v1"
	if tag[125] == 0 && tag[126] != 0 {
		version = "ID3v1.1"
	}
	fmt.Printf("%s (offset: %d, genre: %d)\n", version, size-128, tag[127])
}

func synchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}
