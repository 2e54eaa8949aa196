package id3

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/simonhull/mp3strip/internal/types"
)

// V1Size is the length of an ID3v1 trailer.
const V1Size = 128

// v1CommentDescription is the description given to comments lifted from an
// ID3v1 trailer.
const v1CommentDescription = "ID3v1 Comment"

// ParseV1 converts a 128-byte ID3v1 (or v1.1) trailer into frames whose ids
// match the given ID3v2 major version. Empty fields produce no frame.
func ParseV1(b []byte, version byte) []*types.Frame {
	if len(b) != V1Size || string(b[0:3]) != "TAG" {
		return nil
	}

	field := func(raw []byte) string {
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		return strings.TrimRight(decodeLatin1(raw), " ")
	}

	title := field(b[3:33])
	artist := field(b[33:63])
	album := field(b[63:93])
	year := field(b[93:97])
	comment := field(b[97:127])

	track := 0
	if b[125] == 0 && b[126] != 0 {
		// ID3v1.1: last comment byte holds the track number
		comment = field(b[97:125])
		track = int(b[126])
	}
	genre := b[127]

	yearID := "TYER"
	if version == 4 || version == 0 {
		yearID = "TDRC"
	}

	var frames []*types.Frame
	add := func(canon, text string) {
		if text == "" {
			return
		}
		frames = append(frames, &types.Frame{
			Key:   canon,
			ID:    idForVersion(canon, version),
			Value: types.TextValue{text},
		})
	}

	add("TIT2", title)
	add("TPE1", artist)
	add("TALB", album)
	add(yearID, year)
	if track > 0 {
		add("TRCK", strconv.Itoa(track))
	}
	if genre != 0xFF {
		add("TCON", strconv.Itoa(int(genre)))
	}

	if comment != "" {
		frames = append(frames, &types.Frame{
			Key:         "COMM:" + v1CommentDescription + ":eng",
			ID:          idForVersion("COMM", version),
			Description: v1CommentDescription,
			Described:   true,
			Value:       types.TextValue{comment},
		})
	}

	return frames
}

// idForVersion returns the on-disk frame id for canonical id in a tag of
// the given version.
func idForVersion(canon string, version byte) string {
	if version == 2 {
		return v22Downgrade[canon]
	}
	return canon
}
