// Package mp3strip lists and removes the metadata tags of MP3 files.
//
// Every ID3 frame of a file is printed in key order, then all of them are
// deleted and the file is saved, either in place or as a DEBUG_ copy that
// leaves the original untouched.
//
// # Quick Start
//
// Strip one file:
//
//	if err := mp3strip.Process("song.mp3"); err != nil {
//		log.Fatal(err)
//	}
//
// Strip a directory, keeping the originals:
//
//	summary, err := mp3strip.Run("../audio/", mp3strip.WithDebug())
//	if errors.Is(err, mp3strip.ErrNoFiles) {
//		return
//	}
//	fmt.Printf("%d processed, %d failed\n", summary.Processed, summary.Failed)
//
// # Output
//
// The report is line oriented and meant for people:
//
//	Processing: ../audio/track.mp3
//	  All metadata tags in ../audio/track.mp3:
//	    TIT2: Shadowrun
//	    TXXX:replaygain_track_gain: replaygain_track_gain = -6.5 dB
//
//	  Removing 2 metadata tag(s):
//	    - TIT2
//	    - TXXX:replaygain_track_gain
//	  ✓ Removed all metadata and saved: /home/me/audio/track.mp3
//
// Values longer than 256 characters are cut and followed by "...".
//
// # Backends
//
// Two tag container backends are registered:
//
//   - native: reads ID3v2.2, 2.3, 2.4 and ID3v1. Saving an emptied tag
//     leaves an empty ID3v2 header with padding and drops any ID3v1 trailer.
//   - id3v2: built on github.com/bogem/id3v2 (ID3v2.3 and 2.4 only). An
//     emptied tag is removed from the file entirely.
//
// # Error Handling
//
// Process never panics on a bad file. It prints the error and returns it,
// typed as one of MissingFileError, MissingDirectoryError,
// ContainerReadError or ContainerWriteError. Run counts those failures in
// its Summary and keeps going.
package mp3strip
