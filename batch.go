package mp3strip

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/pathutil"
	"github.com/simonhull/mp3strip/internal/types"
)

// ErrNoFiles is returned by Run when the directory holds no MP3 files.
var ErrNoFiles = errors.New("no MP3 files found")

// debugMarker marks file names that are skipped by Run, so debug copies
// are never processed again.
const debugMarker = "DEBUG"

// Summary counts the outcome of a Run.
type Summary struct {
	Found     int // MP3 files in the directory
	Skipped   int // debug copies left alone
	Processed int // files handled without error
	Failed    int // files whose processing returned an error
}

// Run processes every MP3 file directly inside dir, one after another.
//
// Files are matched by a case-insensitive ".mp3" suffix and handled in
// name order. Names containing "DEBUG" are skipped. A failure on one file
// is reported and counted, and the batch moves on to the next.
//
// Run returns a *MissingDirectoryError when dir does not exist and
// ErrNoFiles when it contains no MP3 files.
func Run(dir string, opts ...Option) (Summary, error) {
	o := applyOptions(opts)
	w := o.output
	var summary Summary

	if !pathutil.DirExists(dir) {
		fmt.Fprintf(w, "ERROR: Directory not found: %s\n", dir)
		return summary, &types.MissingDirectoryError{Path: dir}
	}

	files, err := listMP3s(dir)
	if err != nil {
		return summary, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "No MP3 files found in %s\n", dir)
		return summary, ErrNoFiles
	}

	summary.Found = len(files)
	fmt.Fprintf(w, "Found %d MP3 file(s) in %s\n\n", len(files), dir)

	for _, name := range files {
		if strings.Contains(name, debugMarker) {
			fmt.Fprintf(w, "Skipping %s (contains '%s' in filename)\n\n", name, debugMarker)
			summary.Skipped++
			continue
		}

		if err := Process(filepath.Join(dir, name), opts...); err != nil {
			log.Debugf("%s: %v", name, err)
			summary.Failed++
		} else {
			summary.Processed++
		}
		fmt.Fprintln(w)
	}

	log.Infof("%s: %d processed, %d skipped, %d failed", dir, summary.Processed, summary.Skipped, summary.Failed)
	return summary, nil
}

// listMP3s returns the sorted names of non-directory entries of dir ending
// in ".mp3" in any case.
func listMP3s(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".mp3") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
