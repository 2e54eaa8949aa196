package mp3strip

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/pathutil"
	"github.com/simonhull/mp3strip/internal/registry"
	"github.com/simonhull/mp3strip/internal/types"
)

// DebugPrefix is prepended to the file name of debug copies.
const DebugPrefix = "DEBUG_"

// Process lists every metadata tag of the MP3 file at path and removes
// them all.
//
// The file is rewritten in place, or with WithDebug, a DEBUG_ copy next
// to it is stripped instead and the original is left alone. Progress and
// failures are reported line by line on the configured output. Failures
// are also returned so callers can count them; nothing panics.
//
// Example:
//
//	if err := mp3strip.Process("song.mp3"); err != nil {
//		log.Printf("strip failed: %v", err)
//	}
func Process(path string, opts ...Option) error {
	o := applyOptions(opts)
	w := o.output

	if !pathutil.FileExists(path) {
		fmt.Fprintf(w, "ERROR: File not found: %s\n", path)
		return &types.MissingFileError{Path: path}
	}

	if o.debug {
		fmt.Fprintf(w, "Processing: %s (DEBUG MODE)\n", path)
	} else {
		fmt.Fprintf(w, "Processing: %s\n", path)
	}

	if err := strip(path, o); err != nil {
		fmt.Fprintf(w, "ERROR processing %s: %v\n", path, err)
		return err
	}
	return nil
}

// Inspect lists the metadata tags of the MP3 file at path without
// changing anything.
func Inspect(path string, opts ...Option) error {
	o := applyOptions(opts)
	w := o.output

	if !pathutil.FileExists(path) {
		fmt.Fprintf(w, "ERROR: File not found: %s\n", path)
		return &types.MissingFileError{Path: path}
	}

	err := func() error {
		resolved, err := resolvePath(path)
		if err != nil {
			return err
		}

		_, c, err := open(o.backend, resolved)
		if err != nil {
			return err
		}
		defer c.Close()

		listTags(w, path, c.Tags())
		return nil
	}()
	if err != nil {
		fmt.Fprintf(w, "ERROR processing %s: %v\n", path, err)
	}
	return err
}

func strip(path string, o *processOptions) error {
	w := o.output

	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	log.Debugf("%s: resolved to %s", path, resolved)

	backend, c, err := open(o.backend, resolved)
	if err != nil {
		return err
	}
	defer func() { c.Close() }()

	tags := c.Tags()
	if !listTags(w, path, tags) {
		return nil
	}
	if tags.Len() == 0 {
		fmt.Fprintf(w, "  No metadata tags to remove in %s\n", resolved)
		return nil
	}

	output := resolved
	if o.debug {
		dir := filepath.Dir(resolved)
		if !pathutil.DirExists(dir) {
			return &types.MissingDirectoryError{Path: dir}
		}

		output = filepath.Join(dir, DebugPrefix+filepath.Base(resolved))
		fmt.Fprintf(w, "  Debug mode: will save as %s\n", output)

		if err := copyFile(resolved, output); err != nil {
			return &types.ContainerWriteError{Path: output, Reason: "copy to debug file", Err: err}
		}

		// Work on the copy from here on
		c.Close()
		copied, err := backend.Open(output)
		if err != nil {
			return err
		}
		c = copied
		tags = c.Tags()
	}

	if tags.Len() == 0 {
		fmt.Fprintf(w, "  No metadata tags to remove in %s\n", output)
		return nil
	}

	// Snapshot before deleting
	keys := tags.Keys()
	fmt.Fprintf(w, "  Removing %d metadata tag(s):\n", len(keys))
	for _, key := range keys {
		fmt.Fprintf(w, "    - %s\n", key)
	}
	for _, key := range keys {
		tags.Delete(key)
	}

	var modTime time.Time
	if o.preserveModTime {
		if info, err := os.Stat(output); err == nil {
			modTime = info.ModTime()
		}
	}

	if err := c.SaveAs(output); err != nil {
		return err
	}

	if !modTime.IsZero() {
		if err := os.Chtimes(output, time.Time{}, modTime); err != nil {
			log.Warningf("%s: could not restore modification time: %v", output, err)
		}
	}

	if o.verify {
		c.Close()
		if err := verify(backend, output); err != nil {
			return err
		}
		log.Debugf("%s: verified, no tags remain", output)
	}

	fmt.Fprintf(w, "  ✓ Removed all metadata and saved: %s\n", output)
	return nil
}

// open looks up the backend and opens path with it. Parser warnings are
// logged, not reported.
func open(name, path string) (registry.Backend, registry.Container, error) {
	backend, err := registry.Get(name)
	if err != nil {
		return nil, nil, err
	}

	c, err := backend.Open(path)
	if err != nil {
		return nil, nil, err
	}

	log.Debugf("%s: opened with %s backend", path, name)
	for _, warning := range c.Warnings() {
		log.Warningf("%s: %s", path, warning)
	}
	return backend, c, nil
}

// listTags prints the tag listing and reports whether the file has a tag.
func listTags(w io.Writer, path string, tags *Tag) bool {
	if tags == nil {
		fmt.Fprintf(w, "  No metadata tags found in %s\n", path)
		return false
	}

	fmt.Fprintf(w, "  All metadata tags in %s:\n", path)
	for _, frame := range tags.All() {
		fmt.Fprintf(w, "    %s\n", formatEntry(frame))
	}
	fmt.Fprintln(w)
	return true
}

// resolvePath returns the absolute path of path with symlinks followed.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &types.ContainerReadError{Path: path, Reason: "resolve path", Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &types.ContainerReadError{Path: path, Reason: "resolve symlinks", Err: err}
	}
	return resolved, nil
}
