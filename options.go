package mp3strip

import (
	"io"
	"os"

	"github.com/simonhull/mp3strip/internal/id3"
)

// Option configures how files are processed.
//
// Options use the functional options pattern, the same set is accepted by
// Process, Inspect and Run.
//
// Example:
//
//	err := mp3strip.Process("song.mp3",
//	    mp3strip.WithDebug(),
//	    mp3strip.WithVerify(),
//	)
type Option func(*processOptions)

// processOptions holds configuration for processing files.
type processOptions struct {
	debug           bool      // Write to a DEBUG_ copy instead of in place
	output          io.Writer // Destination of the console report
	backend         string    // Registered container backend
	verify          bool      // Re-read the output after saving
	preserveModTime bool      // Restore the modification time after saving
}

// defaultOptions returns the default configuration.
func defaultOptions() *processOptions {
	return &processOptions{
		output:  os.Stdout,
		backend: id3.Name,
	}
}

func applyOptions(opts []Option) *processOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDebug leaves the input untouched and strips a copy instead.
//
// The copy is written next to the input as DEBUG_<name>, carrying the
// original's permissions and modification time.
func WithDebug() Option {
	return func(o *processOptions) {
		o.debug = true
	}
}

// WithOutput sets where the per-file report is written. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *processOptions) {
		if w != nil {
			o.output = w
		}
	}
}

// WithBackend selects the tag container backend by registry name.
//
// Available names are listed by Backends. Default is the native backend.
func WithBackend(name string) Option {
	return func(o *processOptions) {
		o.backend = name
	}
}

// WithVerify re-reads every saved file and fails if any tag survived.
//
// The output is reopened with the selected backend and then with an
// independent reader (github.com/dhowden/tag).
func WithVerify() Option {
	return func(o *processOptions) {
		o.verify = true
	}
}

// WithPreserveModTime restores the output file's modification time after
// the tags are removed.
func WithPreserveModTime() Option {
	return func(o *processOptions) {
		o.preserveModTime = true
	}
}
