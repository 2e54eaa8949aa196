package types

import "fmt"

// MissingFileError is returned when the file to process does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// MissingDirectoryError is returned when a directory that must exist does
// not (the batch input directory or the debug output directory).
type MissingDirectoryError struct {
	Path string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("directory does not exist: %s", e.Path)
}

// ContainerReadError is returned when a tag container cannot be opened or
// parsed.
type ContainerReadError struct {
	Err    error
	Path   string
	Reason string
}

func (e *ContainerReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *ContainerReadError) Unwrap() error {
	return e.Err
}

// ContainerWriteError is returned when a tag container cannot be saved.
type ContainerWriteError struct {
	Err    error
	Path   string
	Reason string
}

func (e *ContainerWriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *ContainerWriteError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned when the tag header is not a variant
// the container understands.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when tag structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted tag at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// UnknownBackendError is returned when no container backend is registered
// under the requested name.
type UnknownBackendError struct {
	Name string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown tag backend %q", e.Name)
}

// Warning represents a non-fatal issue encountered while parsing a tag,
// such as a truncated frame that was skipped.
type Warning struct {
	// Stage where the warning occurred ("header", "frame", "id3v1")
	Stage string

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
