package mp3strip

import (
	"github.com/simonhull/mp3strip/internal/types"
)

// MissingFileError is an alias to types.MissingFileError.
// Re-exporting from internal/types to maintain public API.
type MissingFileError = types.MissingFileError

// MissingDirectoryError is an alias to types.MissingDirectoryError.
// Re-exporting from internal/types to maintain public API.
type MissingDirectoryError = types.MissingDirectoryError

// ContainerReadError is an alias to types.ContainerReadError.
// Re-exporting from internal/types to maintain public API.
type ContainerReadError = types.ContainerReadError

// ContainerWriteError is an alias to types.ContainerWriteError.
// Re-exporting from internal/types to maintain public API.
type ContainerWriteError = types.ContainerWriteError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

// UnknownBackendError is an alias to types.UnknownBackendError.
// Re-exporting from internal/types to maintain public API.
type UnknownBackendError = types.UnknownBackendError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
