package mp3strip

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dhowden/tag"
	"github.com/simonhull/mp3strip/internal/registry"
	"github.com/simonhull/mp3strip/internal/types"
)

// verify re-reads path and fails unless both the backend and an
// independent reader see no tags.
func verify(backend registry.Backend, path string) error {
	c, err := backend.Open(path)
	if err != nil {
		return &types.ContainerWriteError{Path: path, Reason: "verify: reopen output", Err: err}
	}
	remaining := c.Tags().Keys()
	c.Close()

	if len(remaining) > 0 {
		return &types.ContainerWriteError{
			Path:   path,
			Reason: fmt.Sprintf("verify: %d tag(s) remain: %s", len(remaining), strings.Join(remaining, ", ")),
		}
	}

	return verifyIndependent(path)
}

// verifyIndependent reads path with github.com/dhowden/tag.
func verifyIndependent(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &types.ContainerWriteError{Path: path, Reason: "verify: open output", Err: err}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return nil
	}
	if err != nil {
		return &types.ContainerWriteError{Path: path, Reason: "verify: read output", Err: err}
	}

	var fields []string
	for name := range m.Raw() {
		// padding read as a frame shows up under an all-NUL name
		if strings.Trim(name, "\x00") == "" {
			continue
		}
		fields = append(fields, name)
	}
	if len(fields) > 0 {
		slices.Sort(fields)
		return &types.ContainerWriteError{
			Path:   path,
			Reason: fmt.Sprintf("verify: %s tag still carries %s", m.Format(), strings.Join(fields, ", ")),
		}
	}
	return nil
}
