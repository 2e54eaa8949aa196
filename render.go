package mp3strip

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/simonhull/mp3strip/internal/types"
)

const (
	// maxValueLength is the number of characters of a value shown in listings.
	maxValueLength = 256
	ellipsis       = "..."
)

// FormatValue renders a frame value for display. Text values are joined
// with ", ", binary payloads are quoted and anything else uses its String
// form.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case types.TextValue:
		return strings.Join(v, ", ")
	case types.BinaryValue:
		return fmt.Sprintf("%q", []byte(v))
	case types.OtherValue:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Truncate shortens s to 256 characters followed by "...". Shorter
// strings are returned unchanged.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxValueLength {
		return s
	}
	return string([]rune(s)[:maxValueLength]) + ellipsis
}

// formatEntry renders one listing line (without indentation).
// User-defined fields also show their description.
func formatEntry(f *Frame) string {
	value := Truncate(FormatValue(f.Value))
	if types.IsCustomKey(f.Key) && f.Described {
		return fmt.Sprintf("%s: %s = %s", f.Key, f.Description, value)
	}
	return fmt.Sprintf("%s: %s", f.Key, value)
}
