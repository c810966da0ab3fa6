package pipeline

import (
	"fmt"
	"strings"
)

// PartitionName is the directory key of segment output paths.
//
//	out/state=NORMAL/part-<run id>.arrow
//	out/state=FLOW/part-<run id>.arrow
const PartitionName = "state"

// PartitionPath returns the Hive-style directory of a segment.
func PartitionPath(label string) string {
	return fmt.Sprintf("%s=%s", PartitionName, escapePartitionValue(label))
}

// escapePartitionValue escapes the characters that would break a path
// segment or a key=value pair. Label names are usually plain words, so only
// this subset is handled.
func escapePartitionValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '/':
			b.WriteString("%2F")
		case '\\':
			b.WriteString("%5C")
		case '=':
			b.WriteString("%3D")
		case '%':
			b.WriteString("%25")
		case '\n':
			b.WriteString("%0A")
		case '\r':
			b.WriteString("%0D")
		case '\t':
			b.WriteString("%09")
		default:
			b.WriteRune(r)
		}
	}
	if s == "." || s == ".." {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	return b.String()
}
