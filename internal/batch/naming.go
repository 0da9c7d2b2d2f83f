package batch

import (
	"fmt"
	"strings"

	"github.com/clipforge/clipforge/internal/edit"
)

// sanitizeName keeps alphanumerics, spaces, hyphens, and underscores, and
// trims surrounding whitespace. Everything else is dropped so segment names
// typed in a UI cannot break output paths.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// segmentFileName derives the output filename for the segment at the given
// zero-based position: a 1-based ordinal prefix plus the sanitized name, or
// a time-range fallback when no usable name remains.
func segmentFileName(index int, seg *edit.Segment) string {
	if safe := sanitizeName(seg.Name); safe != "" {
		return fmt.Sprintf("%03d_%s.mp4", index+1, safe)
	}
	return fmt.Sprintf("%03d_segment_%.2f-%.2f.mp4", index+1, seg.Start, seg.End)
}
