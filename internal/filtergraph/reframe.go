package filtergraph

import (
	"fmt"
	"math"

	"github.com/clipforge/clipforge/internal/edit"
)

// aspectTolerance is the relative-aspect deviation under which no crop is
// emitted at all.
const aspectTolerance = 0.01

// cropFilter computes the center-crop that reframes the source to the target
// aspect ratio, or returns "" when no reframe is requested or needed.
// Dimensions are rounded down to even values so the cropped frame stays
// encodable, and offsets are integer and centered.
func cropFilter(spec *edit.Spec) string {
	target := spec.Aspect.Ratio()
	if target == 0 || spec.SourceWidth <= 0 || spec.SourceHeight <= 0 {
		return ""
	}

	w := spec.SourceWidth
	h := spec.SourceHeight
	source := float64(w) / float64(h)
	if math.Abs(source-target) < aspectTolerance {
		return ""
	}

	var newW, newH, x, y int
	if source > target {
		// Source is relatively wider: keep height, crop width.
		newW = evenDim(float64(h) * target)
		newH = h
		x = (w - newW) / 2
	} else {
		// Source is relatively taller: keep width, crop height.
		newW = w
		newH = evenDim(float64(w) / target)
		y = (h - newH) / 2
	}

	return fmt.Sprintf("crop=%d:%d:%d:%d", newW, newH, x, y)
}

// evenDim rounds a dimension to the nearest even integer, which H.264/H.265
// encoders require for yuv420p output.
func evenDim(v float64) int {
	n := int(math.Round(v / 2))
	return n * 2
}
