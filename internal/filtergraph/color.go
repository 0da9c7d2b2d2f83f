package filtergraph

import (
	"math"
	"strings"

	"github.com/clipforge/clipforge/internal/edit"
)

// Fixed strength multipliers for the grade parameters that do not map 1:1
// onto a filter knob.
const (
	gammaPerShadow   = 0.5  // shadows -> eq gamma offset
	unsharpPerPoint  = 1.5  // positive sharpness -> unsharp luma amount
	blurSigmaPerPoint = 2.0 // negative sharpness -> gblur sigma
	mixerBand        = 0.3  // max diagonal push from temperature/tint
	tintSpill        = 0.5  // magenta tint leaks this fraction into red/blue
)

// colorFilters emits the grade as up to three video filters, in order:
// the combined eq adjustment, the sharpness path, and the channel mixer.
// Sub-parameters within edit.NeutralTolerance of neutral are omitted, so a
// fully neutral grade emits nothing.
func colorFilters(g edit.ColorGrade) []string {
	var filters []string

	if f := eqFilter(g); f != "" {
		filters = append(filters, f)
	}

	// Sharpen and blur are mutually exclusive paths keyed on sign.
	switch {
	case g.Sharpness >= edit.NeutralTolerance:
		filters = append(filters, "unsharp=5:5:"+fnum(g.Sharpness*unsharpPerPoint))
	case g.Sharpness <= -edit.NeutralTolerance:
		filters = append(filters, "gblur=sigma="+fnum(-g.Sharpness*blurSigmaPerPoint))
	}

	if f := mixerFilter(g); f != "" {
		filters = append(filters, f)
	}
	return filters
}

// eqFilter combines brightness, contrast, saturation, and shadows-as-gamma
// into one eq expression, keeping only the parts that deviate from neutral.
func eqFilter(g edit.ColorGrade) string {
	var parts []string

	if math.Abs(g.Brightness) >= edit.NeutralTolerance {
		parts = append(parts, "brightness="+fnum(g.Brightness))
	}
	if math.Abs(g.Contrast-1.0) >= edit.NeutralTolerance {
		parts = append(parts, "contrast="+fnum(g.Contrast))
	}
	if math.Abs(g.Saturation-1.0) >= edit.NeutralTolerance {
		parts = append(parts, "saturation="+fnum(g.Saturation))
	}
	if math.Abs(g.Shadows) >= edit.NeutralTolerance {
		gamma := clamp(1.0+g.Shadows*gammaPerShadow, 0.01, 10.0)
		parts = append(parts, "gamma="+fnum(gamma))
	}

	if len(parts) == 0 {
		return ""
	}
	return "eq=" + strings.Join(parts, ":")
}

// mixerFilter maps temperature and tint onto the 3x3 channel-mixing matrix.
// Warmth pushes the red diagonal up and the blue diagonal down symmetrically;
// tint adjusts the green diagonal and, toward magenta, nudges red and blue
// upward. Diagonals are clamped to [0, 2] before emission.
func mixerFilter(g edit.ColorGrade) string {
	if math.Abs(g.Temperature) < edit.NeutralTolerance && math.Abs(g.Tint) < edit.NeutralTolerance {
		return ""
	}

	warm := clamp(g.Temperature/100.0*mixerBand, -mixerBand, mixerBand)
	tint := clamp(g.Tint/100.0*mixerBand, -mixerBand, mixerBand)

	rr := 1.0 + warm
	gg := 1.0 - tint
	bb := 1.0 - warm
	if tint > 0 {
		rr += tint * tintSpill
		bb += tint * tintSpill
	}

	rr = clamp(rr, 0, 2)
	gg = clamp(gg, 0, 2)
	bb = clamp(bb, 0, 2)

	return "colorchannelmixer=rr=" + fnum(rr) + ":gg=" + fnum(gg) + ":bb=" + fnum(bb)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
