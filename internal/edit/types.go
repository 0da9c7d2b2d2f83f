package edit

import (
	"math"

	"github.com/clipforge/clipforge/internal/config"
)

// --- Enum types for validated string fields ---

// Aspect selects an output aspect-ratio reframe.
type Aspect string

const (
	AspectNone      Aspect = "none"  // Keep source geometry (default).
	AspectLandscape Aspect = "16:9"  // Center-crop to 16:9.
	AspectPortrait  Aspect = "9:16"  // Center-crop to 9:16.
)

// Ratio returns the numeric width/height ratio, or 0 for AspectNone.
func (a Aspect) Ratio() float64 {
	switch a {
	case AspectLandscape:
		return 16.0 / 9.0
	case AspectPortrait:
		return 9.0 / 16.0
	}
	return 0
}

// ExportMode selects the batch export shape.
type ExportMode string

const (
	ModeSplit  ExportMode = "split"  // One output file per enabled segment.
	ModeConcat ExportMode = "concat" // All enabled segments into one file.
)

// ExportMethod selects the per-segment extraction strategy.
type ExportMethod string

const (
	MethodFast     ExportMethod = "fast"     // Stream copy, keyframe-limited cuts.
	MethodAccurate ExportMethod = "accurate" // Full re-encode, frame accurate.
)

// NeutralTolerance is the deviation below which a color sub-parameter is
// treated as neutral and omitted from the compiled filter chain. The same
// tolerance gates the speed remap stage and the aspect reframe.
const NeutralTolerance = 0.01

// ColorGrade is the seven-parameter color correction applied per segment.
// Zero deviation from the neutral values compiles to no filter at all.
type ColorGrade struct {
	Brightness  float64 `json:"brightness"`  // [-1, 1], neutral 0.
	Contrast    float64 `json:"contrast"`    // [0, 2], neutral 1.
	Saturation  float64 `json:"saturation"`  // [0, 2], neutral 1.
	Sharpness   float64 `json:"sharpness"`   // [-1, 1], neutral 0. Negative blurs.
	Shadows     float64 `json:"shadows"`     // [-1, 1], neutral 0. Applied as gamma.
	Temperature float64 `json:"temperature"` // [-100, 100], neutral 0. Positive warms.
	Tint        float64 `json:"tint"`        // [-100, 100], neutral 0. Positive toward magenta.
}

// NeutralGrade returns the identity color grade.
func NeutralGrade() ColorGrade {
	return ColorGrade{Contrast: 1.0, Saturation: 1.0}
}

// IsNeutral reports whether every sub-parameter is within NeutralTolerance
// of its neutral value.
func (g ColorGrade) IsNeutral() bool {
	return math.Abs(g.Brightness) < NeutralTolerance &&
		math.Abs(g.Contrast-1.0) < NeutralTolerance &&
		math.Abs(g.Saturation-1.0) < NeutralTolerance &&
		math.Abs(g.Sharpness) < NeutralTolerance &&
		math.Abs(g.Shadows) < NeutralTolerance &&
		math.Abs(g.Temperature) < NeutralTolerance &&
		math.Abs(g.Tint) < NeutralTolerance
}

// Spec is one fully resolved cut operation: a source range, retiming,
// reframe, grade, and encoding parameters for a single output file.
// It must be complete before compilation; in particular SourceWidth and
// SourceHeight are required whenever Aspect != AspectNone.
type Spec struct {
	Input  string
	Output string

	Start float64 // seconds
	End   float64 // seconds, > Start
	Speed float64 // playback ratio, 1.0 = unchanged; practical range 0.25-4.0

	Aspect Aspect
	Grade  ColorGrade

	Profile config.Profile

	// Caller-supplied filter expressions, appended verbatim after the
	// generated video chain.
	ExtraFilters []string

	SourceWidth  int
	SourceHeight int
}

// Duration returns the requested source duration in seconds.
func (s *Spec) Duration() float64 {
	return s.End - s.Start
}

// HasSpeedChange reports whether the speed remap stage is needed.
func (s *Spec) HasSpeedChange() bool {
	return s.Speed > 0 && math.Abs(s.Speed-1.0) >= NeutralTolerance
}

// Segment is one named, independently configurable sub-range of a project's
// source. Disabled segments are skipped during export, not deleted.
type Segment struct {
	Name    string `json:"name"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Enabled bool   `json:"enabled"`

	ProfileName string     `json:"profile"`
	Speed       float64    `json:"speed"`
	Aspect      Aspect     `json:"aspect_ratio"`
	Grade       ColorGrade `json:"color"`
}

// Duration returns the segment length in seconds, never negative.
func (s *Segment) Duration() float64 {
	return math.Max(0, s.End-s.Start)
}

// Project is one source file plus an ordered segment list and the chosen
// export strategy.
type Project struct {
	Source    string       `json:"source"`
	OutputDir string       `json:"output_dir"`
	Mode      ExportMode   `json:"export_mode"`
	Method    ExportMethod `json:"export_method"`
	Segments  []Segment    `json:"segments"`
}

// EnabledSegments returns the segments participating in export, in order.
func (p *Project) EnabledSegments() []Segment {
	out := make([]Segment, 0, len(p.Segments))
	for _, s := range p.Segments {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
