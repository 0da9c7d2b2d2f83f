package filtergraph

import (
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/edit"
)

// Graph is the compiled form of one edit.Spec: ordered filter chains plus
// the trailing engine arguments (codec, audio, container compatibility).
type Graph struct {
	VideoFilters []string
	AudioFilters []string
	Args         []string
}

// seekMargin is added to the input duration cap when a speed remap follows.
// The upstream -ss seek is keyframe-approximate, so the filter-level trim
// needs a little extra decoded material to cut frame-accurately at zero.
const seekMargin = 0.5

// Compile translates a fully resolved spec into filter chains and trailing
// arguments. The spec is read, never mutated.
func Compile(spec *edit.Spec) *Graph {
	g := &Graph{}

	// --- Speed remap (skipped entirely at speed ~1.0) ---
	if spec.HasSpeedChange() {
		d := fnum(spec.Duration())
		g.VideoFilters = append(g.VideoFilters,
			"trim=start=0:end="+d,
			"setpts=PTS-STARTPTS",
			"setpts=PTS/"+fnum(spec.Speed),
		)
		g.AudioFilters = append(g.AudioFilters,
			"atrim=start=0:end="+d,
			"asetpts=PTS-STARTPTS",
		)
		for _, stage := range TempoStages(spec.Speed) {
			g.AudioFilters = append(g.AudioFilters, "atempo="+fnum(stage))
		}
	}

	// --- Color grade, after remap so grading cost scales with output frames ---
	g.VideoFilters = append(g.VideoFilters, colorFilters(spec.Grade)...)

	// --- Aspect-ratio reframe, last among generated video filters ---
	if crop := cropFilter(spec); crop != "" {
		g.VideoFilters = append(g.VideoFilters, crop)
	}

	// --- Caller-supplied filters ---
	g.VideoFilters = append(g.VideoFilters, spec.ExtraFilters...)

	// --- Encoding profile and output compatibility flags ---
	g.Args = profileArgs(spec)

	return g
}

// Command assembles the complete argument vector for one re-encode job.
func Command(ffmpegPath string, spec *edit.Spec) []string {
	g := Compile(spec)

	args := make([]string, 0, 32)
	args = append(args, ffmpegPath, "-y")

	// Seek before the input so decode starts at the cut, then cap how much
	// is read. The margin applies only when the trim-at-zero filter will
	// re-cut the boundary exactly.
	args = append(args, "-ss", fnum(spec.Start))
	args = append(args, "-i", spec.Input)

	dur := spec.Duration()
	if spec.HasSpeedChange() {
		dur += seekMargin
	}
	args = append(args, "-t", fnum(dur))

	if len(g.VideoFilters) > 0 {
		args = append(args, "-vf", strings.Join(g.VideoFilters, ","))
	}
	if len(g.AudioFilters) > 0 {
		args = append(args, "-af", strings.Join(g.AudioFilters, ","))
	}

	args = append(args, g.Args...)
	args = append(args, spec.Output)
	return args
}

// profileArgs emits the encoding profile and the fixed output-compatibility
// flags. These are always trailing arguments, never filters.
func profileArgs(spec *edit.Spec) []string {
	p := spec.Profile
	args := make([]string, 0, 14)

	if p.Codec != "" {
		args = append(args, "-c:v", p.Codec)
	}
	if p.Preset != "" {
		args = append(args, "-preset", p.Preset)
	}
	if p.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(p.CRF))
	}
	if p.AudioCodec != "" {
		args = append(args, "-c:a", p.AudioCodec)
	}
	if p.AudioBitrate != "" {
		args = append(args, "-b:a", p.AudioBitrate)
	}

	// Pixel-format normalization and streaming-friendly layout.
	args = append(args, "-pix_fmt", "yuv420p", "-movflags", "+faststart")
	return args
}

// fnum formats a float for a filter expression or argument: fixed precision,
// trailing zeros stripped, so 2.0 -> "2" and 0.105 -> "0.105".
func fnum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
