package filtergraph

import (
	"math"
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/edit"
)

// --- Helper builders ---

func balancedProfile() config.Profile {
	return config.Profile{
		Codec:        "libx264",
		Preset:       "medium",
		CRF:          20,
		AudioCodec:   "aac",
		AudioBitrate: "192k",
	}
}

func plainSpec() *edit.Spec {
	return &edit.Spec{
		Input:        "in.mp4",
		Output:       "out.mp4",
		Start:        10.0,
		End:          20.0,
		Speed:        1.0,
		Aspect:       edit.AspectNone,
		Grade:        edit.NeutralGrade(),
		Profile:      balancedProfile(),
		SourceWidth:  1920,
		SourceHeight: 1080,
	}
}

func hasArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func argValue(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}

// --- Tempo decomposition properties ---

func TestTempoStagesProductAndBand(t *testing.T) {
	for _, speed := range []float64{0.5, 1.0, 1.0001, 2.0, 3.0, 0.3, 5.0, 0.25, 4.0} {
		stages := TempoStages(speed)

		product := 1.0
		for _, s := range stages {
			if s < tempoMin-1e-12 || s > tempoMax+1e-12 {
				t.Errorf("speed %v: stage %v outside [0.5, 2.0]", speed, s)
			}
			product *= s
		}
		if math.Abs(product-speed) > 1e-6 {
			t.Errorf("speed %v: stage product %v drifted", speed, product)
		}
		if len(stages) > 6 {
			t.Errorf("speed %v: %d stages, want <= 6", speed, len(stages))
		}
	}
}

func TestTempoStagesCounts(t *testing.T) {
	cases := []struct {
		speed float64
		want  int
	}{
		{1.0, 0},
		{2.0, 1},
		{0.5, 1},
		{3.0, 2},
		{5.0, 3},
		{0.3, 2},
		{-1.0, 0},
		{0.0, 0},
	}
	for _, c := range cases {
		if got := len(TempoStages(c.speed)); got != c.want {
			t.Errorf("TempoStages(%v): %d stages, want %d", c.speed, got, c.want)
		}
	}
}

// --- Scenario A: plain cut, everything neutral ---

func TestCommandPlainCut(t *testing.T) {
	spec := plainSpec()
	args := Command("ffmpeg", spec)

	if hasArg(args, "-vf") || hasArg(args, "-af") {
		t.Fatalf("neutral spec must compile without filter flags: %v", args)
	}
	if got := argValue(t, args, "-ss"); got != "10" {
		t.Errorf("-ss = %q, want 10", got)
	}
	if got := argValue(t, args, "-t"); got != "10" {
		t.Errorf("-t = %q, want 10 (no safety margin at speed 1.0)", got)
	}
	if got := argValue(t, args, "-c:v"); got != "libx264" {
		t.Errorf("-c:v = %q, want libx264", got)
	}
	if got := argValue(t, args, "-crf"); got != "20" {
		t.Errorf("-crf = %q", got)
	}
	if got := argValue(t, args, "-movflags"); got != "+faststart" {
		t.Errorf("-movflags = %q", got)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output must be the final argument, got %q", args[len(args)-1])
	}
}

// --- Scenario B: 2x speed ---

func TestCompileSpeedRemap(t *testing.T) {
	spec := plainSpec()
	spec.Start = 0
	spec.End = 5
	spec.Speed = 2.0

	g := Compile(spec)

	if len(g.VideoFilters) < 3 {
		t.Fatalf("video filters = %v, want trim/reset/scale", g.VideoFilters)
	}
	if g.VideoFilters[0] != "trim=start=0:end=5" {
		t.Errorf("first video filter = %q, want trim at zero clipping to 5s", g.VideoFilters[0])
	}
	if g.VideoFilters[1] != "setpts=PTS-STARTPTS" {
		t.Errorf("second video filter = %q, want timestamp reset", g.VideoFilters[1])
	}
	if g.VideoFilters[2] != "setpts=PTS/2" {
		t.Errorf("third video filter = %q, want timestamp scale by 2", g.VideoFilters[2])
	}

	var tempos []string
	for _, f := range g.AudioFilters {
		if strings.HasPrefix(f, "atempo=") {
			tempos = append(tempos, f)
		}
	}
	if len(tempos) != 1 || tempos[0] != "atempo=2" {
		t.Errorf("audio tempo stages = %v, want exactly one stage of 2.0", tempos)
	}
	if g.AudioFilters[0] != "atrim=start=0:end=5" || g.AudioFilters[1] != "asetpts=PTS-STARTPTS" {
		t.Errorf("audio chain must trim and reset before tempo: %v", g.AudioFilters)
	}
}

func TestCommandSpeedMargin(t *testing.T) {
	spec := plainSpec()
	spec.Speed = 2.0
	args := Command("ffmpeg", spec)

	if got := argValue(t, args, "-t"); got != "10.5" {
		t.Errorf("-t = %q, want 10.5 (0.5s margin for the filter trim)", got)
	}
}

func TestCompileNearUnitySpeedSkipsRemap(t *testing.T) {
	spec := plainSpec()
	spec.Speed = 1.0001

	g := Compile(spec)
	if len(g.VideoFilters) != 0 || len(g.AudioFilters) != 0 {
		t.Errorf("speed within tolerance must skip the remap: vf=%v af=%v",
			g.VideoFilters, g.AudioFilters)
	}
}

// --- Color grade minimality and mapping ---

func TestCompileNeutralGradeEmitsNothing(t *testing.T) {
	g := Compile(plainSpec())
	for _, f := range g.VideoFilters {
		for _, banned := range []string{"eq=", "unsharp", "gblur", "colorchannelmixer"} {
			if strings.Contains(f, banned) {
				t.Errorf("neutral grade leaked filter %q", f)
			}
		}
	}
}

func TestEqFilterPartial(t *testing.T) {
	g := edit.NeutralGrade()
	g.Brightness = 0.1
	g.Shadows = 0.5

	f := eqFilter(g)
	if f != "eq=brightness=0.1:gamma=1.25" {
		t.Errorf("eqFilter = %q", f)
	}

	// Neutral parts stay out even when others are present.
	if strings.Contains(f, "contrast") || strings.Contains(f, "saturation") {
		t.Errorf("neutral sub-parameters leaked into %q", f)
	}
}

func TestEqFilterGammaClamped(t *testing.T) {
	g := edit.NeutralGrade()
	g.Shadows = -1.0 // 1 + (-1 * 0.5) = 0.5, well inside the clamp

	if f := eqFilter(g); f != "eq=gamma=0.5" {
		t.Errorf("eqFilter = %q", f)
	}
}

func TestSharpnessPathsExclusive(t *testing.T) {
	g := edit.NeutralGrade()
	g.Sharpness = 0.5
	fs := colorFilters(g)
	if len(fs) != 1 || fs[0] != "unsharp=5:5:0.75" {
		t.Errorf("positive sharpness: %v", fs)
	}

	g.Sharpness = -0.5
	fs = colorFilters(g)
	if len(fs) != 1 || fs[0] != "gblur=sigma=1" {
		t.Errorf("negative sharpness: %v", fs)
	}

	g.Sharpness = 0.004 // inside tolerance
	if fs = colorFilters(g); len(fs) != 0 {
		t.Errorf("sub-tolerance sharpness must emit nothing: %v", fs)
	}
}

func TestMixerWarm(t *testing.T) {
	g := edit.NeutralGrade()
	g.Temperature = 100 // full warm: rr up, bb down by the band limit

	f := mixerFilter(g)
	if f != "colorchannelmixer=rr=1.3:gg=1:bb=0.7" {
		t.Errorf("mixerFilter = %q", f)
	}
}

func TestMixerMagentaTint(t *testing.T) {
	g := edit.NeutralGrade()
	g.Tint = 100 // full magenta: green down, red/blue nudged up

	f := mixerFilter(g)
	if f != "colorchannelmixer=rr=1.15:gg=0.7:bb=1.15" {
		t.Errorf("mixerFilter = %q", f)
	}
}

func TestMixerGreenTintLeavesRedBlue(t *testing.T) {
	g := edit.NeutralGrade()
	g.Tint = -50

	f := mixerFilter(g)
	if f != "colorchannelmixer=rr=1:gg=1.15:bb=1" {
		t.Errorf("mixerFilter = %q", f)
	}
}

func TestMixerDiagonalsClamped(t *testing.T) {
	// Warm and magenta together would push rr past the band sum; terms must
	// stay inside [0, 2] regardless.
	g := edit.NeutralGrade()
	g.Temperature = 100
	g.Tint = 100

	f := mixerFilter(g)
	if f != "colorchannelmixer=rr=1.45:gg=0.7:bb=0.85" {
		t.Errorf("mixerFilter = %q", f)
	}
}

// --- Aspect-ratio reframe ---

func TestCropPortraitFromLandscape(t *testing.T) {
	spec := plainSpec()
	spec.Aspect = edit.AspectPortrait

	f := cropFilter(spec)
	if f != "crop=608:1080:656:0" {
		t.Fatalf("cropFilter = %q", f)
	}

	// 608 = 1080 * 9/16 rounded to even; offset centered and integer.
	if 608 > 1920 {
		t.Fatal("crop width exceeds source")
	}
	if (1920-608)/2 != 656 {
		t.Fatal("offset not centered")
	}
}

func TestCropLandscapeFromTall(t *testing.T) {
	spec := plainSpec()
	spec.SourceWidth = 1080
	spec.SourceHeight = 1920
	spec.Aspect = edit.AspectLandscape

	// 1080 / (16/9) = 607.5 -> 608 high, y centered.
	if f := cropFilter(spec); f != "crop=1080:608:0:656" {
		t.Errorf("cropFilter = %q", f)
	}
}

func TestCropWithinToleranceOmitted(t *testing.T) {
	spec := plainSpec() // 1920x1080 is exactly 16:9
	spec.Aspect = edit.AspectLandscape
	if f := cropFilter(spec); f != "" {
		t.Errorf("matching aspect must emit no crop, got %q", f)
	}

	// 1922x1080 deviates by ~0.0019, inside the 0.01 tolerance.
	spec.SourceWidth = 1922
	if f := cropFilter(spec); f != "" {
		t.Errorf("near-matching aspect must emit no crop, got %q", f)
	}
}

// --- Ordering and custom filters ---

func TestFilterOrdering(t *testing.T) {
	spec := plainSpec()
	spec.Speed = 2.0
	spec.Aspect = edit.AspectPortrait
	spec.Grade.Brightness = 0.2
	spec.ExtraFilters = []string{"hflip"}

	g := Compile(spec)
	joined := strings.Join(g.VideoFilters, ",")

	order := []string{"trim=", "setpts=PTS-STARTPTS", "setpts=PTS/", "eq=", "crop=", "hflip"}
	last := -1
	for _, token := range order {
		idx := strings.Index(joined, token)
		if idx < 0 {
			t.Fatalf("missing %q in chain %q", token, joined)
		}
		if idx < last {
			t.Fatalf("%q appears out of order in %q", token, joined)
		}
		last = idx
	}

	if g.VideoFilters[len(g.VideoFilters)-1] != "hflip" {
		t.Errorf("custom filters must come last: %v", g.VideoFilters)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	spec := plainSpec()
	spec.Speed = 3.0
	spec.Grade.Temperature = 40
	spec.Aspect = edit.AspectPortrait

	a := Command("ffmpeg", spec)
	b := Command("ffmpeg", spec)
	if strings.Join(a, " ") != strings.Join(b, " ") {
		t.Errorf("compilation must be deterministic:\n%v\n%v", a, b)
	}
}

// --- Stream-copy and concat argument vectors ---

func TestStreamCopyArgs(t *testing.T) {
	args := StreamCopyArgs("ffmpeg", "in.mp4", 12.25, 7.5, "seg.mp4")
	want := "ffmpeg -y -ss 12.25 -i in.mp4 -t 7.5 -c copy -movflags +faststart seg.mp4"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("StreamCopyArgs:\n got %q\nwant %q", got, want)
	}
}

func TestConcatArgs(t *testing.T) {
	args := ConcatArgs("ffmpeg", "list.txt", "final.mp4")
	want := "ffmpeg -y -f concat -safe 0 -i list.txt -c copy -movflags +faststart final.mp4"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("ConcatArgs:\n got %q\nwant %q", got, want)
	}
}
