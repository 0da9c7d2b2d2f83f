package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Progress is one structured event extracted from an engine output line.
type Progress struct {
	Elapsed float64 // seconds of output produced so far
	Frame   int
	FPS     float64
	SizeKB  float64
}

// ProgressFunc receives (elapsedSeconds, humanSummary) for each progress
// line, plus one sentinel call at job end (ProgressComplete or
// ProgressError). Callbacks for a job arrive in output order.
type ProgressFunc func(elapsed float64, summary string)

// Engine progress lines look like:
//
//	frame=  123 fps= 25 q=28.0 size=    1024kB time=00:00:05.00 bitrate=1677.7kbits/s
//
// The time token is mandatory for a line to count as progress; the other
// tokens default to zero when absent.
var (
	reTime  = regexp.MustCompile(`time=(\d{2}):(\d{2}):(\d{2})\.(\d{2})`)
	reFrame = regexp.MustCompile(`frame=\s*(\d+)`)
	reFPS   = regexp.MustCompile(`fps=\s*([\d.]+)`)
	reSize  = regexp.MustCompile(`size=\s*(\d+)([kKmMgG]?)B`)
)

var sizeMultipliers = map[string]float64{
	"":  1,
	"K": 1024,
	"M": 1024 * 1024,
	"G": 1024 * 1024 * 1024,
}

// ParseProgress scans one output line for progress tokens. Lines without a
// timestamp token yield ok=false; that is normal engine chatter, not an
// error.
func ParseProgress(line string) (Progress, bool) {
	tm := reTime.FindStringSubmatch(line)
	if tm == nil {
		return Progress{}, false
	}

	hours, _ := strconv.Atoi(tm[1])
	minutes, _ := strconv.Atoi(tm[2])
	seconds, _ := strconv.Atoi(tm[3])
	centis, _ := strconv.Atoi(tm[4])

	p := Progress{
		Elapsed: float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(centis)/100,
	}

	if m := reFrame.FindStringSubmatch(line); m != nil {
		p.Frame, _ = strconv.Atoi(m[1])
	}
	if m := reFPS.FindStringSubmatch(line); m != nil {
		p.FPS, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := reSize.FindStringSubmatch(line); m != nil {
		val, _ := strconv.ParseFloat(m[1], 64)
		p.SizeKB = val * sizeMultipliers[strings.ToUpper(m[2])] / 1024
	}
	return p, true
}

// Summary renders the one-line human form delivered to progress callbacks.
func (p Progress) Summary() string {
	return fmt.Sprintf("time %.1fs | fps %.1f | size %.1f KB", p.Elapsed, p.FPS, p.SizeKB)
}

// PercentOf converts an absolute output-seconds value into a job-relative
// percentage for the [start, end) source range, clamped to [0, 100].
func PercentOf(elapsed, start, end float64) float64 {
	if end <= start {
		return 0
	}
	pct := (elapsed - start) / (end - start) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// reDiagnostic matches engine lines worth keeping for post-mortem reporting.
// Matching lines are retained, not treated as fatal; the engine emits
// transient warnings that use the same vocabulary.
var reDiagnostic = regexp.MustCompile(`(?i)error|failed|invalid`)

// IsDiagnostic reports whether a line belongs in the diagnostic tail.
func IsDiagnostic(line string) bool {
	return reDiagnostic.MatchString(line)
}
