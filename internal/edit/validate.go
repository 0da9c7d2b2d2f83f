package edit

import (
	"errors"
	"fmt"
	"os"
)

// Validation errors shared with callers that want to branch on the cause.
var (
	ErrNoSegments    = errors.New("project has no enabled segments")
	ErrMissingSource = errors.New("source file not found")
)

// Validate rejects a Spec before any subprocess is started: the source must
// exist, the range must be positive, speed must be positive, and an
// aspect-ratio reframe requires resolved source dimensions.
func (s *Spec) Validate() error {
	if s.Input == "" {
		return fmt.Errorf("%w: empty input path", ErrMissingSource)
	}
	if _, err := os.Stat(s.Input); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingSource, s.Input)
	}
	if s.Output == "" {
		return errors.New("empty output path")
	}
	if s.End <= s.Start {
		return fmt.Errorf("end %.3f must be greater than start %.3f", s.End, s.Start)
	}
	if s.Start < 0 {
		return fmt.Errorf("start %.3f must not be negative", s.Start)
	}
	if s.Speed <= 0 {
		return fmt.Errorf("speed %.3f must be positive", s.Speed)
	}
	if s.Aspect != AspectNone && (s.SourceWidth <= 0 || s.SourceHeight <= 0) {
		return fmt.Errorf("aspect ratio %q requires source dimensions", s.Aspect)
	}
	return nil
}

// Validate checks a Project prior to export. Overlapping segment ranges are
// deliberately accepted; each enabled segment is independently exportable.
func (p *Project) Validate() error {
	if p.Source == "" {
		return fmt.Errorf("%w: empty source path", ErrMissingSource)
	}
	if _, err := os.Stat(p.Source); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingSource, p.Source)
	}
	if p.OutputDir == "" {
		return errors.New("empty output directory")
	}
	switch p.Mode {
	case ModeSplit, ModeConcat:
		// valid
	default:
		return fmt.Errorf("invalid export mode %q", p.Mode)
	}
	switch p.Method {
	case MethodFast, MethodAccurate:
		// valid
	default:
		return fmt.Errorf("invalid export method %q", p.Method)
	}
	if len(p.EnabledSegments()) == 0 {
		return ErrNoSegments
	}
	for i, s := range p.Segments {
		if !s.Enabled {
			continue
		}
		if s.End <= s.Start {
			return fmt.Errorf("segment %d (%q): end %.3f must be greater than start %.3f",
				i+1, s.Name, s.End, s.Start)
		}
		if s.Start < 0 {
			return fmt.Errorf("segment %d (%q): start %.3f must not be negative", i+1, s.Name, s.Start)
		}
	}
	return nil
}
