package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/edit"
	"github.com/clipforge/clipforge/internal/engine"
	"github.com/clipforge/clipforge/internal/filtergraph"
	"github.com/clipforge/clipforge/internal/probe"
)

// Fallback source dimensions when probing was unavailable and a reframe is
// requested anyway.
const (
	defaultWidth  = 1920
	defaultHeight = 1080
)

// SplitProgressFunc reports split-export progress after each finished
// segment job.
type SplitProgressFunc func(completed, total int, message string)

// Orchestrator drives the export of one project. Create one per export
// session; Cancel is safe to call from any goroutine.
type Orchestrator struct {
	cfg    *config.Config
	logger hclog.Logger
	runner Runner

	cancelled atomic.Bool
}

// New returns an orchestrator executing jobs through the real engine.
func New(cfg *config.Config, logger hclog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		logger: logger,
		runner: &engineRunner{logger: logger},
	}
}

// Cancel sets the batch-level cooperative flag: segments not yet submitted
// are skipped, submitted-but-unstarted jobs return without launching, and
// in-flight jobs run to their own completion.
func (o *Orchestrator) Cancel() {
	o.cancelled.Store(true)
}

// Cancelled reports whether batch cancellation was requested.
func (o *Orchestrator) Cancelled() bool {
	return o.cancelled.Load()
}

// ExportSplit exports every enabled segment to its own file in the
// project's output directory, running up to MaxWorkers jobs concurrently.
// It returns (succeeded, total) over the enabled segments; per-segment
// failures are isolated and only validation problems produce an error.
func (o *Orchestrator) ExportSplit(ctx context.Context, p *edit.Project, mi *probe.MediaInfo, onProgress SplitProgressFunc) (int, int, error) {
	if err := p.Validate(); err != nil {
		return 0, 0, err
	}
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("create output directory: %w", err)
	}

	segs := p.EnabledSegments()
	total := len(segs)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		succeeded int
		completed int
	)
	pool := make(chan struct{}, o.cfg.MaxWorkers)

	o.logger.Info("split export started",
		"segments", total, "method", string(p.Method), "workers", o.cfg.MaxWorkers)

	for i, seg := range segs {
		if o.cancelled.Load() || ctx.Err() != nil {
			o.logger.Warn("split export cancelled, skipping remaining segments",
				"remaining", total-i)
			break
		}

		output := filepath.Join(p.OutputDir, segmentFileName(i, &seg))
		args := o.segmentArgs(p, &seg, output, mi)

		wg.Add(1)
		go func(index int, args []string, output string) {
			defer wg.Done()

			pool <- struct{}{}
			defer func() { <-pool }()

			// Submitted but not yet started: honor a cancel that arrived
			// while waiting for a pool slot.
			if o.cancelled.Load() || ctx.Err() != nil {
				return
			}

			res := o.runner.Run(ctx, args, nil)

			mu.Lock()
			completed++
			done := completed
			if res.Status == engine.StatusCompleted {
				succeeded++
			}
			mu.Unlock()

			switch res.Status {
			case engine.StatusCompleted:
				o.logger.Info("segment exported", "index", index+1, "output", output)
			case engine.StatusCancelled:
				o.logger.Warn("segment cancelled", "index", index+1)
			default:
				o.logger.Error("segment failed", "index", index+1,
					"exit_code", res.ExitCode, "tail", res.Diagnostics)
			}

			if onProgress != nil {
				onProgress(done, total, fmt.Sprintf("segment %d/%d finished", index+1, total))
			}
		}(i, args, output)
	}

	wg.Wait()

	o.logger.Info("split export finished", "succeeded", succeeded, "total", total)
	return succeeded, total, nil
}

// segmentArgs compiles the command for one segment according to the
// project's export method: a keyframe-bounded stream copy for fast, a full
// filter-graph re-encode for accurate.
func (o *Orchestrator) segmentArgs(p *edit.Project, seg *edit.Segment, output string, mi *probe.MediaInfo) []string {
	if p.Method == edit.MethodFast {
		return filtergraph.StreamCopyArgs(o.cfg.FFmpegPath, p.Source, seg.Start, seg.Duration(), output)
	}
	return filtergraph.Command(o.cfg.FFmpegPath, o.specForSegment(p, seg, output, mi))
}

// specForSegment resolves a segment into a complete edit.Spec, filling in
// the profile values and source dimensions the compiler needs.
func (o *Orchestrator) specForSegment(p *edit.Project, seg *edit.Segment, output string, mi *probe.MediaInfo) *edit.Spec {
	width, height := defaultWidth, defaultHeight
	if mi != nil && mi.HasVideo() {
		width, height = mi.Width, mi.Height
	}

	speed := seg.Speed
	if speed == 0 {
		speed = 1.0
	}

	return &edit.Spec{
		Input:        p.Source,
		Output:       output,
		Start:        seg.Start,
		End:          seg.End,
		Speed:        speed,
		Aspect:       seg.Aspect,
		Grade:        seg.Grade,
		Profile:      o.cfg.ResolveProfile(seg.ProfileName),
		SourceWidth:  width,
		SourceHeight: height,
	}
}
