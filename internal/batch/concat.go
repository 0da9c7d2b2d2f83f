package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clipforge/clipforge/internal/edit"
	"github.com/clipforge/clipforge/internal/engine"
	"github.com/clipforge/clipforge/internal/filtergraph"
	"github.com/clipforge/clipforge/internal/probe"
)

// ConcatProgressFunc reports concat-export progress as a fraction in [0, 1]
// plus a short phase message.
type ConcatProgressFunc func(fraction float64, message string)

// Concat progress weights: extraction occupies the first 70% of the bar,
// the demuxer join the rest.
const (
	concatExtractBase = 0.1
	concatExtractSpan = 0.6
	concatJoinMark    = 0.8
)

// ExportConcat extracts every enabled segment into a temp directory and
// joins them into outputFile with the concat demuxer. Unlike split export,
// any segment failure aborts the whole run: a partial concat is worthless.
func (o *Orchestrator) ExportConcat(ctx context.Context, p *edit.Project, mi *probe.MediaInfo, outputFile string, onProgress ConcatProgressFunc) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tempRoot := o.cfg.TempRoot
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	tempDir := filepath.Join(tempRoot, fmt.Sprintf("clipforge_concat_%d", time.Now().Unix()))
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	defer func() {
		// Cleanup is best effort; a leftover temp dir must not fail an
		// export that already produced its output.
		if err := os.RemoveAll(tempDir); err != nil {
			o.logger.Warn("temp directory not removed", "dir", tempDir, "error", err)
		}
	}()

	segs := p.EnabledSegments()
	total := len(segs)
	o.logger.Info("concat export started",
		"segments", total, "method", string(p.Method), "temp_dir", tempDir)

	report := func(fraction float64, message string) {
		if onProgress != nil {
			onProgress(fraction, message)
		}
	}

	parts := make([]string, 0, total)
	for i, seg := range segs {
		if o.cancelled.Load() || ctx.Err() != nil {
			return fmt.Errorf("concat export cancelled at segment %d/%d", i+1, total)
		}

		part := filepath.Join(tempDir, fmt.Sprintf("segment_%03d.mp4", i+1))
		args := o.segmentArgs(p, &seg, part, mi)

		res := o.runner.Run(ctx, args, nil)
		if res.Status != engine.StatusCompleted {
			return fmt.Errorf("segment %d/%d failed (exit %d)", i+1, total, res.ExitCode)
		}
		parts = append(parts, part)

		report(concatExtractBase+float64(i+1)/float64(total)*concatExtractSpan,
			fmt.Sprintf("extracted segment %d/%d", i+1, total))
	}

	manifest := filepath.Join(tempDir, "concat_list.txt")
	if err := writeManifest(manifest, parts); err != nil {
		return err
	}

	report(concatJoinMark, "joining segments")

	res := o.runner.Run(ctx, filtergraph.ConcatArgs(o.cfg.FFmpegPath, manifest, outputFile), nil)
	if res.Status != engine.StatusCompleted {
		return fmt.Errorf("concat failed (exit %d)", res.ExitCode)
	}

	report(1.0, "concat export complete")
	o.logger.Info("concat export finished", "output", outputFile, "segments", total)
	return nil
}

// writeManifest writes the concat demuxer file list, one quoted path per
// line.
func writeManifest(path string, parts []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create concat manifest: %w", err)
	}
	for _, p := range parts {
		if _, err := fmt.Fprintf(f, "file '%s'\n", p); err != nil {
			f.Close()
			return fmt.Errorf("write concat manifest: %w", err)
		}
	}
	return f.Close()
}
