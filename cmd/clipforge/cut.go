package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/edit"
	"github.com/clipforge/clipforge/internal/engine"
	"github.com/clipforge/clipforge/internal/filtergraph"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/timecode"
)

// cutOptions holds the flag values for one single-segment cut.
type cutOptions struct {
	input   string
	output  string
	start   string
	end     string
	speed   float64
	aspect  string
	profile string
	filters []string
	fast    bool

	brightness  float64
	contrast    float64
	saturation  float64
	sharpness   float64
	shadows     float64
	temperature float64
	tint        float64
}

func newCutCmd(a *app) *cobra.Command {
	opts := &cutOptions{}

	cmd := &cobra.Command{
		Use:   "cut",
		Short: "Cut one segment from a source file",
		Long: `Cut extracts a single time range from the source, optionally retimed,
color graded, and reframed, and re-encodes it with the selected profile.
With --fast the range is stream copied instead; cut points then land on
keyframes and all edit parameters other than the range are ignored.

Start and end accept plain seconds or timecodes (HH:MM:SS.mmm, MM:SS.mmm).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCut(cmd.Context(), a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "source file (required)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (required)")
	f.StringVar(&opts.start, "start", "0", "range start")
	f.StringVar(&opts.end, "end", "", "range end (required)")
	f.Float64Var(&opts.speed, "speed", 1.0, "playback speed ratio")
	f.StringVar(&opts.aspect, "aspect", "none", "output aspect: none|16:9|9:16")
	f.StringVar(&opts.profile, "profile", "", "encoding profile name")
	f.StringArrayVar(&opts.filters, "filter", nil, "extra video filter, appended verbatim (repeatable)")
	f.BoolVar(&opts.fast, "fast", false, "stream copy instead of re-encoding")

	f.Float64Var(&opts.brightness, "brightness", 0, "brightness [-1, 1]")
	f.Float64Var(&opts.contrast, "contrast", 1, "contrast [0, 2]")
	f.Float64Var(&opts.saturation, "saturation", 1, "saturation [0, 2]")
	f.Float64Var(&opts.sharpness, "sharpness", 0, "sharpness [-1, 1], negative blurs")
	f.Float64Var(&opts.shadows, "shadows", 0, "shadow lift [-1, 1]")
	f.Float64Var(&opts.temperature, "temperature", 0, "color temperature [-100, 100]")
	f.Float64Var(&opts.tint, "tint", 0, "green-magenta tint [-100, 100]")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("end")
	return cmd
}

func runCut(ctx context.Context, a *app, opts *cutOptions) error {
	start, err := timecode.ToSeconds(opts.start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	end, err := timecode.ToSeconds(opts.end)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	sup := engine.New(a.cfg.FFmpegPath, a.logger)
	sup.SetProgressFunc(func(elapsed float64, summary string) {
		fmt.Printf("\r%5.1f%%  %s", engine.PercentOf(elapsed, 0, end-start), summary)
	})

	if opts.fast {
		args := filtergraph.StreamCopyArgs(a.cfg.FFmpegPath, opts.input, start, end-start, opts.output)
		if err := sup.StartArgs(args); err != nil {
			return err
		}
	} else {
		spec, err := a.cutSpec(ctx, opts, start, end)
		if err != nil {
			return err
		}
		if err := sup.Start(spec); err != nil {
			return err
		}
	}

	stopOnSignal(sup)

	res := sup.Wait()
	fmt.Println()
	switch res.Status {
	case engine.StatusCompleted:
		a.logger.Info("cut complete", "output", opts.output, "job_id", res.JobID)
		return nil
	case engine.StatusCancelled:
		return fmt.Errorf("cut cancelled")
	default:
		for _, line := range res.Diagnostics {
			a.logger.Error(line)
		}
		return fmt.Errorf("cut failed (exit %d)", res.ExitCode)
	}
}

// cutSpec assembles the full edit description for a re-encoding cut,
// probing the source for the dimensions a reframe needs.
func (a *app) cutSpec(ctx context.Context, opts *cutOptions, start, end float64) (*edit.Spec, error) {
	aspect := edit.Aspect(opts.aspect)
	switch aspect {
	case edit.AspectNone, edit.AspectLandscape, edit.AspectPortrait:
	default:
		return nil, fmt.Errorf("invalid aspect %q", opts.aspect)
	}

	var width, height int
	mi, err := probe.Probe(ctx, a.cfg.FFprobePath, opts.input)
	switch {
	case err == nil && mi.HasVideo():
		width, height = mi.Width, mi.Height
	case err == nil:
		if aspect != edit.AspectNone {
			return nil, fmt.Errorf("%s has no video stream to reframe", opts.input)
		}
	case aspect != edit.AspectNone:
		return nil, fmt.Errorf("probe %s: %w", opts.input, err)
	default:
		a.logger.Warn("probe failed, continuing without source metadata", "error", err)
	}

	return &edit.Spec{
		Input:  opts.input,
		Output: opts.output,
		Start:  start,
		End:    end,
		Speed:  opts.speed,
		Aspect: aspect,
		Grade: edit.ColorGrade{
			Brightness:  opts.brightness,
			Contrast:    opts.contrast,
			Saturation:  opts.saturation,
			Sharpness:   opts.sharpness,
			Shadows:     opts.shadows,
			Temperature: opts.temperature,
			Tint:        opts.tint,
		},
		Profile:      a.cfg.ResolveProfile(opts.profile),
		ExtraFilters: opts.filters,
		SourceWidth:  width,
		SourceHeight: height,
	}, nil
}

// stopOnSignal terminates the running job on the first interrupt and lets
// the supervisor's grace handling finish the shutdown.
func stopOnSignal(sup *engine.Supervisor) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		signal.Stop(ch)
		sup.Stop()
	}()
}
