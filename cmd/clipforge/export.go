package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/batch"
	"github.com/clipforge/clipforge/internal/edit"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/project"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		mode   string
		method string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Batch export the enabled segments of a project",
		Long: `Export runs every enabled segment of a project file. In split mode each
segment becomes its own numbered file in the project's output directory;
in concat mode the segments are joined into a single output file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mode") {
				p.Mode = edit.ExportMode(mode)
			}
			if cmd.Flags().Changed("method") {
				p.Method = edit.ExportMethod(method)
			}
			return runExport(cmd.Context(), a, p, output)
		},
	}

	f := cmd.Flags()
	f.StringVar(&mode, "mode", "", "override export mode: split|concat")
	f.StringVar(&method, "method", "", "override export method: fast|accurate")
	f.StringVarP(&output, "output", "o", "", "concat output file (default <output_dir>/combined.mp4)")
	return cmd
}

func runExport(ctx context.Context, a *app, p *edit.Project, output string) error {
	var mi *probe.MediaInfo
	if info, err := probe.Probe(ctx, a.cfg.FFprobePath, p.Source); err != nil {
		a.logger.Warn("probe failed, continuing without source metadata", "error", err)
	} else {
		mi = info
	}

	o := batch.New(&a.cfg, a.logger)

	// First interrupt cancels cooperatively; in-flight jobs are stopped
	// through the context, queued segments are skipped.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ch)
	go func() {
		<-ch
		o.Cancel()
		cancel()
	}()

	switch p.Mode {
	case edit.ModeConcat:
		if output == "" {
			output = filepath.Join(p.OutputDir, "combined.mp4")
		}
		err := o.ExportConcat(ctx, p, mi, output, func(fraction float64, message string) {
			fmt.Printf("\r%5.1f%%  %-40s", fraction*100, message)
		})
		fmt.Println()
		if err != nil {
			return err
		}
		a.logger.Info("export complete", "output", output)
		return nil

	default:
		succeeded, total, err := o.ExportSplit(ctx, p, mi, func(completed, tot int, message string) {
			fmt.Printf("\r[%d/%d]  %-40s", completed, tot, message)
		})
		fmt.Println()
		if err != nil {
			return err
		}
		a.logger.Info("export complete", "succeeded", succeeded, "total", total,
			"output_dir", p.OutputDir)
		if succeeded < total {
			return fmt.Errorf("%d of %d segments failed", total-succeeded, total)
		}
		return nil
	}
}
