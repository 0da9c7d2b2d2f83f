package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/logging"
)

// version and commit are injected at build time via -ldflags. Plain
// "go build" keeps the defaults.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

// app carries the state every subcommand needs: resolved configuration and
// the root logger. Populated in the persistent pre-run, torn down in the
// persistent post-run.
type app struct {
	cfg    config.Config
	logger hclog.Logger

	logCloser io.Closer

	// Flag storage; merged over cfg after the optional config file.
	configFile string
	ffmpegPath string
	ffprobe    string
	workers    int
	logLevel   string
	logFile    string
	noColor    bool
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:          "clipforge",
		Short:        "Cut, retime, grade, and reframe video with ffmpeg",
		Version:      fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file overlaying the defaults")
	pf.StringVar(&a.ffmpegPath, "ffmpeg", "", "ffmpeg executable (default from config)")
	pf.StringVar(&a.ffprobe, "ffprobe", "", "ffprobe executable (default from config)")
	pf.IntVar(&a.workers, "workers", 0, "concurrent export jobs (default from config)")
	pf.StringVar(&a.logLevel, "log-level", "", "trace|debug|info|warn|error")
	pf.StringVar(&a.logFile, "log-file", "", "additional log sink")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored log output")

	root.AddCommand(
		newCutCmd(a),
		newExportCmd(a),
		newProbeCmd(a),
		newProfilesCmd(a),
	)
	return root, a
}

// setup resolves the effective configuration in override order: defaults,
// then the config file, then explicit flags. Only changed flags override.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.DefaultConfig()
	if a.configFile != "" {
		if err := config.LoadFile(&a.cfg, a.configFile); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("ffmpeg") {
		a.cfg.FFmpegPath = a.ffmpegPath
	}
	if cmd.Flags().Changed("ffprobe") {
		a.cfg.FFprobePath = a.ffprobe
	}
	if cmd.Flags().Changed("workers") {
		a.cfg.MaxWorkers = a.workers
	}
	if cmd.Flags().Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		a.cfg.LogFile = a.logFile
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New("clipforge", logging.Options{
		Level:   a.cfg.LogLevel,
		LogFile: a.cfg.LogFile,
		NoColor: a.noColor,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	a.logCloser = closer
	return nil
}

func (a *app) teardown() {
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// Execute runs the CLI. Errors are printed by cobra; the caller only maps
// failure to the exit code.
func Execute() error {
	root, _ := newRootCmd()
	root.SetOut(os.Stdout)
	return root.Execute()
}
