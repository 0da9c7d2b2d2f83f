package batch

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/clipforge/internal/engine"
)

// Runner executes one compiled argument vector to completion. The
// orchestrator only ever sees terminal results through this boundary, which
// also keeps the worker pool testable without an engine binary.
type Runner interface {
	Run(ctx context.Context, args []string, onProgress engine.ProgressFunc) engine.JobResult
}

// engineRunner is the production Runner: a fresh Supervisor per job, so
// concurrently running jobs never share process state.
type engineRunner struct {
	logger hclog.Logger
}

func (r *engineRunner) Run(ctx context.Context, args []string, onProgress engine.ProgressFunc) engine.JobResult {
	sup := engine.New(args[0], r.logger)
	sup.SetProgressFunc(onProgress)

	if err := sup.StartArgs(args); err != nil {
		// Launch errors never reach Running; synthesize the terminal record.
		return engine.JobResult{
			Status:      engine.StatusFailed,
			ExitCode:    -1,
			Diagnostics: []string{err.Error()},
		}
	}

	done := make(chan engine.JobResult, 1)
	go func() { done <- sup.Wait() }()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		sup.Stop()
		return <-done
	}
}
