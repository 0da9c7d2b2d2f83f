package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/clipforge/internal/edit"
	"github.com/clipforge/clipforge/internal/filtergraph"
)

// ErrJobActive is returned by Start while a prior job on the same supervisor
// is still running.
var ErrJobActive = errors.New("a job is already running on this supervisor")

// gracePeriod is how long Stop waits after a termination request before
// force-killing the subprocess.
const gracePeriod = 5 * time.Second

// CompleteFunc receives the terminal record of a job, exactly once.
type CompleteFunc func(JobResult)

// Supervisor owns one engine subprocess at a time. Zero value is not usable;
// call New.
type Supervisor struct {
	ffmpegPath string
	logger     hclog.Logger

	onProgress ProgressFunc
	onComplete CompleteFunc

	mu        sync.Mutex
	state     Status
	cmd       *exec.Cmd
	jobID     string
	cancelled bool
	done      chan struct{}
	result    JobResult
}

// New returns a supervisor that will invoke ffmpegPath for each job.
func New(ffmpegPath string, logger hclog.Logger) *Supervisor {
	return &Supervisor{
		ffmpegPath: ffmpegPath,
		logger:     logger,
		state:      StatusIdle,
	}
}

// SetProgressFunc installs the progress callback. Call before Start.
func (s *Supervisor) SetProgressFunc(f ProgressFunc) { s.onProgress = f }

// SetCompleteFunc installs the terminal callback. Call before Start.
func (s *Supervisor) SetCompleteFunc(f CompleteFunc) { s.onComplete = f }

// State returns the current lifecycle state.
func (s *Supervisor) State() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start validates and compiles spec, then launches the engine. It returns
// as soon as the subprocess is running; completion is reported through the
// callbacks. Validation and launch errors are returned synchronously and
// leave the supervisor idle.
func (s *Supervisor) Start(spec *edit.Spec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("spec rejected: %w", err)
	}
	return s.StartArgs(filtergraph.Command(s.ffmpegPath, spec))
}

// StartArgs launches a pre-built argument vector under supervision. Used
// directly for the stream-copy and concat passes, which bypass compilation.
func (s *Supervisor) StartArgs(args []string) error {
	s.mu.Lock()
	if s.state == StatusStarting || s.state == StatusRunning {
		s.mu.Unlock()
		return ErrJobActive
	}
	s.state = StatusStarting
	s.mu.Unlock()

	cmd := exec.Command(args[0], args[1:]...)

	// Merge stderr into stdout so one reader sees the full stream in order.
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		s.setIdle()
		return fmt.Errorf("engine pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		s.setIdle()
		return fmt.Errorf("launch engine: %w", err)
	}

	jobID := uuid.New().String()

	s.mu.Lock()
	s.state = StatusRunning
	s.cmd = cmd
	s.jobID = jobID
	s.cancelled = false
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("engine started", "job_id", jobID, "pid", cmd.Process.Pid, "args", len(args))

	go s.readOutput(cmd, pipe)
	return nil
}

func (s *Supervisor) setIdle() {
	s.mu.Lock()
	s.state = StatusIdle
	s.mu.Unlock()
}

// readOutput consumes the merged output stream line by line, emitting
// progress events in output order and retaining diagnostic lines, then
// settles the job's terminal state.
func (s *Supervisor) readOutput(cmd *exec.Cmd, pipe io.Reader) {
	tail := newTailBuffer(tailBufferSize)
	lastElapsed := 0.0

	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if p, ok := ParseProgress(line); ok {
			lastElapsed = p.Elapsed
			if s.onProgress != nil {
				s.onProgress(p.Elapsed, p.Summary())
			}
		}
		if IsDiagnostic(line) {
			tail.Add(line)
		}
	}

	err := cmd.Wait()
	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	s.mu.Lock()
	result := JobResult{
		JobID:       s.jobID,
		ExitCode:    exitCode,
		LastElapsed: lastElapsed,
		Diagnostics: tail.Lines(),
	}
	switch {
	case s.cancelled:
		result.Status = StatusCancelled
	case err == nil && exitCode == 0:
		result.Status = StatusCompleted
	default:
		result.Status = StatusFailed
	}
	s.state = result.Status
	s.result = result
	s.cmd = nil
	done := s.done
	s.mu.Unlock()

	switch result.Status {
	case StatusCompleted:
		s.logger.Info("engine completed", "job_id", result.JobID)
		if s.onProgress != nil {
			s.onProgress(ProgressComplete, "done")
		}
	case StatusCancelled:
		s.logger.Warn("engine cancelled", "job_id", result.JobID, "exit_code", exitCode)
	default:
		s.logger.Error("engine failed", "job_id", result.JobID,
			"exit_code", exitCode, "tail", result.Diagnostics)
		if s.onProgress != nil {
			s.onProgress(ProgressError, fmt.Sprintf("engine exit code %d", exitCode))
		}
	}

	if s.onComplete != nil {
		s.onComplete(result)
	}
	close(done)
}

// Wait blocks until the current job reaches a terminal state and returns its
// result. Calling Wait with no job started returns the zero result.
func (s *Supervisor) Wait() JobResult {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Stop requests graceful termination, waits up to the grace period, and
// force-kills if the engine is still alive. The running flag is cleared by
// the reader goroutine on either path; Stop returns once the job settled.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.state != StatusRunning || s.cmd == nil {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	proc := s.cmd.Process
	done := s.done
	jobID := s.jobID
	s.mu.Unlock()

	s.logger.Info("stopping engine", "job_id", jobID)
	_ = proc.Signal(syscall.SIGTERM)

	select {
	case <-done:
	case <-time.After(gracePeriod):
		s.logger.Warn("grace period expired, killing engine", "job_id", jobID)
		_ = proc.Kill()
		<-done
	}
}
