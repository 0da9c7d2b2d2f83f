package engine

// Status is the lifecycle state of a supervised job.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusStarting  Status = "starting"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is a final one.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Sentinel progress values delivered through the progress callback at job
// end, distinct from the elapsed-seconds values streamed mid-run.
const (
	ProgressComplete = 100.0
	ProgressError    = -1.0
)

// JobResult is the terminal record of one compiled command.
type JobResult struct {
	JobID       string
	Status      Status
	ExitCode    int
	LastElapsed float64  // seconds of output reached per the final progress event
	Diagnostics []string // bounded tail of error-looking engine lines
}

// tailBufferSize bounds the retained diagnostic lines per job.
const tailBufferSize = 20

// tailBuffer keeps the most recent lines up to a fixed capacity. Appending
// beyond capacity drops the oldest line; memory stays bounded no matter how
// chatty the engine is.
type tailBuffer struct {
	lines []string
	max   int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (b *tailBuffer) Add(line string) {
	if len(b.lines) == b.max {
		copy(b.lines, b.lines[1:])
		b.lines = b.lines[:b.max-1]
	}
	b.lines = append(b.lines, line)
}

// Lines returns the retained tail, oldest first. The returned slice is a
// copy; the buffer may keep appending.
func (b *tailBuffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
