package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/edit"
	"github.com/clipforge/clipforge/internal/engine"
)

// fakeRunner stands in for the engine: it records every argument vector,
// creates the output file the way a real encode would, and fails or reacts
// on configured call indices.
type fakeRunner struct {
	mu       sync.Mutex
	calls    [][]string
	failAt   map[int]bool   // 1-based call index to fail
	onRun    func(call int) // invoked with 1-based call index, before result
	manifest string         // concat list content captured before cleanup
}

func (r *fakeRunner) Run(_ context.Context, args []string, _ engine.ProgressFunc) engine.JobResult {
	r.mu.Lock()
	r.calls = append(r.calls, args)
	call := len(r.calls)
	r.mu.Unlock()

	if r.onRun != nil {
		r.onRun(call)
	}

	for i := 0; i+3 < len(args); i++ {
		if args[i] == "-f" && args[i+1] == "concat" {
			for j := i + 2; j+1 < len(args); j++ {
				if args[j] == "-i" {
					if data, err := os.ReadFile(args[j+1]); err == nil {
						r.mu.Lock()
						r.manifest = string(data)
						r.mu.Unlock()
					}
					break
				}
			}
		}
	}

	if r.failAt[call] {
		return engine.JobResult{Status: engine.StatusFailed, ExitCode: 1,
			Diagnostics: []string{"Error: injected failure"}}
	}

	output := args[len(args)-1]
	if err := os.WriteFile(output, []byte("x"), 0o644); err != nil {
		return engine.JobResult{Status: engine.StatusFailed, ExitCode: -1}
	}
	return engine.JobResult{Status: engine.StatusCompleted, LastElapsed: 1.0}
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestProject(t *testing.T, mode edit.ExportMode) (*edit.Project, string) {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "source.mp4")
	require.NoError(t, os.WriteFile(source, []byte("x"), 0o644))

	return &edit.Project{
		Source:    source,
		OutputDir: filepath.Join(dir, "out"),
		Mode:      mode,
		Method:    edit.MethodFast,
		Segments: []edit.Segment{
			{Name: "Intro", Start: 0, End: 5, Enabled: true, Speed: 1, Aspect: edit.AspectNone, Grade: edit.NeutralGrade()},
			{Name: "Skipped", Start: 5, End: 8, Enabled: false, Speed: 1, Aspect: edit.AspectNone, Grade: edit.NeutralGrade()},
			{Name: "Middle", Start: 8, End: 15, Enabled: true, Speed: 1, Aspect: edit.AspectNone, Grade: edit.NeutralGrade()},
			{Name: "", Start: 15, End: 20.5, Enabled: true, Speed: 1, Aspect: edit.AspectNone, Grade: edit.NeutralGrade()},
			{Name: "Outro", Start: 20.5, End: 30, Enabled: true, Speed: 1, Aspect: edit.AspectNone, Grade: edit.NeutralGrade()},
		},
	}, dir
}

func newTestOrchestrator(workers int, runner Runner) *Orchestrator {
	cfg := config.DefaultConfig()
	cfg.MaxWorkers = workers
	return &Orchestrator{
		cfg:    &cfg,
		logger: hclog.NewNullLogger(),
		runner: runner,
	}
}

func TestExportSplit(t *testing.T) {
	p, _ := newTestProject(t, edit.ModeSplit)
	runner := &fakeRunner{}
	o := newTestOrchestrator(2, runner)

	var (
		mu      sync.Mutex
		reports int
	)
	succeeded, total, err := o.ExportSplit(context.Background(), p, nil,
		func(completed, tot int, _ string) {
			mu.Lock()
			reports++
			mu.Unlock()
			assert.LessOrEqual(t, completed, tot)
		})
	require.NoError(t, err)
	assert.Equal(t, 4, succeeded)
	assert.Equal(t, 4, total)
	assert.Equal(t, 4, runner.callCount())
	assert.Equal(t, 4, reports)

	entries, err := os.ReadDir(p.OutputDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"001_Intro.mp4",
		"002_Middle.mp4",
		"003_segment_15.00-20.50.mp4",
		"004_Outro.mp4",
	}, names)
}

func TestExportSplitIsolatesFailures(t *testing.T) {
	p, _ := newTestProject(t, edit.ModeSplit)
	runner := &fakeRunner{failAt: map[int]bool{2: true}}
	o := newTestOrchestrator(1, runner)

	succeeded, total, err := o.ExportSplit(context.Background(), p, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 4, total)
}

func TestExportSplitValidation(t *testing.T) {
	p, _ := newTestProject(t, edit.ModeSplit)
	for i := range p.Segments {
		p.Segments[i].Enabled = false
	}
	o := newTestOrchestrator(1, &fakeRunner{})

	_, _, err := o.ExportSplit(context.Background(), p, nil, nil)
	assert.ErrorIs(t, err, edit.ErrNoSegments)
}

func TestExportSplitCancellation(t *testing.T) {
	p, _ := newTestProject(t, edit.ModeSplit)
	runner := &fakeRunner{}
	o := newTestOrchestrator(1, runner)
	runner.onRun = func(call int) {
		if call == 2 {
			o.Cancel()
		}
	}

	succeeded, total, err := o.ExportSplit(context.Background(), p, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.LessOrEqual(t, succeeded, 3)
	assert.True(t, o.Cancelled())
}

func TestExportConcat(t *testing.T) {
	p, dir := newTestProject(t, edit.ModeConcat)
	runner := &fakeRunner{}
	o := newTestOrchestrator(2, runner)
	o.cfg.TempRoot = dir

	output := filepath.Join(dir, "out", "final.mp4")
	var fractions []float64
	err := o.ExportConcat(context.Background(), p, nil, output,
		func(fraction float64, _ string) {
			fractions = append(fractions, fraction)
		})
	require.NoError(t, err)

	// 4 extractions plus the join.
	assert.Equal(t, 5, runner.callCount())
	assert.FileExists(t, output)

	require.NotEmpty(t, fractions)
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}

	// Parts are listed in segment order, one quoted path per line.
	assert.Contains(t, runner.manifest, "file '")
	assert.Contains(t, runner.manifest, "segment_001.mp4'\n")
	assert.Contains(t, runner.manifest, "segment_004.mp4'\n")

	// Temp directory is gone after a successful run.
	matches, err := filepath.Glob(filepath.Join(dir, "clipforge_concat_*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestExportConcatAbortsOnFailure(t *testing.T) {
	p, dir := newTestProject(t, edit.ModeConcat)
	runner := &fakeRunner{failAt: map[int]bool{3: true}}
	o := newTestOrchestrator(1, runner)
	o.cfg.TempRoot = dir

	output := filepath.Join(dir, "out", "final.mp4")
	err := o.ExportConcat(context.Background(), p, nil, output, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segment 3/4")

	// No join attempt, and the temp directory is cleaned up anyway.
	assert.Equal(t, 3, runner.callCount())
	matches, err := filepath.Glob(filepath.Join(dir, "clipforge_concat_*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSegmentFileName(t *testing.T) {
	tests := []struct {
		name  string
		index int
		seg   edit.Segment
		want  string
	}{
		{"plain name", 0, edit.Segment{Name: "Intro"}, "001_Intro.mp4"},
		{"specials stripped", 1, edit.Segment{Name: "a/b:c*d?"}, "002_abcd.mp4"},
		{"spaces kept", 9, edit.Segment{Name: "part two"}, "010_part two.mp4"},
		{"empty name", 2, edit.Segment{Start: 1.5, End: 3}, "003_segment_1.50-3.00.mp4"},
		{"only specials", 0, edit.Segment{Name: "///", Start: 0, End: 1}, "001_segment_0.00-1.00.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, segmentFileName(tt.index, &tt.seg))
		})
	}
}
