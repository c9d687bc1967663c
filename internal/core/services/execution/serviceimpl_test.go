package execution

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/executor/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

type fakeAllocator struct {
	dir       string
	err       error
	allocated atomic.Int32
	released  atomic.Int32
}

func (a *fakeAllocator) Allocate() (*domain.Workspace, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.allocated.Add(1)
	id := uuid.New()
	base := filepath.Join(a.dir, id.String())
	return domain.NewWorkspace(id, base+".cpp", base, func() error {
		a.released.Add(1)
		return nil
	}), nil
}

type fakeCompiler struct {
	outcome domain.CompilationOutcome
	err     error
	calls   atomic.Int32
}

func (c *fakeCompiler) Compile(ctx context.Context, code string, ws *domain.Workspace) (domain.CompilationOutcome, error) {
	c.calls.Add(1)
	return c.outcome, c.err
}

// fakeRunner echoes the input back unless an outcome is scripted for it
type fakeRunner struct {
	mu       sync.Mutex
	outcomes map[string]domain.RunOutcome
	failOn   string
	inputs   []string
	block    chan struct{}
}

func (r *fakeRunner) Run(ctx context.Context, executablePath, input string, limits domain.RunLimits) (domain.RunOutcome, error) {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return domain.RunOutcome{}, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, input)
	if input == r.failOn {
		return domain.RunOutcome{}, errors.New("spawn failed")
	}
	if outcome, ok := r.outcomes[input]; ok {
		return outcome, nil
	}
	return domain.RunOutcome{Terminal: domain.TerminalNormalExit, Stdout: input, Elapsed: time.Millisecond}, nil
}

func newTestService(allocator *fakeAllocator, compiler *fakeCompiler, runner *fakeRunner, capacity int) *ExecutionService {
	return NewExecutionService(allocator, compiler, runner, capacity, logging.NewNopLogger())
}

func echoCases(inputs ...string) []domain.TestCase {
	cases := make([]domain.TestCase, 0, len(inputs))
	for _, in := range inputs {
		cases = append(cases, domain.TestCase{Input: in, ExpectedOutput: in})
	}
	return cases
}

func TestExecuteReturnsOneResultPerTestCaseInOrder(t *testing.T) {
	allocator := &fakeAllocator{dir: t.TempDir()}
	runner := &fakeRunner{outcomes: map[string]domain.RunOutcome{
		"b": {Terminal: domain.TerminalNormalExit, Stdout: "wrong", Elapsed: 7 * time.Millisecond, PeakMemoryBytes: 2048},
		"c": {Terminal: domain.TerminalTimedOut, Elapsed: 20 * time.Millisecond},
	}}
	service := newTestService(allocator, &fakeCompiler{outcome: domain.CompilationOutcome{Success: true}}, runner, 2)

	submission := domain.NewSubmissionRequest("int main(){}", echoCases("a", "b", "c", "d"), 256, 1000)
	result, err := service.Execute(context.Background(), submission)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := []domain.Verdict{domain.VerdictAccepted, domain.VerdictWrongAnswer, domain.VerdictTimeLimitExceeded, domain.VerdictAccepted}
	if len(result.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(result.Results), len(want))
	}
	for i, status := range want {
		if result.Results[i].Status != status {
			t.Fatalf("result %d status = %s, want %s", i, result.Results[i].Status, status)
		}
		if result.Results[i].Input != submission.TestCases[i].Input {
			t.Fatalf("result %d out of order: %+v", i, result.Results[i])
		}
	}
	if got := runner.inputs; len(got) != 4 || got[0] != "a" || got[3] != "d" {
		t.Fatalf("test cases not run sequentially in order: %v", got)
	}
	if result.Accepted() {
		t.Fatal("submission with a wrong answer must not be accepted")
	}
	if result.ExecutionTimeMs != 20 || result.MemoryUsageBytes != 2048 {
		t.Fatalf("unexpected summary: time=%d memory=%d", result.ExecutionTimeMs, result.MemoryUsageBytes)
	}
	if result.SubmissionID != submission.ID {
		t.Fatal("submission id not carried")
	}
	if allocator.released.Load() != 1 {
		t.Fatalf("workspace released %d times, want 1", allocator.released.Load())
	}
}

func TestExecuteCompilationFailureYieldsSingleResult(t *testing.T) {
	allocator := &fakeAllocator{dir: t.TempDir()}
	runner := &fakeRunner{}
	compiler := &fakeCompiler{outcome: domain.CompilationOutcome{Diagnostic: "main.cpp:1:1: error: expected ';'"}}
	service := newTestService(allocator, compiler, runner, 1)

	result, err := service.Execute(context.Background(), domain.NewSubmissionRequest("int main(", echoCases("1", "2", "3"), 256, 1000))
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("got %d results, want exactly 1", len(result.Results))
	}
	got := result.Results[0]
	if got.Status != domain.VerdictCompilationError || got.Success {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Output != compiler.outcome.Diagnostic || result.CompilationOutput != compiler.outcome.Diagnostic {
		t.Fatalf("diagnostic not surfaced: %+v", result)
	}
	if len(runner.inputs) != 0 {
		t.Fatal("no test case may run after a failed compilation")
	}
	if allocator.released.Load() != 1 {
		t.Fatal("workspace not released after compilation failure")
	}
}

func TestExecuteRejectsInvalidLimits(t *testing.T) {
	tests := []struct {
		name       string
		submission *domain.SubmissionRequest
	}{
		{"nil submission", nil},
		{"zero memory", domain.NewSubmissionRequest("x", echoCases("1"), 0, 1000)},
		{"negative memory", domain.NewSubmissionRequest("x", echoCases("1"), -5, 1000)},
		{"zero time", domain.NewSubmissionRequest("x", echoCases("1"), 256, 0)},
		{"negative time", domain.NewSubmissionRequest("x", echoCases("1"), 256, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocator := &fakeAllocator{dir: t.TempDir()}
			compiler := &fakeCompiler{}
			service := newTestService(allocator, compiler, &fakeRunner{}, 1)

			_, err := service.Execute(context.Background(), tt.submission)
			if !errors.Is(err, errs.ErrInvalidSubmission) {
				t.Fatalf("expected invalid submission error, got %v", err)
			}
			if allocator.allocated.Load() != 0 || compiler.calls.Load() != 0 {
				t.Fatal("invalid submission must be rejected before any work")
			}
		})
	}
}

func TestExecuteAllocationFailure(t *testing.T) {
	allocator := &fakeAllocator{err: errors.New("disk full")}
	service := newTestService(allocator, &fakeCompiler{}, &fakeRunner{}, 1)

	_, err := service.Execute(context.Background(), domain.NewSubmissionRequest("x", echoCases("1"), 256, 1000))
	if !errors.Is(err, errs.ErrInfrastructure) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestExecuteCompilerFaultReleasesWorkspace(t *testing.T) {
	allocator := &fakeAllocator{dir: t.TempDir()}
	compiler := &fakeCompiler{err: errs.ErrInfrastructure}
	service := newTestService(allocator, compiler, &fakeRunner{}, 1)

	_, err := service.Execute(context.Background(), domain.NewSubmissionRequest("x", echoCases("1"), 256, 1000))
	if !errors.Is(err, errs.ErrInfrastructure) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if allocator.released.Load() != 1 {
		t.Fatal("workspace not released after compiler fault")
	}
}

func TestExecuteRunnerFaultAbortsAndReleases(t *testing.T) {
	allocator := &fakeAllocator{dir: t.TempDir()}
	runner := &fakeRunner{failOn: "2"}
	service := newTestService(allocator, &fakeCompiler{outcome: domain.CompilationOutcome{Success: true}}, runner, 1)

	_, err := service.Execute(context.Background(), domain.NewSubmissionRequest("x", echoCases("1", "2", "3"), 256, 1000))
	if err == nil {
		t.Fatal("expected error from failing runner")
	}
	if len(runner.inputs) != 2 {
		t.Fatalf("expected remaining test cases to be skipped, ran %v", runner.inputs)
	}
	if allocator.released.Load() != 1 {
		t.Fatal("workspace not released after runner fault")
	}
}

func TestExecuteEmptyTestCases(t *testing.T) {
	allocator := &fakeAllocator{dir: t.TempDir()}
	service := newTestService(allocator, &fakeCompiler{outcome: domain.CompilationOutcome{Success: true}}, &fakeRunner{}, 1)

	result, err := service.Execute(context.Background(), domain.NewSubmissionRequest("x", nil, 256, 1000))
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if len(result.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(result.Results))
	}
}

func TestExecuteRespectsCapacity(t *testing.T) {
	allocator := &fakeAllocator{dir: t.TempDir()}
	runner := &fakeRunner{block: make(chan struct{})}
	service := newTestService(allocator, &fakeCompiler{outcome: domain.CompilationOutcome{Success: true}}, runner, 1)
	submission := func() *domain.SubmissionRequest {
		return domain.NewSubmissionRequest("x", echoCases("1"), 256, 1000)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := service.Execute(context.Background(), submission())
		firstDone <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for service.InFlight() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("first submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := service.Execute(ctx, submission()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected second submission to wait for a slot, got %v", err)
	}

	close(runner.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if service.InFlight() != 0 || service.Capacity() != 1 {
		t.Fatalf("unexpected load: inFlight=%d capacity=%d", service.InFlight(), service.Capacity())
	}
}
