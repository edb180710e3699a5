package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// waitForState polls StatusOf until the task leaves pending or the deadline
// passes.
func waitForState(t *testing.T, q *Queue, id string) Status {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if status, ok := q.StatusOf(id); ok && status.State != StatePending {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("task %s did not complete in time", id)
	return Status{}
}

func TestEnqueue_PendingBeforeExecution(t *testing.T) {
	// Queue is never started, so the task cannot run.
	q := New(1, 8)

	id := q.Enqueue(func(ctx context.Context) (string, error) {
		return "done", nil
	})

	status, ok := q.StatusOf(id)
	if !ok {
		t.Fatalf("expected StatusOf to know the issued id")
	}
	if status.State != StatePending {
		t.Errorf("expected state pending, got %s", status.State)
	}
}

func TestStatusOf_UnknownID(t *testing.T) {
	q := New(1, 8)

	if _, ok := q.StatusOf("never-issued"); ok {
		t.Fatalf("expected StatusOf to return false for an unknown id")
	}
}

func TestExecute_SuccessAndFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(2, 8)
	q.Start(ctx)
	defer q.Stop()

	okID := q.Enqueue(func(ctx context.Context) (string, error) {
		return "delivered", nil
	})
	failID := q.Enqueue(func(ctx context.Context) (string, error) {
		return "", errors.New("provider exploded")
	})

	okStatus := waitForState(t, q, okID)
	if okStatus.State != StateSuccess {
		t.Errorf("expected success, got %s", okStatus.State)
	}
	if okStatus.Detail != "delivered" {
		t.Errorf("expected detail 'delivered', got %q", okStatus.Detail)
	}

	failStatus := waitForState(t, q, failID)
	if failStatus.State != StateFailure {
		t.Errorf("expected failure, got %s", failStatus.State)
	}
	if failStatus.Detail != "provider exploded" {
		t.Errorf("expected error detail, got %q", failStatus.Detail)
	}
}

func TestExecute_PanicIsContained(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(1, 8)
	q.Start(ctx)
	defer q.Stop()

	panicID := q.Enqueue(func(ctx context.Context) (string, error) {
		panic("boom")
	})
	afterID := q.Enqueue(func(ctx context.Context) (string, error) {
		return "still alive", nil
	})

	panicStatus := waitForState(t, q, panicID)
	if panicStatus.State != StateFailure {
		t.Errorf("expected failure for panicking task, got %s", panicStatus.State)
	}
	if panicStatus.Detail != "task panicked: boom" {
		t.Errorf("unexpected panic detail: %q", panicStatus.Detail)
	}

	// The worker must survive the panic and run the next task.
	afterStatus := waitForState(t, q, afterID)
	if afterStatus.State != StateSuccess {
		t.Errorf("expected the worker to survive and run the next task, got %s", afterStatus.State)
	}
}

func TestEnqueueWithID_UsesCallerID(t *testing.T) {
	q := New(1, 8)

	q.EnqueueWithID("pre-assigned", func(ctx context.Context) (string, error) {
		return "", nil
	})

	if _, ok := q.StatusOf("pre-assigned"); !ok {
		t.Fatalf("expected StatusOf to track the caller-assigned id")
	}
}

func TestEnqueue_IssuesDistinctIDs(t *testing.T) {
	q := New(1, 64)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := q.Enqueue(func(ctx context.Context) (string, error) {
			return "", nil
		})
		if seen[id] {
			t.Fatalf("duplicate task id issued: %s", id)
		}
		seen[id] = true
	}
}

func TestQueue_ConcurrentTasksAllComplete(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := New(4, 64)
	q.Start(ctx)
	defer q.Stop()

	const taskCount = 20

	ids := make([]string, 0, taskCount)
	for i := 0; i < taskCount; i++ {
		i := i
		ids = append(ids, q.Enqueue(func(ctx context.Context) (string, error) {
			return fmt.Sprintf("task-%d", i), nil
		}))
	}

	for _, id := range ids {
		status := waitForState(t, q, id)
		if status.State != StateSuccess {
			t.Errorf("task %s: expected success, got %s", id, status.State)
		}
	}

	_, success, _ := q.Counts()
	if success != taskCount {
		t.Errorf("expected %d successes, got %d", taskCount, success)
	}
}
