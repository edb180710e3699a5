package taskqueue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kmutai/sms-dispatch-service/pkg/logger"
)

// Task is one unit of asynchronous work. It returns a human-readable detail
// string; a non-nil error marks the task as failed. Tasks are executed at
// most once.
type Task func(ctx context.Context) (string, error)

type State string

const (
	StatePending State = "pending"
	StateSuccess State = "success"
	StateFailure State = "failure"
)

// Status is the queue's view of one task.
type Status struct {
	State  State  `json:"state"`
	Detail string `json:"detail,omitempty"`
}

// Queue runs enqueued tasks on a fixed pool of worker goroutines. Enqueue
// records the task as pending before scheduling, so StatusOf never misses an
// issued id. Results are kept in memory for the life of the process; the
// delivery record store is the durable source of truth across restarts.
type Queue struct {
	tasks   chan queuedTask
	workers int

	mu      sync.RWMutex
	results map[string]Status

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

type queuedTask struct {
	id string
	fn Task
}

func New(workers, queueSize int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	return &Queue{
		tasks:   make(chan queuedTask, queueSize),
		workers: workers,
		results: make(map[string]Status),
	}
}

// NewTaskID issues a unique task identifier. Callers that need the id before
// the work is scheduled (to persist a record first) use this together with
// EnqueueWithID.
func (q *Queue) NewTaskID() string {
	return uuid.NewString()
}

// Enqueue assigns a fresh id, schedules the task and returns the id without
// waiting for execution.
func (q *Queue) Enqueue(fn Task) string {
	id := q.NewTaskID()
	q.EnqueueWithID(id, fn)
	return id
}

// EnqueueWithID schedules a task under a caller-assigned id. The task shows
// up as pending immediately. Blocks only when the buffer is full.
func (q *Queue) EnqueueWithID(id string, fn Task) {
	q.mu.Lock()
	q.results[id] = Status{State: StatePending}
	q.mu.Unlock()

	q.tasks <- queuedTask{id: id, fn: fn}
}

// StatusOf is a non-blocking lookup. The second return value is false for
// ids this queue never issued (or issued before a restart).
func (q *Queue) StatusOf(id string) (Status, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	status, ok := q.results[id]
	return status, ok
}

// Counts returns how many tracked tasks are in each state.
func (q *Queue) Counts() (pending, success, failure int) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, status := range q.results {
		switch status.State {
		case StatePending:
			pending++
		case StateSuccess:
			success++
		case StateFailure:
			failure++
		}
	}
	return pending, success, failure
}

// Start launches the worker pool. Tasks enqueued before Start sit in the
// buffer and run once workers come up.
func (q *Queue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.runWorker(ctx, i)
	}

	logger.Infof("Task queue started with %d workers (buffer: %d)", q.workers, cap(q.tasks))
}

// Stop signals workers to finish their current task and exit. Buffered tasks
// that never ran stay pending here and queued in the record store; the
// reconciler can resubmit them after a restart.
func (q *Queue) Stop() {
	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()

	logger.Infof("Task queue stopped")
}

func (q *Queue) runWorker(ctx context.Context, workerID int) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-q.tasks:
			q.execute(ctx, workerID, task)
		}
	}
}

// execute runs one task and records its outcome. A panic inside the task is
// contained here so one bad task cannot take down the pool; well-behaved
// tasks recover their own panics and persist a terminal record before this
// backstop fires.
func (q *Queue) execute(ctx context.Context, workerID int, task queuedTask) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[worker %d] task %s panicked: %v", workerID, task.id, r)
			q.setResult(task.id, Status{
				State:  StateFailure,
				Detail: fmt.Sprintf("task panicked: %v", r),
			})
		}
	}()

	detail, err := task.fn(ctx)
	if err != nil {
		if detail == "" {
			detail = err.Error()
		}
		logger.Warnf("[worker %d] task %s failed: %v", workerID, task.id, err)
		q.setResult(task.id, Status{State: StateFailure, Detail: detail})
		return
	}

	q.setResult(task.id, Status{State: StateSuccess, Detail: detail})
}

func (q *Queue) setResult(id string, status Status) {
	q.mu.Lock()
	q.results[id] = status
	q.mu.Unlock()
}
