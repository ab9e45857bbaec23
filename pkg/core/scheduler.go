package core

import (
	"context"
	"sync"

	"github.com/go-drift/reflow/pkg/errors"
)

// Scheduler defers work to a later tick of the UI thread of control.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(task func())

// Schedule calls f(task).
func (f SchedulerFunc) Schedule(task func()) { f(task) }

// TaskQueue is a Scheduler drained explicitly by its owner, typically once
// per frame or, in tests, after each interaction. Schedule is safe for
// concurrent use; Drain must run on the UI thread.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// Schedule appends task.
func (q *TaskQueue) Schedule(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// RunOne runs the oldest task. It reports whether a task ran.
func (q *TaskQueue) RunOne() bool {
	q.mu.Lock()
	if len(q.tasks) == 0 {
		q.mu.Unlock()
		return false
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	q.mu.Unlock()

	errors.Guard("core.TaskQueue", errors.KindPanic, "", task)
	return true
}

// Clear drops every queued task without running it.
func (q *TaskQueue) Clear() {
	q.mu.Lock()
	clear(q.tasks)
	q.tasks = nil
	q.mu.Unlock()
}

// Drain runs tasks until the queue is empty, including tasks scheduled by
// the tasks it runs, and returns how many ran.
func (q *TaskQueue) Drain() int {
	n := 0
	for q.RunOne() {
		n++
	}
	return n
}

// Loop is a Scheduler that runs tasks on the goroutine calling Run.
// Schedule may be called from any goroutine.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// NewLoop creates a loop. Tasks scheduled before Run are kept.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Schedule queues task and wakes the loop.
func (l *Loop) Schedule(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is done and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.runPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) runPending() {
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		for _, task := range batch {
			errors.Guard("core.Loop", errors.KindPanic, "", task)
		}
	}
}
