package ecs

// TaskQueue holds functions deferred to a well-defined boundary. Effect cleanups
// are queued here so they never run while the hooks context that scheduled them
// is being iterated or mutated.
type TaskQueue struct {
	tasks    []func()
	flushing bool
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// Defer queues fn to run at the next Flush.
func (q *TaskQueue) Defer(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Flush runs queued tasks in FIFO order until the queue is empty, including tasks
// deferred by the tasks themselves, and returns how many ran. A Flush called from
// inside a running task returns 0 and leaves the work to the outer Flush.
func (q *TaskQueue) Flush() int {
	if q.flushing {
		return 0
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	ran := 0
	for len(q.tasks) > 0 {
		batch := q.tasks
		q.tasks = nil
		for i, fn := range batch {
			batch[i] = nil
			fn()
			ran++
		}
	}
	return ran
}
