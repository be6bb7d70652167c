// Package scheduler provides the cooperative single-goroutine loop that
// runs every lifecycle transition and mutation batch. Work posted to the
// loop executes in FIFO order, one task at a time; a "scheduling turn" is
// the execution of one task.
package scheduler

import (
	"errors"
	"sync"
)

// ErrStopped is returned for work submitted after the loop has stopped.
var ErrStopped = errors.New("scheduler: loop stopped")

// ErrSettleTimeout is returned when Settle exceeds its turn budget because
// tasks keep scheduling further tasks.
var ErrSettleTimeout = errors.New("scheduler: loop did not settle")

// settleBudget bounds how many flush rounds Settle attempts.
const settleBudget = 1000

// Loop is a serialized task executor backed by one goroutine.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	started bool
	stopped bool
	done    chan struct{}
}

// NewLoop creates a loop. Call Start before posting work.
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Start launches the loop goroutine. Starting twice is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()
	go l.run()
}

func (l *Loop) run() {
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.stopped {
			// Closed under the lock so Post and Submit see stopped and
			// drained as one atomic state; a task enqueued after this
			// point would otherwise never run.
			close(l.done)
			l.mu.Unlock()
			return
		}
		tasks := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, task := range tasks {
			runTask(task)
		}
	}
}

// Post enqueues a task for a later scheduling turn. Tasks posted after
// Stop are dropped.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	if l.stopped && l.drained() {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, task)
	l.cond.Signal()
	l.mu.Unlock()
}

// drained reports whether the loop goroutine has exited. Callers must hold
// l.mu.
func (l *Loop) drained() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Submit enqueues a task and returns a Completion that resolves with the
// task's error once it has run.
func (l *Loop) Submit(task func() error) *Completion {
	c := &Completion{done: make(chan struct{})}
	l.mu.Lock()
	if l.stopped && l.drained() {
		l.mu.Unlock()
		c.err = ErrStopped
		close(c.done)
		return c
	}
	l.queue = append(l.queue, func() {
		defer close(c.done)
		if task != nil {
			c.err = protect(task)
		}
	})
	l.cond.Signal()
	l.mu.Unlock()
	return c
}

// Flush blocks until all work queued before the call has run.
// Must not be called from the loop goroutine.
func (l *Loop) Flush() {
	c := l.Submit(nil)
	<-c.done
}

// Settle flushes repeatedly until no further work is pending, so tasks
// that schedule follow-up turns (coalesced batches, deferred triggers) are
// fully drained. Returns ErrSettleTimeout if the loop never goes idle.
func (l *Loop) Settle() error {
	for range settleBudget {
		l.Flush()
		l.mu.Lock()
		idle := len(l.queue) == 0
		l.mu.Unlock()
		if idle {
			return nil
		}
	}
	return ErrSettleTimeout
}

// Stop drains remaining work and terminates the loop goroutine. It blocks
// until the last task has run. Stopping an unstarted loop marks it stopped
// without blocking.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	if !l.started {
		close(l.done)
		l.mu.Unlock()
		return
	}
	l.cond.Signal()
	l.mu.Unlock()
	<-l.done
}

// Completion carries the eventual outcome of a submitted task.
type Completion struct {
	done chan struct{}
	err  error
}

// Done returns a channel closed when the task has run.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err blocks until the task has run and returns its error.
func (c *Completion) Err() error {
	<-c.done
	return c.err
}
