package scheduler

import (
	"time"

	"github.com/go-stagecraft/stagecraft/pkg/errors"
)

// runTask executes one queued task. A panic in the task is reported and
// swallowed so a misbehaving callback cannot kill the loop goroutine.
func runTask(task func()) {
	defer errors.Recover("scheduler.task")
	task()
}

// protect runs a submitted task and returns its outcome. A panic is
// reported and returned as the task's error, so waiters on the
// Completion observe the failure instead of blocking forever.
func protect(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p := &errors.PanicError{
				Op:         "scheduler.task",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			errors.ReportPanic(p)
			err = p
		}
	}()
	return task()
}
