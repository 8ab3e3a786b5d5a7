package ui

import (
	"context"
	"sync/atomic"
)

var taskSeq atomic.Uint64

// task is one in-flight request owned by a view. Results carry the task id;
// a view drops any result whose id isn't its current task.
type task struct {
	id     uint64
	cancel context.CancelFunc
}

// startTask returns a cancellable context and the task that owns it.
func startTask() (context.Context, task) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, task{id: taskSeq.Add(1), cancel: cancel}
}

// stop cancels the request, if any, and forgets it. Safe to call twice.
func (t *task) stop() {
	if t.cancel != nil {
		t.cancel()
	}
	*t = task{}
}

// owns reports whether a result tagged with id belongs to this task.
func (t *task) owns(id uint64) bool {
	return id != 0 && t.id == id
}
