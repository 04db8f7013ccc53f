// Package tween provides a time-driven interpolation scheduler.
// Tasks are advanced by elapsed seconds on every tick and report their
// progress as a percentage in [0, 1]. Like the games it serves, it has no
// external dependencies and no internal concurrency.
package tween

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration is returned when a task is scheduled with a duration
// that is not a positive finite number.
var ErrInvalidDuration = errors.New("tween: duration must be positive")

// Task describes a timed interpolation.
type Task struct {
	// Duration in seconds. Must be > 0.
	Duration float64

	// Update is called on every tick with percent complete in [0, 1].
	// May be nil for delay-only tasks.
	Update func(percent float64)

	// Done is called exactly once, right after Update receives 1.0.
	Done func()
}

// Handle refers to a scheduled task.
type Handle struct {
	task     Task
	elapsed  float64
	finished bool
	canceled bool
}

// Cancel removes the task without calling Done.
// Canceling a finished task is a no-op.
func (h *Handle) Cancel() {
	if h == nil || h.finished {
		return
	}
	h.canceled = true
}

// Active reports whether the task is still waiting to complete.
func (h *Handle) Active() bool {
	return h != nil && !h.finished && !h.canceled
}

// Elapsed returns the time the task has been ticked for, in seconds.
func (h *Handle) Elapsed() float64 {
	if h == nil {
		return 0
	}
	return h.elapsed
}

// Scheduler owns the set of active tasks.
type Scheduler struct {
	active  []*Handle
	pending []*Handle // Tasks added while a tick is iterating
	ticking bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		active: make([]*Handle, 0, 16),
	}
}

// Schedule adds a task. Tasks added from inside a callback during Tick are
// buffered and first advanced on the following Tick.
func (s *Scheduler) Schedule(t Task) (*Handle, error) {
	if !(t.Duration > 0) || math.IsInf(t.Duration, 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, t.Duration)
	}

	h := &Handle{task: t}
	if s.ticking {
		s.pending = append(s.pending, h)
	} else {
		s.active = append(s.active, h)
	}
	return h, nil
}

// Delay schedules fn to run once after the given number of seconds.
func (s *Scheduler) Delay(seconds float64, fn func()) (*Handle, error) {
	return s.Schedule(Task{Duration: seconds, Done: fn})
}

// Tick advances every active task by dt seconds. Negative or NaN deltas
// are treated as zero.
func (s *Scheduler) Tick(dt float64) {
	if !(dt > 0) {
		dt = 0
	}

	s.ticking = true
	for _, h := range s.active {
		if h.canceled || h.finished {
			continue
		}

		h.elapsed += dt
		percent := 1.0
		if h.elapsed < h.task.Duration {
			percent = h.elapsed / h.task.Duration
		}

		if h.task.Update != nil {
			h.task.Update(percent)
		}
		// Update may have canceled its own task
		if h.canceled {
			continue
		}
		if percent >= 1 {
			h.finished = true
			if h.task.Done != nil {
				h.task.Done()
			}
		}
	}
	s.ticking = false

	kept := s.active[:0]
	for _, h := range s.active {
		if h.Active() {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = kept

	for _, h := range s.pending {
		if h.Active() {
			s.active = append(s.active, h)
		}
	}
	s.pending = s.pending[:0]
}

// CancelAll discards every task, including ones added during the current
// tick, without calling their Done callbacks.
func (s *Scheduler) CancelAll() {
	for _, h := range s.active {
		h.Cancel()
	}
	for _, h := range s.pending {
		h.Cancel()
	}
	s.pending = s.pending[:0]
	if !s.ticking {
		s.active = s.active[:0]
	}
}

// Len returns the number of tasks that will be advanced on the next tick.
func (s *Scheduler) Len() int {
	n := 0
	for _, h := range s.active {
		if h.Active() {
			n++
		}
	}
	for _, h := range s.pending {
		if h.Active() {
			n++
		}
	}
	return n
}
