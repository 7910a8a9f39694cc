package schedule

import (
	"sync"
	"time"
)

// Executor is the scheduling capability the runner drives: Submit hands
// work to a single event worker that executes one task at a time, Schedule
// arms a one-shot timer that hands its task off to the same worker when it
// fires. Tests substitute a deterministic synchronous implementation.
type Executor interface {
	Start()
	Submit(f func())
	Schedule(d time.Duration, f func())
	Stop()
}

const eventQueueSize = 64

// serialExecutor is the production executor: one event goroutine draining
// a command queue, timers handing their firings off to that queue. Timers
// never run tasks directly.
type serialExecutor struct {
	mu      sync.Mutex
	queue   chan func()
	quit    chan struct{}
	timers  []*time.Timer
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewSerialExecutor returns the production executor.
func NewSerialExecutor() Executor {
	return &serialExecutor{
		queue: make(chan func(), eventQueueSize),
		quit:  make(chan struct{}),
	}
}

func (e *serialExecutor) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	e.wg.Add(1)
	go e.run()
}

func (e *serialExecutor) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case f := <-e.queue:
			f()
		}
	}
}

// Submit enqueues a task for the event worker. Tasks submitted after Stop
// are discarded.
func (e *serialExecutor) Submit(f func()) {
	select {
	case <-e.quit:
	case e.queue <- f:
	}
}

// Schedule arms a one-shot timer that submits the task when it fires.
func (e *serialExecutor) Schedule(d time.Duration, f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		e.Submit(f)
	})
	e.timers = append(e.timers, t)
}

// Stop shuts both workers down, discarding pending timers and any queued
// tasks not yet picked up.
func (e *serialExecutor) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	for _, t := range e.timers {
		t.Stop()
	}
	e.timers = nil
	close(e.quit)
	e.mu.Unlock()
	e.wg.Wait()
}

// SyncExecutor runs everything inline on the caller, ignoring delays. It
// exists for deterministic tests of the trigger engine.
type SyncExecutor struct{}

func (SyncExecutor) Start() {}

func (SyncExecutor) Submit(f func()) {
	f()
}

func (SyncExecutor) Schedule(_ time.Duration, f func()) {
	f()
}

func (SyncExecutor) Stop() {}
