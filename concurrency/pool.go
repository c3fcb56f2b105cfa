// Package concurrency implements a fixed-size worker pool and a
// single-lock object recycler.
package concurrency

import (
	"runtime"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/zlayout/zlayout-go/internal/zerr"
	"github.com/zlayout/zlayout-go/internal/zlog"
)

// PoolConfig sizes a ThreadPool. Workers <= 0 falls back to
// runtime.NumCPU(); QueueDepth is the buffer capacity of the backing
// FIFO channel. The queue is bounded: once QueueDepth tasks are
// waiting, Enqueue blocks until a worker takes one, and 0 means every
// Enqueue waits for a worker to receive its task.
type PoolConfig struct {
	Workers    int `envconfig:"POOL_WORKERS" default:"0"`
	QueueDepth int `envconfig:"POOL_QUEUE_DEPTH" default:"0"`
}

// LoadPoolConfig reads ZLAYOUT_POOL_WORKERS / ZLAYOUT_POOL_QUEUE_DEPTH
// from the environment, falling back to PoolConfig's zero-value
// defaults when unset.
func LoadPoolConfig() (PoolConfig, error) {
	var cfg PoolConfig
	if err := envconfig.Process("zlayout", &cfg); err != nil {
		return cfg, zerr.Wrap(zerr.CodeThreadPoolStopped, err, "loading pool config from environment")
	}
	return cfg, nil
}

// task is a unit of work submitted to the pool: a closure plus the
// channel its future delivers the result on.
type task struct {
	fn     func() (any, error)
	result chan<- taskResult
}

type taskResult struct {
	value any
	err   error
}

// Future is a handle to a task's eventual result, analogous to the
// source's hand-rolled future type.
type Future struct {
	ch <-chan taskResult
}

// Get blocks until the task completes and returns its result.
func (f *Future) Get() (any, error) {
	r := <-f.ch
	return r.value, r.err
}

// ThreadPool is a fixed-size pool of goroutines servicing a FIFO task
// queue of PoolConfig.QueueDepth capacity; the queue is not unbounded,
// and Enqueue blocks while it is full. Each task runs to completion on its
// worker with no cooperative yielding. Submitting after Shutdown
// returns CodeThreadPoolStopped.
type ThreadPool struct {
	tasks   chan task
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewThreadPool starts a pool sized by cfg. Workers <= 0 uses
// runtime.NumCPU().
func NewThreadPool(cfg PoolConfig) *ThreadPool {
	return newThreadPool(cfg, true)
}

// NewSerialThreadPool starts a single-worker pool regardless of cfg.
// A caller wiring a pool through a Library handle with
// initialize(enable_parallel=false) should use this instead of
// NewThreadPool so enqueued tasks still run one at a time rather than
// fanning out across goroutines.
func NewSerialThreadPool(cfg PoolConfig) *ThreadPool {
	return newThreadPool(cfg, false)
}

func newThreadPool(cfg PoolConfig, parallel bool) *ThreadPool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if !parallel {
		workers = 1
	}
	queueDepth := cfg.QueueDepth
	if queueDepth < 0 {
		queueDepth = 0
	}

	p := &ThreadPool{tasks: make(chan task, queueDepth)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	zlog.Debug("🧵 thread pool started", "workers", workers)
	return p
}

func (p *ThreadPool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		v, err := t.fn()
		t.result <- taskResult{value: v, err: err}
	}
}

// Enqueue submits fn and returns a Future for its result. Returns
// CodeThreadPoolStopped if the pool has been shut down.
func (p *ThreadPool) Enqueue(fn func() (any, error)) (*Future, error) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil, zerr.New(zerr.CodeThreadPoolStopped, "enqueue after shutdown")
	}
	p.mu.Unlock()

	ch := make(chan taskResult, 1)
	p.tasks <- task{fn: fn, result: ch}
	return &Future{ch: ch}, nil
}

// Shutdown closes the task queue and blocks until every worker drains
// it and exits. Subsequent Enqueue calls fail.
func (p *ThreadPool) Shutdown() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
	zlog.Debug("🧵 thread pool stopped")
}
