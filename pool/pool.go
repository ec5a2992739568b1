package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/indigo-web/reqpool/config"
	"github.com/indigo-web/reqpool/internal/queue"
)

// Task is a unit of deferred execution. Everything it needs must be captured by the closure.
type Task func()

var ErrNoWorkers = errors.New("pool: workers number must be positive")

// spawner starts a worker. The default one can't fail, but the pool doesn't rely on it.
type spawner func(worker func()) error

func goSpawn(worker func()) error {
	go worker()
	return nil
}

// Pool executes submitted tasks on a fixed number of workers. Tasks are dequeued in the order
// they were submitted.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    *queue.Queue[Task]
	shutdown bool
	workers  int
	running  sync.WaitGroup
}

// New starts a pool with cfg.Workers workers. No partially started pool is ever returned:
// if any worker fails to start, the already started ones are stopped first.
func New(cfg config.Pool) (*Pool, error) {
	return newPool(cfg, goSpawn)
}

func newPool(cfg config.Pool, spawn spawner) (*Pool, error) {
	if cfg.Workers <= 0 {
		return nil, ErrNoWorkers
	}

	p := &Pool{
		queue:   queue.New[Task](cfg.QueueCapacity, cfg.GrowthCeiling),
		workers: cfg.Workers,
	}
	p.cond = sync.NewCond(&p.mu)

	for i := range cfg.Workers {
		p.running.Add(1)
		if err := spawn(p.worker); err != nil {
			p.running.Done()
			p.Shutdown()
			return nil, fmt.Errorf("pool: start worker %d: %w", i, err)
		}
	}

	return p, nil
}

// Submit enqueues the task and wakes a single waiting worker. It never blocks on execution
// and returns false if the task wasn't scheduled: the pool is shutting down or the queue
// can't grow anymore.
func (p *Pool) Submit(task Task) bool {
	if task == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown || !p.queue.Push(task) {
		return false
	}

	p.cond.Signal()
	return true
}

func (p *Pool) worker() {
	defer p.running.Done()

	for {
		p.mu.Lock()
		for p.queue.Empty() && !p.shutdown {
			p.cond.Wait()
		}

		task, ok := p.queue.Pop()
		p.mu.Unlock()
		if !ok {
			// the queue is drained and the pool is shutting down
			return
		}

		task()
	}
}

// Shutdown stops accepting new tasks, lets the workers execute everything already queued and
// waits for them to terminate. Calling it more than once is a no-op, calling it concurrently
// isn't supported.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}

	p.shutdown = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.running.Wait()

	p.mu.Lock()
	p.queue.Release()
	p.mu.Unlock()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Pending returns the number of queued tasks no worker has picked up yet.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.queue.Len()
}
