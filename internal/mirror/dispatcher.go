package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/thriveverse/backend/pkg/logger"
)

// Task is a unit of mirror work. It runs on the dispatcher goroutine
// after the primary response has been returned; errors are logged and
// swallowed.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher decouples mirror writes from the request path. Tasks are
// queued on a buffered channel and executed by a single worker; a full
// queue drops the task instead of blocking the caller.
type Dispatcher struct {
	tasks   chan Task
	log     *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
}

// NewDispatcher creates a dispatcher with the given queue capacity.
func NewDispatcher(capacity int, log *logger.Logger) *Dispatcher {
	if capacity <= 0 {
		capacity = 64
	}
	return &Dispatcher{
		tasks:   make(chan Task, capacity),
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.loop()
}

// Enqueue queues a task without blocking. Returns false when the queue
// is full and the task was dropped; the drop is logged, as mirror loss
// is acceptable by contract.
func (d *Dispatcher) Enqueue(t Task) bool {
	select {
	case d.tasks <- t:
		return true
	default:
		d.log.WithField("task", t.Name).Warn("mirror queue full, dropping task")
		return false
	}
}

// Stop drains the queue and waits for the worker to finish.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.tasks)
	})
	d.wg.Wait()
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for t := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := t.Run(ctx); err != nil {
			d.log.WithField("task", t.Name).WithError(err).Warn("mirror task failed")
		}
		cancel()
	}
}
