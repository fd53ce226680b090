package coordinator

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
)

// Dispatcher runs fetch tasks off the caller's goroutine.
type Dispatcher interface {
	Submit(task func()) error
}

// PoolDispatcher shares one bounded ants pool across every session.
type PoolDispatcher struct {
	pool *ants.Pool
}

func NewPoolDispatcher(size int) (*PoolDispatcher, error) {
	if size <= 0 {
		size = 16
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &PoolDispatcher{pool: pool}, nil
}

func (d *PoolDispatcher) Submit(task func()) error {
	if err := d.pool.Submit(task); err != nil {
		return fmt.Errorf("submit task to worker pool: %w", err)
	}
	return nil
}

// Running reports the workers currently held by the pool.
func (d *PoolDispatcher) Running() int {
	return d.pool.Running()
}

func (d *PoolDispatcher) Release() {
	d.pool.Release()
}

// InlineDispatcher runs tasks synchronously. Tests use it to make commit
// order deterministic.
type InlineDispatcher struct{}

func (InlineDispatcher) Submit(task func()) error {
	task()
	return nil
}

// GoDispatcher starts one goroutine per task.
type GoDispatcher struct{}

func (GoDispatcher) Submit(task func()) error {
	go task()
	return nil
}
