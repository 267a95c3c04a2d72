package concurrent

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrScheduleTimeout = errors.New("schedule error: timed out")
	ErrPoolClosed      = errors.New("schedule error: pool closed")
)

// WorkerPool. bounded goroutine pool. at most size goroutines run tasks, each one keeps serving queued tasks
// until the pool is closed. ref: https://sergey.kamardin.org/articles/million-websocket-and-go/
type WorkerPool struct {
	sem  chan struct{}
	work chan func()

	wg        sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
}

func NewWorkerPool(size, queue int) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queue < 0 {
		queue = 0
	}
	return &WorkerPool{
		sem:  make(chan struct{}, size),
		work: make(chan func(), queue),
		done: make(chan struct{}),
	}
}

// Spawn. start n idle workers up front, n is capped by the pool size
func (p *WorkerPool) Spawn(n int) {
	for i := 0; i < n; i++ {
		select {
		case p.sem <- struct{}{}:
			p.wg.Add(1)
			go p.worker(nil)
		default:
			return
		}
	}
}

// Schedule. run task on a pool goroutine, blocks until a worker or a queue slot is free.
func (p *WorkerPool) Schedule(task func()) {
	p.schedule(task, nil)
}

// ScheduleTimeout. like Schedule but gives up with ErrScheduleTimeout after timeout
func (p *WorkerPool) ScheduleTimeout(timeout time.Duration, task func()) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return p.schedule(task, timer.C)
}

func (p *WorkerPool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	select {
	case <-p.done:
		return ErrPoolClosed
	case <-timeout:
		return ErrScheduleTimeout
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		p.wg.Add(1)
		go p.worker(task)
		return nil
	}
}

func (p *WorkerPool) worker(task func()) {
	defer func() {
		<-p.sem
		p.wg.Done()
	}()

	if task != nil {
		task()
	}
	for {
		select {
		case <-p.done:
			return
		case task := <-p.work:
			task()
		}
	}
}

// Close. stop accepting tasks and wait for running tasks. queued tasks that did not start are dropped.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
