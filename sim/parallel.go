package sim

import (
	"runtime"
	"sync"
)

// serialThreshold is the minimum particle count to fan a phase out over
// the worker pool. Below this, single-threaded is faster due to
// goroutine overhead.
const serialThreshold = 64

// chunk is a range of particle indices for one worker, together with
// the phase body to run over it.
type chunk struct {
	start, end int
	fn         func(start, end, worker int)
}

// workerPool runs one phase at a time over the particle range with a
// full barrier before the next phase begins. Workers are persistent;
// the phase body travels with each chunk, so a phase switch needs no
// synchronization beyond the channels themselves.
type workerPool struct {
	workers int

	work    chan chunk
	done    chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

func newWorkerPool() *workerPool {
	return &workerPool{workers: runtime.GOMAXPROCS(0)}
}

// start launches the persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}
	p.work = make(chan chunk, p.workers)
	p.done = make(chan struct{}, p.workers)
	p.stop = make(chan struct{})
	p.running = true

	for w := 0; w < p.workers; w++ {
		p.wg.Add(1)
		go p.worker(w)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *workerPool) stopWorkers() {
	if !p.running {
		return
	}
	close(p.stop)
	p.wg.Wait()
	close(p.work)
	close(p.done)
	p.running = false
}

func (p *workerPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case c, ok := <-p.work:
			if !ok {
				return
			}
			c.fn(c.start, c.end, id)
			p.done <- struct{}{}
		}
	}
}

// run executes fn over [0, n) and blocks until every chunk completes.
func (p *workerPool) run(n int, fn func(start, end, worker int)) {
	if n == 0 {
		return
	}
	if n < serialThreshold || !p.running {
		fn(0, n, 0)
		return
	}

	chunkSize := (n + p.workers - 1) / p.workers
	dispatched := 0
	for w := 0; w < p.workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.work <- chunk{start: start, end: end, fn: fn}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.done
	}
}
