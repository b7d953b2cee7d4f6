package reap

import (
	"sync"
	"time"

	"github.com/bear/reaper/internal/cache"
	"github.com/bear/reaper/internal/logger"
)

// Processor runs one host to completion. *Machine is the production
// implementation.
type Processor interface {
	Check(host string) HostResult
}

// Dispatcher fans hosts out to a bounded pool of workers and collects their
// terminal results. Channels are created per run, so independent runs never
// share state.
type Dispatcher struct {
	proc    Processor
	workers int
	log     logger.Logger
	events  Events
	now     func() time.Time
}

// NewDispatcher creates a dispatcher with the given total worker count.
func NewDispatcher(proc Processor, workers int, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}
	return &Dispatcher{
		proc:    proc,
		workers: workers,
		log:     log,
		events:  noopEvents{},
		now:     time.Now,
	}
}

// SetEvents registers a progress listener. Must be called before Run.
func (d *Dispatcher) SetEvents(ev Events) {
	if ev == nil {
		ev = noopEvents{}
	}
	d.events = ev
}

// Run processes every host exactly once and marks each completed host in the
// seen cache as its result arrives. The cache is only ever touched from this
// goroutine; workers just produce results. Returns once every submitted host
// has reported back and all workers have exited.
func (d *Dispatcher) Run(hosts []string, seen *cache.SeenCache) *Result {
	start := d.now()
	result := &Result{Submitted: len(hosts)}

	if len(hosts) == 0 {
		result.Duration = d.now().Sub(start)
		return result
	}

	workers := d.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(hosts) {
		workers = len(hosts)
	}

	// Buffered to the job count so submission can't block, then closed so
	// workers drain it and exit on their own.
	work := make(chan string, len(hosts))
	for _, host := range hosts {
		work <- host
	}
	close(work)

	results := make(chan HostResult, len(hosts))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range work {
				d.events.HostStarted(host)
				r := d.proc.Check(host)
				d.events.HostCompleted(r)
				results <- r
			}
		}()
	}

	// Close the result channel once every worker has drained the queue,
	// so the collection loop below terminates naturally.
	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		seen.MarkSeen(r.Host, d.now())
		result.HostResults = append(result.HostResults, r)
		if r.Rebooted() {
			result.Rebooted++
		} else {
			result.Skipped++
		}
	}

	result.Duration = d.now().Sub(start)
	d.log.Info("processed %d hosts: %d rebooted, %d skipped",
		result.Submitted, result.Rebooted, result.Skipped)
	return result
}
