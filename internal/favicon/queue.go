package favicon

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Job is one unit of favicon work. The context is cancelled when the
// queue closes.
type Job func(ctx context.Context)

// Queue releases jobs one at a time at a fixed interval. Released jobs run
// concurrently and may finish in any order.
type Queue struct {
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc

	mu          sync.Mutex
	cond        *sync.Cond
	pending     []Job
	outstanding int // pending + running
	closed      bool

	signal chan struct{} // buffered, size 1
	wg     sync.WaitGroup
}

// NewQueue starts a queue that releases a job every interval.
// The first job is released immediately. An interval of zero disables pacing.
func NewQueue(interval time.Duration) *Queue {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		limiter: rate.NewLimiter(limit, 1),
		ctx:     ctx,
		cancel:  cancel,
		signal:  make(chan struct{}, 1),
	}
	q.cond = sync.NewCond(&q.mu)

	q.wg.Add(1)
	go q.run()

	return q
}

// Schedule appends jobs to the queue. Returns false if the queue is closed.
func (q *Queue) Schedule(jobs ...Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.pending = append(q.pending, jobs...)
	q.outstanding += len(jobs)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the number of jobs not yet released.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Wait blocks until every scheduled job has finished or been dropped.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.outstanding > 0 {
		q.cond.Wait()
	}
}

// Close cancels running jobs, drops pending ones, and waits for the
// workers to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()

	q.mu.Lock()
	q.outstanding -= len(q.pending)
	q.pending = nil
	q.cond.Broadcast()
	q.mu.Unlock()
}

func (q *Queue) run() {
	defer q.wg.Done()

	for {
		job, ok := q.next()
		if !ok {
			return
		}
		if err := q.limiter.Wait(q.ctx); err != nil {
			q.finish()
			return
		}

		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			defer q.finish()
			job(q.ctx)
		}()
	}
}

// next pops the front job, blocking until one is available or the queue closes.
func (q *Queue) next() (Job, bool) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			job := q.pending[0]
			q.pending[0] = nil
			q.pending = q.pending[1:]
			q.mu.Unlock()
			return job, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-q.ctx.Done():
			return nil, false
		}
	}
}

func (q *Queue) finish() {
	q.mu.Lock()
	q.outstanding--
	if q.outstanding <= 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}
