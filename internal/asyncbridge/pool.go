// Package asyncbridge implements the Async Bridge (C9): a bounded worker
// pool that drives LLM and search-port network I/O off the kernel
// callback goroutines. Submission returns immediately; the submitted job
// runs on a pool goroutine and reports its outcome through a callback
// that re-acquires the State Store lock to commit.
package asyncbridge

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"

	"github.com/Delta-in-hub/FuseLLM/metrics"
)

// Job is a unit of deferred network I/O. It performs the network call and
// commits its own outcome (there is no return value for the pool to see);
// the pool invokes it on a worker goroutine.
type Job func(ctx context.Context)

// Pool is a static two-queue worker pool: a priority queue for
// interactive traffic (prompt and model-file releases) and a normal
// queue for background traffic (query-file releases), mirroring
// the teacher's NewStaticWorkerPool(priorityWorker, normalWorker uint32)
// shape.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc

	prioritySem *semaphore.Weighted
	normalSem   *semaphore.Weighted

	priorityQueue chan queuedJob
	normalQueue   chan queuedJob

	done chan struct{}

	metrics *metrics.Metrics
}

// SetMetrics attaches a Metrics bundle so Submit/SubmitPriority start
// reporting fusellm_inflight_requests. Safe to call once, before Submit
// is used concurrently.
func (p *Pool) SetMetrics(m *metrics.Metrics) {
	p.metrics = m
}

type queuedJob struct {
	job Job
	ctx context.Context
}

// NewStaticWorkerPool builds a Pool with priorityWorker goroutines
// draining the priority queue and normalWorker goroutines draining the
// normal queue. At least one worker total is required.
func NewStaticWorkerPool(priorityWorker, normalWorker uint32) (*Pool, error) {
	if priorityWorker == 0 && normalWorker == 0 {
		return nil, errors.New("asyncbridge: at least one worker is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		ctx:           ctx,
		cancel:        cancel,
		prioritySem:   semaphore.NewWeighted(int64(max32(priorityWorker, 1))),
		normalSem:     semaphore.NewWeighted(int64(max32(normalWorker, 1))),
		priorityQueue: make(chan queuedJob, 256),
		normalQueue:   make(chan queuedJob, 1024),
		done:          make(chan struct{}),
	}

	for i := uint32(0); i < priorityWorker; i++ {
		go p.drain(p.priorityQueue, p.prioritySem, "priority")
	}
	for i := uint32(0); i < normalWorker; i++ {
		go p.drain(p.normalQueue, p.normalSem, "normal")
	}

	return p, nil
}

func max32(v, floor uint32) uint32 {
	if v < floor {
		return floor
	}
	return v
}

func (p *Pool) drain(queue chan queuedJob, sem *semaphore.Weighted, kind string) {
	for {
		select {
		case <-p.ctx.Done():
			return
		case qj, ok := <-queue:
			if !ok {
				return
			}
			if err := sem.Acquire(qj.ctx, 1); err != nil {
				continue
			}
			qj.job(qj.ctx)
			sem.Release(1)
			if p.metrics != nil {
				p.metrics.InflightRequests.WithLabelValues(kind).Dec()
			}
		}
	}
}

// SubmitPriority schedules job on the priority queue: prompt and
// model-file releases, where interactive latency matters.
func (p *Pool) SubmitPriority(ctx context.Context, job Job) {
	select {
	case p.priorityQueue <- queuedJob{job: job, ctx: ctx}:
		if p.metrics != nil {
			p.metrics.InflightRequests.WithLabelValues("priority").Inc()
		}
	case <-p.ctx.Done():
	}
}

// Submit schedules job on the normal queue: query-file releases.
func (p *Pool) Submit(ctx context.Context, job Job) {
	select {
	case p.normalQueue <- queuedJob{job: job, ctx: ctx}:
		if p.metrics != nil {
			p.metrics.InflightRequests.WithLabelValues("normal").Inc()
		}
	case <-p.ctx.Done():
	}
}

// Stop cancels the pool's context, causing drain loops to exit once their
// current job completes. In-flight futures are drained best-effort, per
// the cancellation-on-unmount rule.
func (p *Pool) Stop() {
	if p == nil {
		return
	}
	p.cancel()
}
