// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel runs redaction over batches of documents concurrently.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"

	"text-redact/internal/detector"
	"text-redact/internal/engine"
)

// Job is one document to redact together with its recognizer detections.
type Job struct {
	ID          string
	Text        string
	Occurrences []detector.Occurrence
}

// Result holds the outcome of one job. A failed document sets Err and leaves
// Output nil; other documents in the batch are unaffected.
type Result struct {
	ID       string
	Output   *engine.Result
	Err      error
	Duration time.Duration
}

// Pool fans jobs out to a fixed set of workers sharing one engine. The
// engine is stateless per document, so concurrent use is safe.
type Pool struct {
	eng     *engine.Engine
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given worker count. A count of zero or
// less defaults to the number of CPUs.
func NewPool(eng *engine.Engine, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		eng:     eng,
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Submit queues a job. It returns false if the context was canceled before
// the job could be accepted.
func (p *Pool) Submit(ctx context.Context, job Job) bool {
	select {
	case p.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close signals that no more jobs will be submitted.
func (p *Pool) Close() {
	close(p.jobs)
}

// Results returns the channel of completed jobs. It is closed once all
// workers have drained the job queue.
func (p *Pool) Results() <-chan Result {
	return p.results
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for job := range p.jobs {
		start := time.Now()
		output, err := p.eng.Redact(job.Text, job.Occurrences)

		result := Result{
			ID:       job.ID,
			Output:   output,
			Err:      err,
			Duration: time.Since(start),
		}
		if err != nil {
			result.Output = nil
		}

		select {
		case p.results <- result:
		case <-ctx.Done():
			return
		}
	}
}

// RedactAll is a convenience wrapper that processes all jobs and returns the
// results keyed by job ID.
func RedactAll(ctx context.Context, eng *engine.Engine, jobs []Job, workers int) map[string]Result {
	pool := NewPool(eng, workers)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for _, job := range jobs {
			if !pool.Submit(ctx, job) {
				return
			}
		}
	}()

	results := make(map[string]Result, len(jobs))
	for r := range pool.Results() {
		results[r.ID] = r
	}
	return results
}
