// Package worker runs detached publish tasks. Requests that trigger a
// publish return immediately; the task's outcome is observable only
// through the persisted post record.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Pool bounds the number of concurrently running background
// publishes. Submissions beyond the bound block until a slot frees.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = 4
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Submit runs fn on its own goroutine. The task owns its context:
// cancellation of the triggering request must not cancel the publish.
func (p *Pool) Submit(name string, fn func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		log.Debug().Str("task", name).Msg("background task started")
		fn(context.Background())
	}()
}

// Drain waits for in-flight tasks to finish or the context to expire.
func (p *Pool) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("shutdown before background tasks finished")
	}
}
