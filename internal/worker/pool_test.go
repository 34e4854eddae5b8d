package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(2)
	var ran atomic.Int32

	for i := 0; i < 5; i++ {
		p.Submit("task", func(ctx context.Context) {
			ran.Add(1)
		})
	}

	p.Drain(context.Background())
	assert.Equal(t, int32(5), ran.Load())
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(2)
	var mu sync.Mutex
	active, peak := 0, 0

	for i := 0; i < 8; i++ {
		p.Submit("task", func(ctx context.Context) {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		})
	}

	p.Drain(context.Background())
	assert.LessOrEqual(t, peak, 2)
	assert.Greater(t, peak, 0)
}

func TestDrainRespectsContext(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})
	p.Submit("slow", func(ctx context.Context) {
		<-release
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		p.Drain(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Drain did not return after context expiry")
	}
	close(release)
}
