package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

func newTestManager(t *testing.T, workers, maxSize int) *Manager {
	t.Helper()
	m := NewManager(&config.Config{Queue: config.QueueConfig{Workers: workers, MaxSize: maxSize}})
	t.Cleanup(m.Close)
	return m
}

func TestSubmitReturnsJobResult(t *testing.T) {
	m := newTestManager(t, 1, 4)

	got, err := m.Submit(context.Background(), func(ctx context.Context) (string, error) {
		return "레시피", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "레시피", got)

	boom := errors.New("boom")
	_, err = m.Submit(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(2), m.GetQueueStatus().ProcessedCount)
}

func TestSubmitBoundsConcurrency(t *testing.T) {
	m := newTestManager(t, 2, 10)

	var running, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Submit(context.Background(), func(ctx context.Context) (string, error) {
				n := atomic.AddInt64(&running, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt64(&running, -1)
				return "ok", nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
	assert.Equal(t, int64(6), m.GetQueueStatus().ProcessedCount)
}

func TestSubmitQueueFull(t *testing.T) {
	m := newTestManager(t, 1, 1)

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	blocking := func(ctx context.Context) (string, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return "done", nil
	}

	results := make(chan error, 2)
	go func() {
		_, err := m.Submit(context.Background(), blocking)
		results <- err
	}()
	<-started

	go func() {
		_, err := m.Submit(context.Background(), blocking)
		results <- err
	}()
	require.Eventually(t, func() bool {
		return m.GetQueueStatus().QueueLength == 1
	}, time.Second, 5*time.Millisecond)

	_, err := m.Submit(context.Background(), blocking)
	assert.ErrorIs(t, err, common.ErrQueueFull)

	close(release)
	assert.NoError(t, <-results)
	assert.NoError(t, <-results)
}

func TestSubmitContextCanceled(t *testing.T) {
	m := newTestManager(t, 1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.Submit(ctx, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmitAfterClose(t *testing.T) {
	m := NewManager(&config.Config{Queue: config.QueueConfig{Workers: 1, MaxSize: 1}})
	m.Close()

	_, err := m.Submit(context.Background(), func(ctx context.Context) (string, error) {
		return "", nil
	})
	assert.ErrorIs(t, err, common.ErrQueueClosed)
}
