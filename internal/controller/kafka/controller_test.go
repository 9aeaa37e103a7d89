package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/repotest"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectrelease"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsumer struct {
	msgs chan kafka.Message

	// readErr, when set, fails every read
	readErr error
	reads   atomic.Int32

	mu        sync.Mutex
	committed []string
	closed    bool
}

func newFakeConsumer(msgs ...kafka.Message) *fakeConsumer {
	c := &fakeConsumer{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		c.msgs <- m
	}

	return c
}

func (c *fakeConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	c.reads.Add(1)
	if c.readErr != nil {
		return kafka.Message{}, c.readErr
	}

	select {
	case m := <-c.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (c *fakeConsumer) CommitEvent(_ context.Context, msg kafka.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.committed = append(c.committed, string(msg.Key))

	return nil
}

func (c *fakeConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}

func (c *fakeConsumer) commits() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.committed...)
}

func TestReleaseController(t *testing.T) {
	storage := repotest.NewStorage()
	ctx := context.Background()

	for _, k := range []string{"a.png", "b.png"} {
		_, err := storage.Upload(ctx, k, []byte("x"), "image/png")
		require.NoError(t, err)
	}
	storage.FailDelete["b.png"] = true

	consumer := newFakeConsumer(
		kafka.Message{Key: []byte("a.png"), Value: []byte(`{"key":"a.png","reason":"draft_deleted"}`)},
		kafka.Message{Key: []byte("b.png"), Value: []byte(`{"key":"b.png","reason":"draft_deleted"}`)},
		kafka.Message{Key: []byte("junk"), Value: []byte(`not json`)},
	)

	rel := objectrelease.New(&repotest.OutboxRepo{}, storage, repotest.NopLogger{})
	c := New(rel, consumer, repotest.NopLogger{}, time.Second, time.Second, 2)

	require.NoError(t, c.Start(ctx))
	require.Error(t, c.Start(ctx))

	assert.Eventually(t, func() bool {
		return !storage.Has("a.png")
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(consumer.msgs) == 0
	}, time.Second, 10*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, c.Shutdown(shutdownCtx))

	assert.Equal(t, []string{"a.png"}, consumer.commits())
	assert.True(t, storage.Has("b.png"))
	assert.True(t, consumer.closed)
}

func TestReleaseController_KeyFromMessageKey(t *testing.T) {
	storage := repotest.NewStorage()
	ctx := context.Background()

	_, err := storage.Upload(ctx, "c.png", []byte("x"), "image/png")
	require.NoError(t, err)

	c := New(objectrelease.New(&repotest.OutboxRepo{}, storage, repotest.NopLogger{}), newFakeConsumer(), repotest.NopLogger{}, time.Second, time.Second, 1)

	require.NoError(t, c.release(ctx, kafka.Message{Key: []byte("c.png"), Value: []byte(`{}`)}))
	assert.False(t, storage.Has("c.png"))

	assert.Error(t, c.release(ctx, kafka.Message{Value: []byte(`{}`)}))
}

func TestReleaseController_ShutdownBeforeStart(t *testing.T) {
	c := New(nil, newFakeConsumer(), repotest.NopLogger{}, time.Second, time.Second, 1)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestReleaseController_ReadErrorsBackOff(t *testing.T) {
	consumer := newFakeConsumer()
	consumer.readErr = errors.New("broker down")

	c := New(nil, consumer, repotest.NopLogger{}, time.Second, time.Second, 1)
	c.minReadBackoff = 20 * time.Millisecond
	c.maxReadBackoff = 40 * time.Millisecond

	require.NoError(t, c.Start(context.Background()))
	time.Sleep(200 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Shutdown(shutdownCtx))

	reads := consumer.reads.Load()
	assert.GreaterOrEqual(t, reads, int32(2))
	assert.LessOrEqual(t, reads, int32(10))
}
