package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/repotest"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectrelease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	fail   bool
	closed bool
}

func (s *fakeSender) SendEvents(_ context.Context, events []*entity.ReleaseEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("broker down")
	}
	for _, e := range events {
		s.sent = append(s.sent, e.ObjectKey)
	}

	return nil
}

func (s *fakeSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func (s *fakeSender) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.sent...)
}

func newRelay(sender *fakeSender, batchSize, maxRetries int) (*OutboxRelay, *objectrelease.ObjectReleaseUseCase, *repotest.OutboxRepo) {
	outbox := &repotest.OutboxRepo{}
	rel := objectrelease.New(outbox, repotest.NewStorage(), repotest.NopLogger{})

	r := New(rel, sender, repotest.NopLogger{},
		10*time.Millisecond, time.Hour, time.Hour, time.Second,
		batchSize, maxRetries,
	)

	return r, rel, outbox
}

func TestProcessEventsBatch(t *testing.T) {
	sender := &fakeSender{}
	r, rel, outbox := newRelay(sender, 2, 3)
	ctx := context.Background()

	require.NoError(t, rel.Enqueue(ctx, []string{"a", "b", "c"}, entity.ReasonDraftDeleted))

	r.processEventsBatch(ctx)
	assert.Equal(t, []string{"a", "b"}, sender.keys())
	assert.Equal(t, entity.Processed, outbox.Events[0].Status)
	assert.Equal(t, entity.Pending, outbox.Events[2].Status)

	r.processEventsBatch(ctx)
	assert.Equal(t, []string{"a", "b", "c"}, sender.keys())
}

func TestProcessEventsBatch_OneMessagePerKey(t *testing.T) {
	sender := &fakeSender{}
	r, rel, outbox := newRelay(sender, 10, 3)
	ctx := context.Background()

	require.NoError(t, rel.Enqueue(ctx, []string{"a"}, entity.ReasonCompensation))
	require.NoError(t, rel.Enqueue(ctx, []string{"a", "b"}, entity.ReasonDraftDeleted))

	assert.Equal(t, 3, r.processEventsBatch(ctx))
	assert.Equal(t, []string{"a", "b"}, sender.keys())

	for _, e := range outbox.Events {
		assert.Equal(t, entity.Processed, e.Status, e.ObjectKey)
	}
}

func TestRelayPending_DrainsBacklog(t *testing.T) {
	sender := &fakeSender{}
	r, rel, _ := newRelay(sender, 2, 3)
	ctx := context.Background()

	require.NoError(t, rel.Enqueue(ctx, []string{"a", "b", "c", "d", "e"}, entity.ReasonDraftReplaced))

	r.relayPending(ctx)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, sender.keys())

	r.relayPending(ctx)
	assert.Len(t, sender.keys(), 5)
}

func TestReasonSummary(t *testing.T) {
	events := []*entity.ReleaseEvent{
		{ObjectKey: "a", Reason: entity.ReasonDraftDeleted},
		{ObjectKey: "b", Reason: entity.ReasonCompensation},
		{ObjectKey: "c", Reason: entity.ReasonDraftDeleted},
	}

	assert.Equal(t, "compensation=1 draft_deleted=2", reasonSummary(events))
}

func TestProcessEventsBatch_SendFailureRetries(t *testing.T) {
	sender := &fakeSender{fail: true}
	r, rel, outbox := newRelay(sender, 10, 2)
	ctx := context.Background()

	require.NoError(t, rel.Enqueue(ctx, []string{"a"}, entity.ReasonCompensation))

	r.processEventsBatch(ctx)
	r.processEventsBatch(ctx)
	assert.Equal(t, 2, outbox.Events[0].RetryCount)
	assert.Equal(t, entity.Pending, outbox.Events[0].Status)

	r.processEventsBatch(ctx)
	assert.Equal(t, 2, outbox.Events[0].RetryCount)

	require.NoError(t, rel.MarkMaxRetriesAsFailed(ctx, 2))
	assert.Equal(t, entity.Failed, outbox.Events[0].Status)
}

func TestStartShutdown(t *testing.T) {
	sender := &fakeSender{}
	r, rel, _ := newRelay(sender, 10, 3)
	ctx := context.Background()

	require.NoError(t, rel.Enqueue(ctx, []string{"a"}, entity.ReasonDraftReplaced))

	require.NoError(t, r.Start(ctx))
	require.Error(t, r.Start(ctx))

	assert.Eventually(t, func() bool {
		return len(sender.keys()) == 1
	}, time.Second, 10*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(shutdownCtx))
	assert.True(t, sender.closed)
}
