package repotest

import (
	"context"
	"slices"
	"sync"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/google/uuid"
)

type OutboxRepo struct {
	mu     sync.Mutex
	Events []*entity.ReleaseEvent
}

func (r *OutboxRepo) CreateBatch(_ context.Context, events []*entity.ReleaseEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Events = append(r.Events, events...)

	return nil
}

func (r *OutboxRepo) GetPendingEvents(_ context.Context, limit int, maxRetries int) ([]*entity.ReleaseEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.ReleaseEvent, 0, limit)
	for _, e := range r.Events {
		if len(out) == limit {
			break
		}
		if e.Status == entity.Pending && e.RetryCount < maxRetries {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *OutboxRepo) each(IDs uuid.UUIDs, f func(e *entity.ReleaseEvent)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.Events {
		if slices.Contains(IDs, e.ID) {
			f(e)
		}
	}
}

func (r *OutboxRepo) MarkAsProcessingBatch(_ context.Context, IDs uuid.UUIDs) error {
	r.each(IDs, func(e *entity.ReleaseEvent) { e.Status = entity.Processing })
	return nil
}

func (r *OutboxRepo) MarkAsProcessedBatch(_ context.Context, IDs uuid.UUIDs) error {
	r.each(IDs, func(e *entity.ReleaseEvent) { e.Status = entity.Processed })
	return nil
}

func (r *OutboxRepo) IncrementRetryCountBatch(_ context.Context, IDs uuid.UUIDs) error {
	r.each(IDs, func(e *entity.ReleaseEvent) {
		e.RetryCount++
		e.Status = entity.Pending
	})
	return nil
}

func (r *OutboxRepo) MarkMaxRetriesAsFailed(_ context.Context, maxRetries int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.Events {
		if e.Status == entity.Pending && e.RetryCount >= maxRetries {
			e.Status = entity.Failed
		}
	}

	return nil
}

func (r *OutboxRepo) DeleteOldProcessedAndFailed(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.Events)
	r.Events = slices.DeleteFunc(r.Events, func(e *entity.ReleaseEvent) bool {
		return e.Status.Settled()
	})

	return int64(before - len(r.Events)), nil
}
