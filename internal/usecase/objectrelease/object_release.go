package objectrelease

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
)

type ObjectReleaseUseCase struct {
	outboxRepo repo.ReleaseOutboxRepo
	storage    repo.ObjectStorage

	logger logger.Interface
}

func New(outboxRepo repo.ReleaseOutboxRepo, storage repo.ObjectStorage, l logger.Interface) *ObjectReleaseUseCase {
	return &ObjectReleaseUseCase{
		outboxRepo: outboxRepo,
		storage:    storage,
		logger:     l,
	}
}

// Enqueue records one release event per distinct key. It joins the transaction carried by ctx, if any.
func (uc *ObjectReleaseUseCase) Enqueue(ctx context.Context, keys []string, reason entity.ReleaseReason) error {
	if len(keys) == 0 {
		return nil
	}

	now := time.Now()
	seen := make(map[string]struct{}, len(keys))
	events := make([]*entity.ReleaseEvent, 0, len(keys))

	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		event, err := newReleaseEvent(key, reason, now)
		if err != nil {
			return fmt.Errorf("ObjectReleaseUseCase - Enqueue - newReleaseEvent: %w", err)
		}
		events = append(events, event)
	}

	err := uc.outboxRepo.CreateBatch(ctx, events)
	if err != nil {
		return fmt.Errorf("ObjectReleaseUseCase - Enqueue - uc.outboxRepo.CreateBatch: %w", err)
	}

	return nil
}

// Release deletes the remote object. Deleting a missing key succeeds.
func (uc *ObjectReleaseUseCase) Release(ctx context.Context, key string) error {
	err := uc.storage.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("ObjectReleaseUseCase - Release - uc.storage.Delete: %w", err)
	}

	return nil
}

func (uc *ObjectReleaseUseCase) GetPendingEvents(ctx context.Context, limit, maxRetries int) ([]*entity.ReleaseEvent, error) {
	events, err := uc.outboxRepo.GetPendingEvents(ctx, limit, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("ObjectReleaseUseCase - GetPendingEvents - uc.outboxRepo.GetPendingEvents: %w", err)
	}

	return events, nil
}

func (uc *ObjectReleaseUseCase) MarkAsProcessingBatch(ctx context.Context, events []*entity.ReleaseEvent) error {
	err := uc.outboxRepo.MarkAsProcessingBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("ObjectReleaseUseCase - MarkAsProcessingBatch - uc.outboxRepo.MarkAsProcessingBatch: %w", err)
	}

	return nil
}

func (uc *ObjectReleaseUseCase) MarkAsProcessedBatch(ctx context.Context, events []*entity.ReleaseEvent) error {
	err := uc.outboxRepo.MarkAsProcessedBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("ObjectReleaseUseCase - MarkAsProcessedBatch - uc.outboxRepo.MarkAsProcessedBatch: %w", err)
	}

	return nil
}

func (uc *ObjectReleaseUseCase) IncrementRetryCountBatch(ctx context.Context, events []*entity.ReleaseEvent) error {
	err := uc.outboxRepo.IncrementRetryCountBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("ObjectReleaseUseCase - IncrementRetryCountBatch - uc.outboxRepo.IncrementRetryCountBatch: %w", err)
	}

	return nil
}

func (uc *ObjectReleaseUseCase) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	err := uc.outboxRepo.MarkMaxRetriesAsFailed(ctx, maxRetries)
	if err != nil {
		return fmt.Errorf("ObjectReleaseUseCase - MarkMaxRetriesAsFailed - uc.outboxRepo.MarkMaxRetriesAsFailed: %w", err)
	}

	return nil
}

func (uc *ObjectReleaseUseCase) CleanupOutbox(ctx context.Context) error {
	count, err := uc.outboxRepo.DeleteOldProcessedAndFailed(ctx)
	if err != nil {
		return fmt.Errorf("ObjectReleaseUseCase - CleanupOutbox - uc.outboxRepo.DeleteOldProcessedAndFailed: %w", err)
	}

	if count > 0 {
		uc.logger.Info("deleted old release events, count = %d", count)
	}

	return nil
}
