package outbox

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
)

// OutboxRelay moves pending release events from the outbox to the broker.
// Each poll drains full batches until the backlog is below one batch or the batch timeout hits.
type OutboxRelay struct {
	rel    usecase.ObjectRelease
	es     infrastructure.EventsSender
	logger logger.Interface

	pollInterval        time.Duration
	cleanupInterval     time.Duration
	markFailedInterval  time.Duration
	processBatchTimeout time.Duration
	batchSize           int
	maxRetries          int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	rel usecase.ObjectRelease,
	es infrastructure.EventsSender,
	l logger.Interface,
	pollInterval time.Duration,
	cleanupInterval time.Duration,
	markFailedInterval time.Duration,
	processBatchTimeout time.Duration,
	batchSize int,
	maxRetries int,
) *OutboxRelay {
	return &OutboxRelay{
		rel:                 rel,
		es:                  es,
		logger:              l,
		pollInterval:        pollInterval,
		cleanupInterval:     cleanupInterval,
		markFailedInterval:  markFailedInterval,
		processBatchTimeout: processBatchTimeout,
		batchSize:           batchSize,
		maxRetries:          maxRetries,
	}
}

func (r *OutboxRelay) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("OutboxRelay - Start - worker already started")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	r.worker(r.pollInterval, func() {
		r.relayPending(r.ctx)
	})

	r.worker(r.markFailedInterval, func() {
		err := r.rel.MarkMaxRetriesAsFailed(r.ctx, r.maxRetries)
		if err != nil {
			r.logger.Error(err, "OutboxRelay - Start - worker - r.rel.MarkMaxRetriesAsFailed")
		}
	})

	r.worker(r.cleanupInterval, func() {
		err := r.rel.CleanupOutbox(r.ctx)
		if err != nil {
			r.logger.Error(err, "OutboxRelay - Start - worker - r.rel.CleanupOutbox")
		}
	})

	return nil
}

func (r *OutboxRelay) relayPending(ctx context.Context) {
	batchCtx, batchCancel := context.WithTimeout(ctx, r.processBatchTimeout)
	defer batchCancel()

	for batchCtx.Err() == nil {
		if r.processEventsBatch(batchCtx) < r.batchSize {
			return
		}
	}
}

// processEventsBatch relays one batch and reports how many outbox rows it settled.
func (r *OutboxRelay) processEventsBatch(ctx context.Context) int {
	events, err := r.rel.GetPendingEvents(ctx, r.batchSize, r.maxRetries)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.rel.GetPendingEvents")

		return 0
	}
	if len(events) == 0 {
		return 0
	}

	err = r.rel.MarkAsProcessingBatch(ctx, events)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.rel.MarkAsProcessingBatch")

		return 0
	}

	err = r.es.SendEvents(ctx, distinctKeys(events))
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.es.SendEvents")
		// back to pending with one more retry
		incErr := r.rel.IncrementRetryCountBatch(ctx, events)
		if incErr != nil {
			r.logger.Error(incErr, "OutboxRelay - processEventsBatch - r.rel.IncrementRetryCountBatch")
		}
		return 0
	}

	err = r.rel.MarkAsProcessedBatch(ctx, events)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.rel.MarkAsProcessedBatch")

		return 0
	}

	r.logger.Debug("OutboxRelay - processEventsBatch: relayed %d release events (%s)", len(events), reasonSummary(events))

	return len(events)
}

// distinctKeys keeps the oldest event per object key. Rows queued twice for the
// same object (a compensation and a draft delete, say) need one delete.
func distinctKeys(events []*entity.ReleaseEvent) []*entity.ReleaseEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]*entity.ReleaseEvent, 0, len(events))

	for _, e := range events {
		if _, ok := seen[e.ObjectKey]; ok {
			continue
		}
		seen[e.ObjectKey] = struct{}{}
		out = append(out, e)
	}

	return out
}

// reasonSummary renders per-reason counts, e.g. "compensation=1 draft_deleted=3".
func reasonSummary(events []*entity.ReleaseEvent) string {
	counts := make(map[entity.ReleaseReason]int)
	for _, e := range events {
		counts[e.Reason]++
	}

	parts := make([]string, 0, len(counts))
	for _, reason := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, counts[reason]))
	}

	return strings.Join(parts, " ")
}

func (r *OutboxRelay) worker(interval time.Duration, task func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (r *OutboxRelay) Shutdown(ctx context.Context) error {
	if !r.started.Load() {
		return nil
	}

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		err := r.es.Close()
		if err != nil {
			r.logger.Error(err, "OutboxRelay - Shutdown - r.es.Close")
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("OutboxRelay - Shutdown: %w", ctx.Err())
	}
}
