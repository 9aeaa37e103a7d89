package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectrelease"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const (
	_minReadBackoff = 100 * time.Millisecond
	_maxReadBackoff = 5 * time.Second
)

type EventConsumer interface {
	ReadEvent(ctx context.Context) (kafka.Message, error)
	CommitEvent(ctx context.Context, msg kafka.Message) error
	Close() error
}

// ReleaseController deletes the objects named by release events, committing each event once handled.
type ReleaseController struct {
	rel    usecase.ObjectRelease
	ec     EventConsumer
	logger logger.Interface

	commitTimeout time.Duration
	deleteTimeout time.Duration

	workers int
	// bounds of the pause between failed reads, doubled per consecutive failure
	minReadBackoff time.Duration
	maxReadBackoff time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	rel usecase.ObjectRelease,
	ec EventConsumer,
	l logger.Interface,
	commitTimeout time.Duration,
	deleteTimeout time.Duration,
	workers int,
) *ReleaseController {
	if workers < 1 {
		workers = 1
	}

	return &ReleaseController{
		rel:           rel,
		ec:            ec,
		logger:        l,
		commitTimeout: commitTimeout,
		deleteTimeout: deleteTimeout,
		workers:       workers,

		minReadBackoff: _minReadBackoff,
		maxReadBackoff: _maxReadBackoff,
	}
}

func (c *ReleaseController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("ReleaseController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		backoff := c.minReadBackoff

		for {
			event, err := c.ec.ReadEvent(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				if !errors.Is(err, context.Canceled) {
					c.logger.Error(err, "ReleaseController - Start - c.ec.ReadEvent")
				}

				select {
				case <-time.After(backoff):
				case <-c.ctx.Done():
					return
				}
				backoff = min(backoff*2, c.maxReadBackoff)

				continue
			}
			backoff = c.minReadBackoff

			select {
			case tasks <- event:
			case <-c.ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (c *ReleaseController) release(ctx context.Context, event kafka.Message) error {
	var payload objectrelease.Payload
	err := json.Unmarshal(event.Value, &payload)
	if err != nil {
		return fmt.Errorf("ReleaseController - release - json.Unmarshal: %w", err)
	}

	key := payload.Key
	if key == "" {
		key = string(event.Key)
	}
	if key == "" {
		return fmt.Errorf("ReleaseController - release: event without object key")
	}

	err = c.rel.Release(ctx, key)
	if err != nil {
		return fmt.Errorf("ReleaseController - release - c.rel.Release: %w", err)
	}

	return nil
}

func (c *ReleaseController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "ReleaseController - worker - panic")
				}
			}()

			deleteCtx, deleteCancel := context.WithTimeout(c.ctx, c.deleteTimeout)
			err := c.release(deleteCtx, event)
			deleteCancel()
			if err != nil {
				c.logger.Error(err, "ReleaseController - worker - c.release")

				return
			}

			commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
			err = c.ec.CommitEvent(commitCtx, event)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "ReleaseController - worker - c.ec.CommitEvent")
			}
		}()
	}
}

func (c *ReleaseController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		err := c.ec.Close()
		if err != nil {
			c.logger.Error(err, "ReleaseController - Shutdown - c.ec.Close")
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("ReleaseController - Shutdown: %w", ctx.Err())
	}
}
