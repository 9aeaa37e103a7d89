package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/postgres"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
)

const (
	// Table
	releaseOutboxTable = "object_release_outbox"

	// Columns
	releaseIDColumn          = "id"
	releaseObjectKeyColumn   = "object_key"
	releaseReasonColumn      = "reason"
	releasePayloadColumn     = "payload"
	releaseStatusColumn      = "status"
	releaseCreatedAtColumn   = "created_at"
	releaseProcessedAtColumn = "processed_at"
	releaseRetryCountColumn  = "retry_count"
)

type ReleaseOutboxRepo struct {
	*postgres.Postgres
}

func NewReleaseOutboxRepo(pg *postgres.Postgres) *ReleaseOutboxRepo {
	return &ReleaseOutboxRepo{pg}
}

func (r *ReleaseOutboxRepo) CreateBatch(ctx context.Context, events []*entity.ReleaseEvent) error {
	if len(events) == 0 {
		return nil
	}

	builder := r.Builder.
		Insert(releaseOutboxTable).
		Columns(
			releaseIDColumn,
			releaseObjectKeyColumn,
			releaseReasonColumn,
			releasePayloadColumn,
			releaseStatusColumn,
			releaseCreatedAtColumn,
			releaseRetryCountColumn,
		)

	for _, event := range events {
		builder = builder.Values(
			event.ID,
			event.ObjectKey,
			event.Reason,
			event.Payload,
			event.Status,
			event.CreatedAt,
			event.RetryCount,
		)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - CreateBatch - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - CreateBatch - executor.Exec: %w", err)
	}

	return nil
}

func (r *ReleaseOutboxRepo) GetPendingEvents(ctx context.Context, limit int, maxRetries int) ([]*entity.ReleaseEvent, error) {
	sql, args, err := r.Builder.
		Select(
			releaseIDColumn,
			releaseObjectKeyColumn,
			releaseReasonColumn,
			releasePayloadColumn,
			releaseStatusColumn,
			releaseCreatedAtColumn,
			releaseProcessedAtColumn,
			releaseRetryCountColumn,
		).
		From(releaseOutboxTable).
		Where(squirrel.And{
			squirrel.Eq{releaseStatusColumn: entity.Pending},
			squirrel.Lt{releaseRetryCountColumn: maxRetries},
		}).
		OrderBy(releaseCreatedAtColumn + " ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ReleaseOutboxRepo - GetPendingEvents - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ReleaseOutboxRepo - GetPendingEvents - executor.Query: %w", err)
	}
	defer rows.Close()

	events := make([]*entity.ReleaseEvent, 0, limit)
	for rows.Next() {
		var event entity.ReleaseEvent
		err = rows.Scan(
			&event.ID,
			&event.ObjectKey,
			&event.Reason,
			&event.Payload,
			&event.Status,
			&event.CreatedAt,
			&event.ProcessedAt,
			&event.RetryCount,
		)
		if err != nil {
			return nil, fmt.Errorf("ReleaseOutboxRepo - GetPendingEvents - rows.Scan: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ReleaseOutboxRepo - GetPendingEvents - rows.Err: %w", err)
	}

	return events, nil
}

func (r *ReleaseOutboxRepo) MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return r.setStatus(ctx, "MarkAsProcessingBatch", IDs, entity.Processing)
}

func (r *ReleaseOutboxRepo) MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return r.setStatus(ctx, "MarkAsProcessedBatch", IDs, entity.Processed)
}

func (r *ReleaseOutboxRepo) setStatus(ctx context.Context, method string, IDs uuid.UUIDs, status entity.ReleaseStatus) error {
	sql, args, err := r.Builder.
		Update(releaseOutboxTable).
		Set(releaseStatusColumn, status).
		Set(releaseProcessedAtColumn, time.Now()).
		Where(squirrel.Eq{releaseIDColumn: IDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - %s - r.Builder.ToSql: %w", method, err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - %s - executor.Exec: %w", method, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ReleaseOutboxRepo - %s: %w", method, errs.ErrRecordNotFound)
	}

	return nil
}

func (r *ReleaseOutboxRepo) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	sql, args, err := r.Builder.
		Update(releaseOutboxTable).
		Set(releaseStatusColumn, entity.Failed).
		Where(squirrel.And{
			squirrel.Eq{releaseStatusColumn: entity.Pending},
			squirrel.GtOrEq{releaseRetryCountColumn: maxRetries},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - MarkMaxRetriesAsFailed - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - MarkMaxRetriesAsFailed - executor.Exec: %w", err)
	}

	return nil
}

func (r *ReleaseOutboxRepo) IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error {
	sql, args, err := r.Builder.
		Update(releaseOutboxTable).
		Set(releaseRetryCountColumn, squirrel.Expr(releaseRetryCountColumn+" + 1")).
		Set(releaseStatusColumn, entity.Pending).
		Where(squirrel.Eq{releaseIDColumn: IDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - IncrementRetryCountBatch - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ReleaseOutboxRepo - IncrementRetryCountBatch - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ReleaseOutboxRepo - IncrementRetryCountBatch: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func (r *ReleaseOutboxRepo) DeleteOldProcessedAndFailed(ctx context.Context) (int64, error) {
	sql, args, err := r.Builder.
		Delete(releaseOutboxTable).
		Where(squirrel.Eq{releaseStatusColumn: entity.SettledStatuses()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ReleaseOutboxRepo - DeleteOldProcessedAndFailed - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("ReleaseOutboxRepo - DeleteOldProcessedAndFailed - executor.Exec: %w", err)
	}

	return tag.RowsAffected(), nil
}
