package repo

import (
	"context"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/google/uuid"
)

type (
	ObjectStorage interface {
		Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
		Delete(ctx context.Context, key string) error
		DeleteBatch(ctx context.Context, keys []string) dto.BatchDeleteResult
		URL(key string) string
		KeyFromURL(url string) (string, bool)
	}

	OwnerRepo interface {
		Create(ctx context.Context, owner *entity.BusinessOwner) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.BusinessOwner, error)
		GetByIdentifier(ctx context.Context, identifier string) (*entity.BusinessOwner, error)
		List(ctx context.Context) ([]*entity.BusinessOwner, error)
		Update(ctx context.Context, owner *entity.BusinessOwner) error
		ReplaceProfilePicture(ctx context.Context, id uuid.UUID, url, newKey, oldKey string) error
	}

	PostRepo interface {
		// UpsertDraft writes post as the draft of its creator and category and
		// reports whether a new row was created together with the keys the previous draft tracked.
		UpsertDraft(ctx context.Context, post *entity.Post) (bool, []string, error)
		DraftKeys(ctx context.Context, creatorID, categoryID uuid.UUID) ([]string, error)
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
		List(ctx context.Context, filter dto.PostFilter) ([]*entity.Post, error)
		Delete(ctx context.Context, id uuid.UUID) (int64, error)
	}

	CategoryRepo interface {
		Create(ctx context.Context, category *entity.Category) error
		List(ctx context.Context) ([]*entity.Category, error)
	}

	ReleaseOutboxRepo interface {
		CreateBatch(ctx context.Context, events []*entity.ReleaseEvent) error
		GetPendingEvents(ctx context.Context, limit int, maxRetries int) ([]*entity.ReleaseEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		DeleteOldProcessedAndFailed(ctx context.Context) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}

	OwnerCache interface {
		Get(identifier string) (*entity.BusinessOwner, bool)
		Set(identifier string, owner *entity.BusinessOwner)
		Invalidate(owner *entity.BusinessOwner)
	}
)
