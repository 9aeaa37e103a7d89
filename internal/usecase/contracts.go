package usecase

import (
	"context"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/google/uuid"
)

type (
	// PersistFunc stores references to objects that were just uploaded.
	PersistFunc func(ctx context.Context, stored []entity.StoredObject) error

	ObjectGateway interface {
		Upload(ctx context.Context, file dto.FileUpload, hint dto.KeyHint) (entity.StoredObject, error)
		BatchDelete(ctx context.Context, keys []string) dto.BatchDeleteResult
		UploadAndPersist(ctx context.Context, uploads []dto.ObjectUpload, persist PersistFunc) ([]entity.StoredObject, error)
		KeyFromURL(url string) (string, bool)
	}

	ReleaseEnqueuer interface {
		Enqueue(ctx context.Context, keys []string, reason entity.ReleaseReason) error
	}

	ObjectRelease interface {
		ReleaseEnqueuer
		Release(ctx context.Context, key string) error
		GetPendingEvents(ctx context.Context, limit, maxRetries int) ([]*entity.ReleaseEvent, error)
		MarkAsProcessingBatch(ctx context.Context, events []*entity.ReleaseEvent) error
		MarkAsProcessedBatch(ctx context.Context, events []*entity.ReleaseEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.ReleaseEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		CleanupOutbox(ctx context.Context) error
	}

	Credential interface {
		Register(ctx context.Context, in dto.RegisterInput) (dto.Session, error)
		Authenticate(ctx context.Context, identifier, password string) (dto.Session, error)
		VerifyToken(token string) (dto.Claims, error)
	}

	Profile interface {
		Create(ctx context.Context, in dto.ProfileInput, passwordHash *string) (*entity.BusinessOwner, error)
		AttachFile(ctx context.Context, id uuid.UUID, file dto.FileUpload) (string, error)
		Get(ctx context.Context, id uuid.UUID) (*entity.BusinessOwner, error)
		List(ctx context.Context) ([]*entity.BusinessOwner, error)
		Update(ctx context.Context, id uuid.UUID, in dto.ProfileInput) (*entity.BusinessOwner, error)
	}

	Post interface {
		UpsertDraft(ctx context.Context, creatorID, categoryID uuid.UUID, content entity.PostContent, submitted bool) (*entity.Post, bool, error)
		DeleteDraft(ctx context.Context, id uuid.UUID) (dto.DeleteResult, error)
		Get(ctx context.Context, id uuid.UUID) (*entity.Post, error)
		ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entity.Post, error)
		ListByFilter(ctx context.Context, filter dto.PostFilter) ([]*entity.Post, error)
	}

	Category interface {
		Create(ctx context.Context, name string, icon dto.FileUpload) (*entity.Category, error)
		List(ctx context.Context) ([]*entity.Category, error)
	}
)
