package post

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
)

const imagesPrefix = "post-images"

type PostUseCase struct {
	posts      repo.PostRepo
	gateway    usecase.ObjectGateway
	releases   usecase.ReleaseEnqueuer
	transactor repo.Transactor

	logger logger.Interface
}

func New(
	posts repo.PostRepo,
	gateway usecase.ObjectGateway,
	releases usecase.ReleaseEnqueuer,
	transactor repo.Transactor,
	l logger.Interface,
) *PostUseCase {
	return &PostUseCase{
		posts:      posts,
		gateway:    gateway,
		releases:   releases,
		transactor: transactor,
		logger:     l,
	}
}

// UpsertDraft uploads every inline image of content, then creates or replaces the single
// draft of creatorID in categoryID. Keys the replaced draft owned and no longer references are released.
func (uc *PostUseCase) UpsertDraft(
	ctx context.Context,
	creatorID, categoryID uuid.UUID,
	content entity.PostContent,
	submitted bool,
) (*entity.Post, bool, error) {
	if creatorID == uuid.Nil || categoryID == uuid.Nil {
		return nil, false, fmt.Errorf("PostUseCase - UpsertDraft: creatorId and categoryId are required: %w", errs.ErrValidation)
	}

	content = detached(content)
	inline := inlineImages(&content)

	uploads := make([]dto.ObjectUpload, 0, len(inline))
	for _, img := range inline {
		uploads = append(uploads, dto.ObjectUpload{
			File: dto.FileUpload{ContentType: img.ContentType, Data: img.Data},
			Hint: dto.KeyHint{Prefix: imagesPrefix, Scope: creatorID.String()},
		})
	}

	now := time.Now().UTC()
	post := &entity.Post{
		ID:         uuid.New(),
		CreatorID:  creatorID,
		CategoryID: categoryID,
		Submitted:  submitted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var created bool

	_, err := uc.gateway.UploadAndPersist(ctx, uploads, func(ctx context.Context, stored []entity.StoredObject) error {
		for i, obj := range stored {
			*inline[i] = entity.ResolvedImage(obj.URL)
		}

		post.Content = content
		referenced := uc.referencedKeys(content)

		return uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			owned, err := uc.posts.DraftKeys(ctx, creatorID, categoryID)
			if err != nil {
				return fmt.Errorf("uc.posts.DraftKeys: %w", err)
			}
			post.ObjectKeys = trackedKeys(stored, owned, referenced)

			inserted, prevKeys, err := uc.posts.UpsertDraft(ctx, post)
			if err != nil {
				return fmt.Errorf("uc.posts.UpsertDraft: %w", err)
			}
			created = inserted

			dropped := slices.DeleteFunc(prevKeys, func(k string) bool {
				return slices.Contains(post.ObjectKeys, k) || slices.Contains(referenced, k)
			})

			err = uc.releases.Enqueue(ctx, dropped, entity.ReasonDraftReplaced)
			if err != nil {
				return fmt.Errorf("uc.releases.Enqueue: %w", err)
			}

			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("PostUseCase - UpsertDraft - uc.gateway.UploadAndPersist: %w", err)
	}

	return post, created, nil
}

// DeleteDraft removes the post and its remote objects. The record is deleted even when
// some objects could not be; those keys are queued for release and reported back.
func (uc *PostUseCase) DeleteDraft(ctx context.Context, id uuid.UUID) (dto.DeleteResult, error) {
	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return dto.DeleteResult{}, fmt.Errorf("PostUseCase - DeleteDraft - uc.posts.GetByID: %w", err)
	}

	res := uc.gateway.BatchDelete(ctx, post.ObjectKeys)
	if len(res.Failed) > 0 {
		uc.logger.Warn("PostUseCase - DeleteDraft: %d of %d objects not deleted for post %s", len(res.Failed), len(post.ObjectKeys), id)
	}

	var deleted int64

	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := uc.posts.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("uc.posts.Delete: %w", err)
		}
		deleted = n

		err = uc.releases.Enqueue(ctx, res.Failed, entity.ReasonDraftDeleted)
		if err != nil {
			return fmt.Errorf("uc.releases.Enqueue: %w", err)
		}

		return nil
	})
	if err != nil {
		return dto.DeleteResult{}, fmt.Errorf("PostUseCase - DeleteDraft - uc.transactor.WithinTransaction: %w", err)
	}

	return dto.DeleteResult{Deleted: deleted, FailedKeys: res.Failed}, nil
}

func (uc *PostUseCase) Get(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("PostUseCase - Get - uc.posts.GetByID: %w", err)
	}

	return post, nil
}

func (uc *PostUseCase) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entity.Post, error) {
	posts, err := uc.posts.List(ctx, dto.PostFilter{CreatorID: &creatorID})
	if err != nil {
		return nil, fmt.Errorf("PostUseCase - ListByCreator - uc.posts.List: %w", err)
	}

	return posts, nil
}

func (uc *PostUseCase) ListByFilter(ctx context.Context, filter dto.PostFilter) ([]*entity.Post, error) {
	posts, err := uc.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("PostUseCase - ListByFilter - uc.posts.List: %w", err)
	}

	return posts, nil
}

// referencedKeys returns the bucket keys behind the resolved images of content, without duplicates.
func (uc *PostUseCase) referencedKeys(content entity.PostContent) []string {
	keys := make([]string, 0)

	for _, url := range content.ResolvedURLs() {
		key, ok := uc.gateway.KeyFromURL(url)
		if !ok || slices.Contains(keys, key) {
			continue
		}
		keys = append(keys, key)
	}

	return keys
}

// trackedKeys is what the draft owns after the write: objects uploaded for it now,
// plus keys it already owned that content still references. A bucket URL alone never grants ownership.
func trackedKeys(stored []entity.StoredObject, owned, referenced []string) []string {
	keys := make([]string, 0, len(stored)+len(owned))

	for _, obj := range stored {
		keys = append(keys, obj.Key)
	}

	for _, k := range owned {
		if slices.Contains(referenced, k) && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}

	return keys
}

// detached returns content with its own node and image slices.
func detached(content entity.PostContent) entity.PostContent {
	content.Nodes = slices.Clone(content.Nodes)
	for i := range content.Nodes {
		content.Nodes[i].Data.Images = slices.Clone(content.Nodes[i].Data.Images)
	}

	return content
}

// inlineImages points at every inline image of content in node order, then image order.
func inlineImages(content *entity.PostContent) []*entity.NodeImage {
	var out []*entity.NodeImage

	for i := range content.Nodes {
		images := content.Nodes[i].Data.Images
		for j := range images {
			if images[j].IsInline() {
				out = append(out, &images[j])
			}
		}
	}

	return out
}
