package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
)

const iconsPrefix = "categoryicons"

type CategoryUseCase struct {
	categories repo.CategoryRepo
	gateway    usecase.ObjectGateway
	processor  infrastructure.ImageProcessor

	logger logger.Interface
}

func New(
	categories repo.CategoryRepo,
	gateway usecase.ObjectGateway,
	processor infrastructure.ImageProcessor,
	l logger.Interface,
) *CategoryUseCase {
	return &CategoryUseCase{
		categories: categories,
		gateway:    gateway,
		processor:  processor,
		logger:     l,
	}
}

// Create shrinks icon to a square thumbnail, uploads it and stores the category.
func (uc *CategoryUseCase) Create(ctx context.Context, name string, icon dto.FileUpload) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("CategoryUseCase - Create: name is required: %w", errs.ErrValidation)
	}
	if len(icon.Data) == 0 {
		return nil, fmt.Errorf("CategoryUseCase - Create: icon is required: %w", errs.ErrValidation)
	}

	thumb, err := uc.processor.Thumbnail(ctx, icon.ContentType, icon.Data)
	if err != nil {
		return nil, fmt.Errorf("CategoryUseCase - Create - uc.processor.Thumbnail: %w", err)
	}

	category := &entity.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	upload := dto.ObjectUpload{
		File: dto.FileUpload{Name: icon.Name, ContentType: icon.ContentType, Data: thumb},
		Hint: dto.KeyHint{Prefix: iconsPrefix, Scope: category.ID.String()},
	}

	_, err = uc.gateway.UploadAndPersist(ctx, []dto.ObjectUpload{upload}, func(ctx context.Context, stored []entity.StoredObject) error {
		category.Icon = stored[0].URL
		category.IconKey = stored[0].Key

		return uc.categories.Create(ctx, category)
	})
	if err != nil {
		return nil, fmt.Errorf("CategoryUseCase - Create - uc.gateway.UploadAndPersist: %w", err)
	}

	return category, nil
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]*entity.Category, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("CategoryUseCase - List - uc.categories.List: %w", err)
	}

	return categories, nil
}
