package objectgateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
)

type ObjectGatewayUseCase struct {
	storage  repo.ObjectStorage
	releases usecase.ReleaseEnqueuer

	logger logger.Interface
	now    func() time.Time
}

func New(storage repo.ObjectStorage, releases usecase.ReleaseEnqueuer, l logger.Interface) *ObjectGatewayUseCase {
	return &ObjectGatewayUseCase{
		storage:  storage,
		releases: releases,
		logger:   l,
		now:      time.Now,
	}
}

// Upload pushes file under a fresh key derived from hint. One attempt, no retry.
func (uc *ObjectGatewayUseCase) Upload(ctx context.Context, file dto.FileUpload, hint dto.KeyHint) (entity.StoredObject, error) {
	if len(file.Data) == 0 {
		return entity.StoredObject{}, fmt.Errorf("ObjectGatewayUseCase - Upload: empty payload: %w", errs.ErrValidation)
	}

	if hint.FileName == "" {
		hint.FileName = file.Name
	}

	key, err := buildKey(hint, file.ContentType, uc.now())
	if err != nil {
		return entity.StoredObject{}, fmt.Errorf("ObjectGatewayUseCase - Upload - buildKey: %w", err)
	}

	url, err := uc.storage.Upload(ctx, key, file.Data, file.ContentType)
	if err != nil {
		return entity.StoredObject{}, fmt.Errorf("ObjectGatewayUseCase - Upload - uc.storage.Upload: %w", err)
	}

	return entity.StoredObject{
		Key:         key,
		URL:         url,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
	}, nil
}

func (uc *ObjectGatewayUseCase) BatchDelete(ctx context.Context, keys []string) dto.BatchDeleteResult {
	if len(keys) == 0 {
		return dto.BatchDeleteResult{}
	}

	return uc.storage.DeleteBatch(ctx, keys)
}

func (uc *ObjectGatewayUseCase) KeyFromURL(url string) (string, bool) {
	return uc.storage.KeyFromURL(url)
}

// UploadAndPersist uploads every object in order, then calls persist with the results.
// When an upload or persist fails, the objects uploaded so far are deleted again and
// keys that cannot be deleted are queued for release.
func (uc *ObjectGatewayUseCase) UploadAndPersist(
	ctx context.Context,
	uploads []dto.ObjectUpload,
	persist usecase.PersistFunc,
) ([]entity.StoredObject, error) {
	stored := make([]entity.StoredObject, 0, len(uploads))

	for _, u := range uploads {
		obj, err := uc.Upload(ctx, u.File, u.Hint)
		if err != nil {
			uc.compensate(ctx, stored)
			return nil, fmt.Errorf("ObjectGatewayUseCase - UploadAndPersist - uc.Upload: %w", err)
		}
		stored = append(stored, obj)
	}

	err := persist(ctx, stored)
	if err != nil {
		uc.compensate(ctx, stored)
		return nil, fmt.Errorf("ObjectGatewayUseCase - UploadAndPersist - persist: %w", err)
	}

	return stored, nil
}

func (uc *ObjectGatewayUseCase) compensate(ctx context.Context, stored []entity.StoredObject) {
	if len(stored) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)

	keys := make([]string, 0, len(stored))
	for _, obj := range stored {
		keys = append(keys, obj.Key)
	}

	res := uc.storage.DeleteBatch(ctx, keys)
	if len(res.Failed) == 0 {
		return
	}

	uc.logger.Warn("compensating delete failed for %d objects, queueing release", len(res.Failed))

	err := uc.releases.Enqueue(ctx, res.Failed, entity.ReasonCompensation)
	if err != nil {
		uc.logger.Error(errors.Join(err, fmt.Errorf("orphaned keys: %v", res.Failed)), "ObjectGatewayUseCase - compensate - uc.releases.Enqueue")
	}
}
