// Package repotest provides in-memory implementations of the repo contracts for tests.
package repotest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
)

const BaseURL = "https://lsc.test"

type Object struct {
	Data        []byte
	ContentType string
}

// Storage is an object store in memory. Uploads fail once FailUploadAfter uploads went through
// (negative never fails); deletes fail for keys in FailDelete.
type Storage struct {
	mu sync.Mutex

	Objects map[string]Object
	Deleted []string

	FailUploadAfter int
	FailDelete      map[string]bool
	uploads         int
}

func NewStorage() *Storage {
	return &Storage{
		Objects:         make(map[string]Object),
		FailDelete:      make(map[string]bool),
		FailUploadAfter: -1,
	}
}

func (s *Storage) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUploadAfter >= 0 && s.uploads >= s.FailUploadAfter {
		return "", fmt.Errorf("Storage - Upload: %w", errs.ErrStorageUnavailable)
	}
	s.uploads++

	s.Objects[key] = Object{Data: data, ContentType: contentType}

	return s.URL(key), nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDelete[key] {
		return fmt.Errorf("Storage - Delete: %w", errs.ErrStorageUnavailable)
	}

	delete(s.Objects, key)
	s.Deleted = append(s.Deleted, key)

	return nil
}

func (s *Storage) DeleteBatch(ctx context.Context, keys []string) dto.BatchDeleteResult {
	var res dto.BatchDeleteResult

	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			res.Failed = append(res.Failed, k)
			continue
		}
		res.Deleted = append(res.Deleted, k)
	}

	return res
}

func (s *Storage) URL(key string) string {
	return BaseURL + "/" + key
}

func (s *Storage) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, BaseURL+"/")
	return key, ok && key != ""
}

func (s *Storage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.Objects[key]
	return ok
}

func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.Objects)
}
