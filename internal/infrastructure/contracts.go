package infrastructure

import (
	"context"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
)

type (
	EventsSender interface {
		SendEvents(ctx context.Context, events []*entity.ReleaseEvent) error
		Close() error
	}

	TokenIssuer interface {
		Issue(claims dto.Claims, now time.Time) (string, error)
		Parse(token string) (dto.Claims, error)
	}

	PasswordHasher interface {
		Hash(password string) (string, error)
		Compare(hash, password string) error
	}

	ImageProcessor interface {
		Thumbnail(ctx context.Context, contentType string, data []byte) ([]byte, error)
	}
)
