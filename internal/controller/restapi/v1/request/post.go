package request

import (
	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/google/uuid"
)

type CreatePost struct {
	CreatorID  string             `json:"creatorId" validate:"required,uuid"`
	CategoryID string             `json:"categoryId" validate:"required,uuid"`
	Data       entity.PostContent `json:"data"`
	Submitted  bool               `json:"submitted"`
}

type PostFilter struct {
	CreatorID  string `json:"creatorId" validate:"omitempty,uuid"`
	CategoryID string `json:"categoryId" validate:"omitempty,uuid"`
	Submitted  *bool  `json:"submitted"`
}

// Filter assumes the ids already passed validation.
func (f PostFilter) Filter() dto.PostFilter {
	out := dto.PostFilter{Submitted: f.Submitted}

	if f.CreatorID != "" {
		id := uuid.MustParse(f.CreatorID)
		out.CreatorID = &id
	}
	if f.CategoryID != "" {
		id := uuid.MustParse(f.CategoryID)
		out.CategoryID = &id
	}

	return out
}

type DeletePost struct {
	PostID string `json:"postId" validate:"required,uuid"`
}
