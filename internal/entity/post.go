package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post is a node-graph document authored by a business owner for a category.
// While Submitted is false the post is the (single) draft of its creator and category.
type Post struct {
	ID         uuid.UUID   `json:"_id"`
	CreatorID  uuid.UUID   `json:"creatorId"`
	CategoryID uuid.UUID   `json:"categoryId"`
	Submitted  bool        `json:"submitted"`
	Content    PostContent `json:"data"`

	ObjectKeys []string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
