package entity

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID      uuid.UUID `json:"_id"`
	Name    string    `json:"name"`
	Icon    string    `json:"icon"`
	IconKey string    `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
