package dto

import "github.com/google/uuid"

type PostFilter struct {
	CreatorID  *uuid.UUID
	CategoryID *uuid.UUID
	Submitted  *bool
}

type DeleteResult struct {
	Deleted    int64
	FailedKeys []string
}
