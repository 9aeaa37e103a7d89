package objectrelease

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/google/uuid"
)

// Payload is the body of a release message.
type Payload struct {
	Key    string               `json:"key"`
	Reason entity.ReleaseReason `json:"reason"`
}

func newReleaseEvent(key string, reason entity.ReleaseReason, now time.Time) (*entity.ReleaseEvent, error) {
	b, err := json.Marshal(Payload{Key: key, Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("ObjectReleaseUseCase - newReleaseEvent - json.Marshal: %w", err)
	}

	return &entity.ReleaseEvent{
		ID:         uuid.New(),
		ObjectKey:  key,
		Reason:     reason,
		Payload:    b,
		Status:     entity.Pending,
		CreatedAt:  now,
		RetryCount: 0,
	}, nil
}

func eventIDs(events []*entity.ReleaseEvent) uuid.UUIDs {
	ids := make(uuid.UUIDs, 0, len(events))

	for _, event := range events {
		ids = append(ids, event.ID)
	}

	return ids
}
