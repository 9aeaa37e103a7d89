package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReleaseStatus string

const (
	Pending    ReleaseStatus = "pending"
	Processing ReleaseStatus = "processing"
	Processed  ReleaseStatus = "processed"
	Failed     ReleaseStatus = "failed"
)

// SettledStatuses are the states the relay never picks up again.
func SettledStatuses() []ReleaseStatus {
	return []ReleaseStatus{Processed, Failed}
}

func (s ReleaseStatus) Settled() bool {
	return s == Processed || s == Failed
}

type ReleaseReason string

const (
	ReasonDraftDeleted           ReleaseReason = "draft_deleted"
	ReasonDraftReplaced          ReleaseReason = "draft_replaced"
	ReasonCompensation           ReleaseReason = "compensation"
	ReasonProfilePictureReplaced ReleaseReason = "profile_picture_replaced"
)

// ReleaseEvent asks for a remote object to be deleted once the owning record change is committed.
type ReleaseEvent struct {
	ID          uuid.UUID     `json:"id"`
	ObjectKey   string        `json:"object_key"`
	Reason      ReleaseReason `json:"reason"`
	Payload     []byte        `json:"payload"`
	Status      ReleaseStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	RetryCount  int           `json:"retry_count"`
}
