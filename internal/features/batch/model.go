package batch

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceResult summarizes one resource type's pass within a run
type ResourceResult struct {
	Processed int    `json:"processed" bson:"processed"`
	Failed    int    `json:"failed" bson:"failed"`
	Error     string `json:"error,omitempty" bson:"error,omitempty"`
}

// SyncRun is the persisted log of one full backfill
type SyncRun struct {
	ID        primitive.ObjectID        `json:"id" bson:"_id,omitempty"`
	StartTime time.Time                 `json:"start_time" bson:"start_time"`
	EndTime   time.Time                 `json:"end_time" bson:"end_time"`
	Status    string                    `json:"status" bson:"status"` // "in_progress", "success", "failed"
	Trigger   string                    `json:"trigger" bson:"trigger"`
	Resources map[string]ResourceResult `json:"resources" bson:"resources"`
}
