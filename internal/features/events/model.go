package events

import (
	"time"

	"go-donorsync/internal/features/reconcile"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

// Per-event state machine: received → validated → processed, or parse_error
// when an authenticated payload fails schema validation. Failed processing
// keeps the raw payload for replay.
const (
	StatusReceived   EventStatus = "received"
	StatusValidated  EventStatus = "validated"
	StatusProcessed  EventStatus = "processed"
	StatusParseError EventStatus = "parse_error"
	StatusFailed     EventStatus = "failed"
)

type EventSource string

const (
	SourcePlatform EventSource = "platform"
	SourcePayments EventSource = "payments"
)

// EventRecord is the persisted raw event plus its processing outcome,
// upserted by composite key for audit and replay.
type EventRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Key         string             `json:"key" bson:"key"` // source:event_type:external_id
	Source      EventSource        `json:"source" bson:"source"`
	EventType   string             `json:"event_type" bson:"event_type"`
	ExternalID  string             `json:"external_id" bson:"external_id"`
	RawPayload  string             `json:"raw_payload" bson:"raw_payload"`
	Status      EventStatus        `json:"status" bson:"status"`
	Outcome     *reconcile.Outcome `json:"outcome,omitempty" bson:"outcome,omitempty"`
	Error       string             `json:"error,omitempty" bson:"error,omitempty"`
	ReceivedAt  time.Time          `json:"received_at" bson:"received_at"`
	ProcessedAt time.Time          `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}
