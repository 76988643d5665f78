package reconcile

import "errors"

// ErrMissingAccount means the CRM reported a created contact without an
// AccountId. The CRM assigns one synchronously on create, so its absence
// means the create failed partially; the event must not be treated as a
// success.
var ErrMissingAccount = errors.New("reconcile: created contact has no account id")

type OutcomeType string

const (
	OutcomeCreated  OutcomeType = "created"
	OutcomeUpdated  OutcomeType = "updated"
	OutcomeExisting OutcomeType = "existing"
	OutcomeIgnored  OutcomeType = "ignored"
)

// Outcome is the tagged result of a reconcile operation
type Outcome struct {
	Type   OutcomeType `json:"type" bson:"type"`
	ID     string      `json:"id,omitempty" bson:"id,omitempty"`
	Reason string      `json:"reason,omitempty" bson:"reason,omitempty"`
}

// MatchHints carries the candidate identifiers used to rank CRM records
type MatchHints struct {
	PlatformContactID string
	Emails            []string
	Phone             string
	Name              string
}
