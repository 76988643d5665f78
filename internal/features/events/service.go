package events

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	common_models "go-donorsync/internal/common/models"
	"go-donorsync/internal/features/audit"
	"go-donorsync/internal/features/reconcile"
	"go-donorsync/internal/platform"

	"go.uber.org/zap"
)

// PlatformClient is the slice of the platform API dispatch needs for
// cascade fetches
type PlatformClient interface {
	GetTransaction(ctx context.Context, id string) (*platform.Transaction, error)
}

// EventMirror copies processed events to an external reporting store
type EventMirror interface {
	MirrorEvent(ctx context.Context, record *EventRecord)
}

type EventService interface {
	Dispatch(ctx context.Context, source EventSource, eventType string, raw []byte) (*EventRecord, error)
	Replay(ctx context.Context, id string) (*EventRecord, error)
	ListEvents(ctx context.Context, filters map[string]interface{}, limit int64) ([]EventRecord, error)
}

type EventServiceImpl struct {
	Repo         EventRepository
	Reconciler   reconcile.ReconcileService
	Platform     PlatformClient
	AuditService audit.AuditService
	Mirror       EventMirror
	Logger       *zap.Logger
}

func NewEventService(repo EventRepository, reconciler reconcile.ReconcileService, platformClient *platform.Client, auditService audit.AuditService, mirror EventMirror, logger *zap.Logger) EventService {
	return &EventServiceImpl{
		Repo:         repo,
		Reconciler:   reconciler,
		Platform:     platformClient,
		AuditService: auditService,
		Mirror:       mirror,
		Logger:       logger,
	}
}

// platformEnvelope is the platform webhook body
type platformEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// paymentEnvelope is the payment processor webhook body. Donation charges
// carry the platform transaction id in their metadata.
type paymentEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// Dispatch routes an authenticated webhook payload to the right reconcile
// operation. The raw payload and the outcome are persisted regardless of
// processing success; only the persistence itself can fail the receipt.
func (s *EventServiceImpl) Dispatch(ctx context.Context, source EventSource, eventType string, raw []byte) (*EventRecord, error) {
	record := &EventRecord{
		Source:     source,
		EventType:  eventType,
		RawPayload: string(raw),
		Status:     StatusReceived,
		ReceivedAt: time.Now(),
	}

	externalID, outcome, err := s.process(ctx, source, eventType, raw, record)
	record.ExternalID = externalID
	record.Key = eventKey(source, record.EventType, externalID, raw)

	if err != nil && record.Status != StatusParseError {
		record.Status = StatusFailed
		record.Error = err.Error()
	}
	if record.Status == StatusValidated {
		record.Status = StatusProcessed
		record.Outcome = &outcome
		record.ProcessedAt = time.Now()
	}

	if upsertErr := s.Repo.Upsert(ctx, record); upsertErr != nil {
		s.Logger.Error("failed to persist webhook event",
			zap.String("event_key", record.Key),
			zap.String("source", string(source)),
			zap.Error(upsertErr))
		if err == nil {
			err = upsertErr
		}
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionWebhook, "webhook_events", record.Key, map[string]common_models.Change{
		"status": {New: record.Status},
	})

	if s.Mirror != nil {
		s.Mirror.MirrorEvent(ctx, record)
	}

	if record.Status == StatusParseError {
		// Schema failures are acknowledged, kept for manual reprocessing
		return record, nil
	}
	return record, err
}

// process validates the payload and runs the reconcile operation. It
// mutates the record's status along the state machine.
func (s *EventServiceImpl) process(ctx context.Context, source EventSource, eventType string, raw []byte, record *EventRecord) (string, reconcile.Outcome, error) {
	if source == SourcePayments {
		return s.processPayment(ctx, raw, record)
	}

	var envelope platformEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		record.Status = StatusParseError
		record.Error = err.Error()
		return "", reconcile.Outcome{}, err
	}
	if envelope.Event != "" {
		record.EventType = envelope.Event
		eventType = envelope.Event
	}

	switch eventCategory(eventType) {
	case "transaction":
		var tx platform.Transaction
		if err := json.Unmarshal(envelope.Data, &tx); err != nil || tx.ID == "" {
			return markParseError(record, err)
		}
		record.Status = StatusValidated
		outcome, err := s.Reconciler.ReconcileTransaction(ctx, &tx, nil)
		return tx.ID, outcome, err

	case "contact":
		var contact platform.Contact
		if err := json.Unmarshal(envelope.Data, &contact); err != nil || contact.ID == 0 {
			return markParseError(record, err)
		}
		record.Status = StatusValidated
		outcome, err := s.Reconciler.ReconcileContact(ctx, nil, &contact)
		return strconv.FormatInt(contact.ID, 10), outcome, err

	case "campaign":
		var campaign platform.Campaign
		if err := json.Unmarshal(envelope.Data, &campaign); err != nil || campaign.ID == 0 {
			return markParseError(record, err)
		}
		record.Status = StatusValidated
		outcome, err := s.Reconciler.ReconcileCampaign(ctx, &campaign)
		return strconv.FormatInt(campaign.ID, 10), outcome, err

	case "plan":
		var plan platform.Plan
		if err := json.Unmarshal(envelope.Data, &plan); err != nil || plan.ID == "" {
			return markParseError(record, err)
		}
		record.Status = StatusValidated
		outcome, err := s.Reconciler.ReconcilePlan(ctx, &plan)
		return plan.ID, outcome, err

	case "ticket":
		var ticket platform.Ticket
		if err := json.Unmarshal(envelope.Data, &ticket); err != nil || ticket.ID == "" {
			return markParseError(record, err)
		}
		record.Status = StatusValidated
		outcome, err := s.resyncTransaction(ctx, ticket.TransactionID)
		return ticket.ID, outcome, err

	default:
		record.Status = StatusValidated
		return "", reconcile.Outcome{Type: reconcile.OutcomeIgnored, Reason: "unhandled-event-type"}, nil
	}
}

func (s *EventServiceImpl) processPayment(ctx context.Context, raw []byte, record *EventRecord) (string, reconcile.Outcome, error) {
	var envelope paymentEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.ID == "" {
		return markParseError(record, err)
	}
	if envelope.Type != "" {
		record.EventType = envelope.Type
	}
	record.Status = StatusValidated

	txID := envelope.Data.Object.Metadata["transaction_id"]
	if txID == "" {
		return envelope.ID, reconcile.Outcome{Type: reconcile.OutcomeIgnored, Reason: "no-transaction-ref"}, nil
	}

	outcome, err := s.resyncTransaction(ctx, txID)
	return envelope.ID, outcome, err
}

// resyncTransaction re-fetches a platform transaction and reconciles it
func (s *EventServiceImpl) resyncTransaction(ctx context.Context, txID string) (reconcile.Outcome, error) {
	tx, err := s.Platform.GetTransaction(ctx, txID)
	if err != nil {
		return reconcile.Outcome{}, fmt.Errorf("transaction fetch %s: %w", txID, err)
	}
	return s.Reconciler.ReconcileTransaction(ctx, tx, nil)
}

// Replay re-dispatches a stored raw payload. Reconciliation is idempotent,
// so replaying a processed event is a no-op write.
func (s *EventServiceImpl) Replay(ctx context.Context, id string) (*EventRecord, error) {
	stored, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionReplay, "webhook_events", stored.Key, map[string]common_models.Change{
		"status": {Old: stored.Status},
	})

	return s.Dispatch(ctx, stored.Source, stored.EventType, []byte(stored.RawPayload))
}

func (s *EventServiceImpl) ListEvents(ctx context.Context, filters map[string]interface{}, limit int64) ([]EventRecord, error) {
	return s.Repo.List(ctx, filters, limit)
}

func markParseError(record *EventRecord, err error) (string, reconcile.Outcome, error) {
	if err == nil {
		err = fmt.Errorf("payload missing required identifier")
	}
	record.Status = StatusParseError
	record.Error = err.Error()
	return "", reconcile.Outcome{}, err
}

// eventCategory maps "transaction.succeeded" style types to their entity
func eventCategory(eventType string) string {
	for _, category := range []string{"transaction", "contact", "campaign", "plan", "ticket"} {
		if eventType == category || len(eventType) > len(category) && eventType[:len(category)+1] == category+"." {
			return category
		}
	}
	return ""
}

// eventKey builds the composite persistence key. Events that failed to
// parse get a payload-hash suffix so they still land on a stable key.
func eventKey(source EventSource, eventType, externalID string, raw []byte) string {
	if externalID == "" {
		sum := sha256.Sum256(raw)
		externalID = fmt.Sprintf("%x", sum[:8])
	}
	return fmt.Sprintf("%s:%s:%s", source, eventType, externalID)
}
