package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	common_models "go-donorsync/internal/common/models"
	"go-donorsync/internal/crm"
	"go-donorsync/internal/features/audit"
	"go-donorsync/internal/platform"

	"go.uber.org/zap"
)

// CRMClient is the slice of the CRM API the orchestrator needs
type CRMClient interface {
	QueryContacts(ctx context.Context, where string) ([]crm.Contact, error)
	GetContactByPlatformID(ctx context.Context, platformID string) (*crm.Contact, error)
	CreateContact(ctx context.Context, fields crm.Fields) (*crm.Contact, error)
	UpdateContact(ctx context.Context, id string, fields crm.Fields) error

	GetCampaignByPlatformID(ctx context.Context, platformID string) (*crm.Campaign, error)
	CreateCampaign(ctx context.Context, fields crm.Fields) (string, error)
	UpdateCampaign(ctx context.Context, id string, fields crm.Fields) error

	GetOpportunityByPlatformID(ctx context.Context, platformID string) (*crm.Opportunity, error)
	CreateOpportunity(ctx context.Context, fields crm.Fields) (string, error)
	UpdateOpportunity(ctx context.Context, id string, fields crm.Fields) error

	GetRecurringDonationByPlatformID(ctx context.Context, platformID string) (*crm.RecurringDonation, error)
	CreateRecurringDonation(ctx context.Context, fields crm.Fields) (string, error)
	UpdateRecurringDonation(ctx context.Context, id string, fields crm.Fields) error
}

// PlatformFetcher is the slice of the platform API the orchestrator needs
type PlatformFetcher interface {
	GetContact(ctx context.Context, id int64) (*platform.Contact, error)
	GetCampaign(ctx context.Context, id int64) (*platform.Campaign, error)
	GetPlan(ctx context.Context, id string) (*platform.Plan, error)
}

type ReconcileService interface {
	ReconcileContact(ctx context.Context, tx *platform.Transaction, contact *platform.Contact) (Outcome, error)
	ReconcileCampaign(ctx context.Context, campaign *platform.Campaign) (Outcome, error)
	ReconcileTransaction(ctx context.Context, tx *platform.Transaction, contact *platform.Contact) (Outcome, error)
	ReconcilePlan(ctx context.Context, plan *platform.Plan) (Outcome, error)
}

type ReconcileServiceImpl struct {
	CRM          CRMClient
	Platform     PlatformFetcher
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewReconcileService(crmClient *crm.Client, platformClient *platform.Client, auditService audit.AuditService, logger *zap.Logger) ReconcileService {
	return &ReconcileServiceImpl{
		CRM:          crmClient,
		Platform:     platformClient,
		AuditService: auditService,
		Logger:       logger,
	}
}

// ReconcileContact upserts the CRM contact for a transaction/contact pair
func (s *ReconcileServiceImpl) ReconcileContact(ctx context.Context, tx *platform.Transaction, contact *platform.Contact) (Outcome, error) {
	_, outcome, err := s.resolveContact(ctx, tx, contact)
	return outcome, err
}

// resolveContact runs the lookup → fuzzy match → create → diff-update
// sequence and returns the stored record alongside the outcome.
func (s *ReconcileServiceImpl) resolveContact(ctx context.Context, tx *platform.Transaction, contact *platform.Contact) (*crm.Contact, Outcome, error) {
	expected := SynthesizeContactFields(tx, contact)
	platformID := contactPlatformID(tx, contact)

	// Lookup by external id is authoritative; it skips fuzzy matching
	var found *crm.Contact
	if platformID != "" {
		rec, err := s.CRM.GetContactByPlatformID(ctx, platformID)
		switch {
		case err == nil:
			found = rec
		case !errors.Is(err, crm.ErrNotFound):
			return nil, Outcome{}, fmt.Errorf("contact lookup %s: %w", platformID, err)
		}
	}

	if found == nil {
		hints := buildHints(tx, contact, platformID)
		candidates, err := s.CRM.QueryContacts(ctx, contactQuery(hints))
		if err != nil {
			return nil, Outcome{}, fmt.Errorf("contact candidate query: %w", err)
		}
		if match, ok := FindBestMatch(candidates, hints); ok {
			found = match
		}
	}

	if found == nil {
		created, err := s.CRM.CreateContact(ctx, expected)
		if err != nil {
			return nil, Outcome{}, fmt.Errorf("contact create (platform id %s): %w", platformID, err)
		}
		if created.AccountID == "" {
			return nil, Outcome{}, fmt.Errorf("contact %s (platform id %s): %w", created.ID, platformID, ErrMissingAccount)
		}
		s.Logger.Info("created crm contact",
			zap.String("crm_id", created.ID),
			zap.String("platform_contact_id", platformID))
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "crm_contacts", created.ID, map[string]common_models.Change{
			"contact": {New: expected},
		})
		return created, Outcome{Type: OutcomeCreated, ID: created.ID}, nil
	}

	changes := DiffFields(found.AsFields(), expected)
	if len(changes) == 0 {
		return found, Outcome{Type: OutcomeExisting, ID: found.ID}, nil
	}

	if err := s.CRM.UpdateContact(ctx, found.ID, changes); err != nil {
		return nil, Outcome{}, fmt.Errorf("contact update %s: %w", found.ID, err)
	}
	s.Logger.Info("updated crm contact",
		zap.String("crm_id", found.ID),
		zap.String("platform_contact_id", platformID),
		zap.Int("changed_fields", len(changes)))
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "crm_contacts", found.ID, auditChanges(found.AsFields(), changes))
	return found, Outcome{Type: OutcomeUpdated, ID: found.ID}, nil
}

// ReconcileCampaign upserts the CRM mirror of a platform campaign
func (s *ReconcileServiceImpl) ReconcileCampaign(ctx context.Context, campaign *platform.Campaign) (Outcome, error) {
	expected := SynthesizeCampaignFields(campaign, time.Now().Format("2006-01-02"))
	platformID := strconv.FormatInt(campaign.ID, 10)

	found, err := s.CRM.GetCampaignByPlatformID(ctx, platformID)
	if err != nil {
		if !errors.Is(err, crm.ErrNotFound) {
			return Outcome{}, fmt.Errorf("campaign lookup %s: %w", platformID, err)
		}
		id, err := s.CRM.CreateCampaign(ctx, expected)
		if err != nil {
			return Outcome{}, fmt.Errorf("campaign create (platform id %s): %w", platformID, err)
		}
		s.Logger.Info("created crm campaign",
			zap.String("crm_id", id),
			zap.String("platform_campaign_id", platformID))
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "crm_campaigns", id, map[string]common_models.Change{
			"campaign": {New: expected},
		})
		return Outcome{Type: OutcomeCreated, ID: id}, nil
	}

	changes := DiffFields(found.AsFields(), expected)
	if len(changes) == 0 {
		return Outcome{Type: OutcomeExisting, ID: found.ID}, nil
	}

	if err := s.CRM.UpdateCampaign(ctx, found.ID, changes); err != nil {
		return Outcome{}, fmt.Errorf("campaign update %s: %w", found.ID, err)
	}
	s.Logger.Info("updated crm campaign",
		zap.String("crm_id", found.ID),
		zap.String("platform_campaign_id", platformID),
		zap.Int("changed_fields", len(changes)))
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "crm_campaigns", found.ID, auditChanges(found.AsFields(), changes))
	return Outcome{Type: OutcomeUpdated, ID: found.ID}, nil
}

// ReconcileTransaction resolves the donor contact, then the campaign, then
// upserts the opportunity. That ordering is required: the opportunity
// references both.
func (s *ReconcileServiceImpl) ReconcileTransaction(ctx context.Context, tx *platform.Transaction, contact *platform.Contact) (Outcome, error) {
	// Zero-amount transactions never reach the CRM
	if tx.Amount <= 0 {
		return Outcome{Type: OutcomeIgnored, Reason: "zero-dollar"}, nil
	}

	if contact == nil && tx.ContactID != 0 && s.Platform != nil {
		fetched, err := s.Platform.GetContact(ctx, tx.ContactID)
		if err != nil {
			s.Logger.Warn("contact re-fetch failed, reconciling from transaction only",
				zap.Int64("platform_contact_id", tx.ContactID),
				zap.Error(err))
		} else {
			contact = fetched
		}
	}

	crmContact, _, err := s.resolveContact(ctx, tx, contact)
	if err != nil {
		return Outcome{}, err
	}

	var campaignID string
	if tx.CampaignID != 0 {
		campaign, err := s.Platform.GetCampaign(ctx, tx.CampaignID)
		if err != nil {
			return Outcome{}, fmt.Errorf("campaign fetch %d: %w", tx.CampaignID, err)
		}
		outcome, err := s.ReconcileCampaign(ctx, campaign)
		if err != nil {
			return Outcome{}, err
		}
		campaignID = outcome.ID
	}

	// Recurring-plan linkage is best effort: a plan sync failure must not
	// hold the donation hostage
	var recurringID string
	if tx.PlanID != nil && *tx.PlanID != "" {
		outcome, err := s.reconcilePlanByID(ctx, *tx.PlanID, crmContact)
		if err != nil {
			s.Logger.Warn("recurring plan sync failed",
				zap.String("plan_id", *tx.PlanID),
				zap.String("transaction_id", tx.ID),
				zap.Error(err))
		} else {
			recurringID = outcome.ID
		}
	}

	expected := SynthesizeOpportunityFields(tx, crmContact.AccountID, crmContact.ID, campaignID, recurringID)

	found, err := s.CRM.GetOpportunityByPlatformID(ctx, tx.ID)
	if err != nil {
		if !errors.Is(err, crm.ErrNotFound) {
			return Outcome{}, fmt.Errorf("opportunity lookup %s: %w", tx.ID, err)
		}
		id, err := s.CRM.CreateOpportunity(ctx, expected)
		if err != nil {
			return Outcome{}, fmt.Errorf("opportunity create (transaction %s): %w", tx.ID, err)
		}
		s.Logger.Info("created crm opportunity",
			zap.String("crm_id", id),
			zap.String("transaction_id", tx.ID))
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "crm_opportunities", id, map[string]common_models.Change{
			"opportunity": {New: expected},
		})
		return Outcome{Type: OutcomeCreated, ID: id}, nil
	}

	changes := DiffFields(found.AsFields(), expected)
	if len(changes) == 0 {
		return Outcome{Type: OutcomeExisting, ID: found.ID}, nil
	}

	if err := s.CRM.UpdateOpportunity(ctx, found.ID, changes); err != nil {
		return Outcome{}, fmt.Errorf("opportunity update %s: %w", found.ID, err)
	}
	s.Logger.Info("updated crm opportunity",
		zap.String("crm_id", found.ID),
		zap.String("transaction_id", tx.ID),
		zap.Int("changed_fields", len(changes)))
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "crm_opportunities", found.ID, auditChanges(found.AsFields(), changes))
	return Outcome{Type: OutcomeUpdated, ID: found.ID}, nil
}

// ReconcilePlan upserts the recurring donation for a platform plan,
// resolving (or creating) its donor contact first.
func (s *ReconcileServiceImpl) ReconcilePlan(ctx context.Context, plan *platform.Plan) (Outcome, error) {
	hints := MatchHints{
		Phone: plan.Phone,
		Name:  planDonorLabel(plan),
	}
	if plan.Email != "" {
		hints.Emails = append(hints.Emails, plan.Email)
	}

	candidates, err := s.CRM.QueryContacts(ctx, contactQuery(hints))
	if err != nil {
		return Outcome{}, fmt.Errorf("plan contact query: %w", err)
	}

	donor, ok := FindBestMatch(candidates, hints)
	if !ok {
		created, err := s.CRM.CreateContact(ctx, planContactFields(plan))
		if err != nil {
			return Outcome{}, fmt.Errorf("plan contact create: %w", err)
		}
		if created.AccountID == "" {
			return Outcome{}, fmt.Errorf("contact %s (plan %s): %w", created.ID, plan.ID, ErrMissingAccount)
		}
		donor = created
	}

	return s.upsertRecurringDonation(ctx, plan, donor)
}

// reconcilePlanByID fetches a plan and upserts its recurring donation,
// reusing the already-resolved donor contact.
func (s *ReconcileServiceImpl) reconcilePlanByID(ctx context.Context, planID string, donor *crm.Contact) (Outcome, error) {
	plan, err := s.Platform.GetPlan(ctx, planID)
	if err != nil {
		return Outcome{}, fmt.Errorf("plan fetch %s: %w", planID, err)
	}
	return s.upsertRecurringDonation(ctx, plan, donor)
}

func (s *ReconcileServiceImpl) upsertRecurringDonation(ctx context.Context, plan *platform.Plan, donor *crm.Contact) (Outcome, error) {
	expected := SynthesizeRecurringDonationFields(plan, donor.ID, donor.AccountID)

	found, err := s.CRM.GetRecurringDonationByPlatformID(ctx, plan.ID)
	if err != nil {
		if !errors.Is(err, crm.ErrNotFound) {
			return Outcome{}, fmt.Errorf("recurring donation lookup %s: %w", plan.ID, err)
		}
		id, err := s.CRM.CreateRecurringDonation(ctx, expected)
		if err != nil {
			return Outcome{}, fmt.Errorf("recurring donation create (plan %s): %w", plan.ID, err)
		}
		s.Logger.Info("created crm recurring donation",
			zap.String("crm_id", id),
			zap.String("plan_id", plan.ID))
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "crm_recurring_donations", id, map[string]common_models.Change{
			"recurring_donation": {New: expected},
		})
		return Outcome{Type: OutcomeCreated, ID: id}, nil
	}

	changes := DiffFields(found.AsFields(), expected)
	if len(changes) == 0 {
		return Outcome{Type: OutcomeExisting, ID: found.ID}, nil
	}

	if err := s.CRM.UpdateRecurringDonation(ctx, found.ID, changes); err != nil {
		return Outcome{}, fmt.Errorf("recurring donation update %s: %w", found.ID, err)
	}
	s.Logger.Info("updated crm recurring donation",
		zap.String("crm_id", found.ID),
		zap.String("plan_id", plan.ID),
		zap.Int("changed_fields", len(changes)))
	return Outcome{Type: OutcomeUpdated, ID: found.ID}, nil
}

func contactPlatformID(tx *platform.Transaction, contact *platform.Contact) string {
	if contact != nil && contact.ID != 0 {
		return strconv.FormatInt(contact.ID, 10)
	}
	if tx != nil && tx.ContactID != 0 {
		return strconv.FormatInt(tx.ContactID, 10)
	}
	return ""
}

// buildHints collects every identifier worth matching on: the transaction
// email plus all known platform contact emails, a phone, and a display name.
func buildHints(tx *platform.Transaction, contact *platform.Contact, platformID string) MatchHints {
	hints := MatchHints{PlatformContactID: platformID}

	if tx != nil && tx.Email != "" {
		hints.Emails = append(hints.Emails, tx.Email)
	}
	if contact != nil {
		for _, e := range contact.Emails {
			if e.Value != "" {
				hints.Emails = append(hints.Emails, e.Value)
			}
		}
	}

	hints.Phone = contactPhone(tx, contact)
	if tx != nil {
		hints.Name = donorLabel(tx)
	}
	return hints
}

// contactQuery builds the single fuzzy candidate query; ranking happens
// client-side in FindBestMatch.
func contactQuery(hints MatchHints) string {
	clauses := []string{}
	if hints.PlatformContactID != "" {
		clauses = append(clauses, crm.Eq("PlatformContactId", hints.PlatformContactID))
	}
	if len(hints.Emails) > 0 {
		clauses = append(clauses,
			crm.In("Email", hints.Emails),
			crm.In("PersonalEmail", hints.Emails),
			crm.In("WorkEmail", hints.Emails))
	}
	if hints.Phone != "" {
		clauses = append(clauses, crm.Eq("Phone", hints.Phone))
	}
	if hints.Name != "" && hints.Name != anonymousDonor {
		clauses = append(clauses, crm.Like("Name", hints.Name))
	}
	return crm.Or(clauses...)
}

// planContactFields is the minimal contact payload a plan can establish
func planContactFields(plan *platform.Plan) crm.Fields {
	fields := crm.Fields{"IsDonor": true}

	if plan.FirstName != "" && plan.LastName != "" {
		fields["FirstName"] = plan.FirstName
		fields["LastName"] = plan.LastName
	} else {
		parsed := ParseHumanName(planDonorLabel(plan))
		if parsed.Last == "" {
			fields["LastName"] = planDonorLabel(plan)
		} else {
			fields["FirstName"] = parsed.First
			fields["LastName"] = parsed.Last
		}
	}
	if plan.Email != "" {
		fields["Email"] = plan.Email
	}
	if plan.Phone != "" {
		fields["Phone"] = plan.Phone
	}
	return fields
}

func auditChanges(current, changed crm.Fields) map[string]common_models.Change {
	out := make(map[string]common_models.Change, len(changed))
	for k, v := range changed {
		out[k] = common_models.Change{Old: current[k], New: v}
	}
	return out
}
