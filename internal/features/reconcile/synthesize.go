package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"go-donorsync/internal/crm"
	"go-donorsync/internal/platform"
)

// anonymousDonor is the last-resort display name when a transaction carries
// no name and no email
const anonymousDonor = "Anonymous Donor"

// SynthesizeContactFields derives the expected CRM contact fields from a
// transaction and its (optionally re-fetched) platform contact. Fields are
// only included when there is a concrete value to write, so an update never
// clobbers unrelated existing values.
func SynthesizeContactFields(tx *platform.Transaction, contact *platform.Contact) crm.Fields {
	fields := crm.Fields{}

	if contact != nil {
		fields["PlatformContactId"] = strconv.FormatInt(contact.ID, 10)
	} else if tx != nil && tx.ContactID != 0 {
		fields["PlatformContactId"] = strconv.FormatInt(tx.ContactID, 10)
	}

	synthesizeName(fields, tx, contact)
	synthesizeEmails(fields, tx, contact)
	synthesizeOptOut(fields, contact)
	synthesizeAddress(fields, tx, contact)

	if phone := contactPhone(tx, contact); phone != "" {
		fields["Phone"] = phone
	}

	if tx != nil {
		fields["IsDonor"] = true
	}

	return fields
}

func synthesizeName(fields crm.Fields, tx *platform.Transaction, contact *platform.Contact) {
	if tx != nil && tx.FirstName != "" && tx.LastName != "" {
		fields["FirstName"] = tx.FirstName
		fields["LastName"] = tx.LastName
		return
	}
	if contact != nil && contact.FirstName != "" && contact.LastName != "" {
		fields["FirstName"] = contact.FirstName
		fields["LastName"] = contact.LastName
		if contact.MiddleName != "" {
			fields["MiddleName"] = contact.MiddleName
		}
		if contact.Suffix != "" {
			fields["Suffix"] = contact.Suffix
		}
		return
	}

	display := DisplayName(tx)
	if display == anonymousDonor {
		// The fallback sentinel is not a real name to split
		fields["LastName"] = anonymousDonor
		return
	}
	parsed := ParseHumanName(display)

	if parsed.Last == "" {
		// CRM requires a non-null last name
		fields["LastName"] = strings.TrimSpace(display)
		return
	}

	fields["FirstName"] = parsed.First
	fields["LastName"] = parsed.Last
	if parsed.Middle != "" {
		fields["MiddleName"] = parsed.Middle
	}
	if parsed.Suffix != "" {
		fields["Suffix"] = parsed.Suffix
	}
}

// DisplayName resolves the free-text name for a donor: the giving-space
// name, then the local part of the transaction email, then "Anonymous Donor".
func DisplayName(tx *platform.Transaction) string {
	if tx != nil && tx.GivingSpace != nil {
		name := strings.TrimSpace(tx.GivingSpace.Name)
		if name != "" && !strings.EqualFold(name, "anonymous") {
			return name
		}
	}
	if tx != nil && tx.Email != "" {
		if local, _, found := strings.Cut(tx.Email, "@"); found && local != "" {
			return local
		}
	}
	return anonymousDonor
}

func synthesizeEmails(fields crm.Fields, tx *platform.Transaction, contact *platform.Contact) {
	if tx != nil && tx.Email != "" {
		fields["Email"] = tx.Email
	}
	if contact == nil {
		return
	}
	for _, e := range contact.Emails {
		if e.Value == "" {
			continue
		}
		switch e.Type {
		case "personal":
			fields["PersonalEmail"] = e.Value
		case "work":
			fields["WorkEmail"] = e.Value
		}
	}
	if _, ok := fields["Email"]; !ok && contact.PrimaryEmail != nil && *contact.PrimaryEmail != "" {
		fields["Email"] = *contact.PrimaryEmail
	}
}

// synthesizeOptOut writes subscription flags. Absent is not false: when the
// contact is subscribed the opt-out flags are omitted entirely, and when it
// is not, the promotional-consent flag is omitted.
func synthesizeOptOut(fields crm.Fields, contact *platform.Contact) {
	if contact == nil {
		return
	}
	if !contact.IsEmailSubscribed {
		fields["HasOptedOutOfEmail"] = true
		fields["DoNotCall"] = true
		return
	}
	fields["PromotionalConsent"] = true
}

func synthesizeAddress(fields crm.Fields, tx *platform.Transaction, contact *platform.Contact) {
	line1, line2, city, state, zip, country := addressParts(tx, contact)

	if street := JoinStreet(line1, line2); street != "" {
		fields["MailingStreet"] = street
	}
	if city != "" {
		fields["MailingCity"] = city
	}
	if zip != "" {
		fields["MailingPostalCode"] = zip
	}
	if state != "" {
		if full, ok := ExpandState(state); ok {
			fields["MailingState"] = full
		}
		// unresolvable state codes are omitted
	}
	if country != "" {
		if code, ok := TwoLetterCountryCode(country); ok {
			fields["MailingCountry"] = code
		} else {
			// unresolvable countries become null, never passed through
			fields["MailingCountry"] = nil
		}
	}
}

func addressParts(tx *platform.Transaction, contact *platform.Contact) (line1, line2, city, state, zip, country string) {
	if tx != nil && (tx.AddressLine1 != "" || tx.City != "") {
		return tx.AddressLine1, tx.AddressLine2, tx.City, tx.State, tx.Zip, tx.Country
	}
	if contact != nil {
		return contact.AddressLine1, contact.AddressLine2, contact.City, contact.State, contact.Zip, contact.Country
	}
	return
}

// JoinStreet joins address lines with a newline, dropping blanks
func JoinStreet(lines ...string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func contactPhone(tx *platform.Transaction, contact *platform.Contact) string {
	if tx != nil && tx.Phone != "" {
		return tx.Phone
	}
	if contact != nil && contact.PrimaryPhone != nil {
		return *contact.PrimaryPhone
	}
	return ""
}

// SynthesizeCampaignFields derives CRM campaign fields. The platform reports
// goal/raised in cents; this is the unit-conversion boundary, so the CRM
// payload carries dollars. Status derivation compares zero-padded ISO dates
// lexically against today.
func SynthesizeCampaignFields(c *platform.Campaign, today string) crm.Fields {
	fields := crm.Fields{
		"PlatformCampaignId": strconv.FormatInt(c.ID, 10),
		"Name":               c.Title,
		"Type":               c.Type,
		"Status":             CampaignStatus(c.StartDate, c.EndDate, today),
		"AmountRaised":       float64(c.Raised) / 100,
		"IsActive":           c.Status == "active",
	}
	if c.Description != nil && *c.Description != "" {
		fields["Description"] = *c.Description
	}
	if c.Goal != nil {
		fields["ExpectedRevenue"] = float64(*c.Goal) / 100
	}
	if c.StartDate != nil && *c.StartDate != "" {
		fields["StartDate"] = *c.StartDate
	}
	if c.EndDate != nil && *c.EndDate != "" {
		fields["EndDate"] = *c.EndDate
	}
	return fields
}

// CampaignStatus recomputes the campaign status from its dates relative to
// today: Planned before the start date, Completed past the end date, In
// Progress otherwise.
func CampaignStatus(startDate, endDate *string, today string) string {
	if startDate != nil && *startDate != "" && *startDate > today {
		return "Planned"
	}
	if endDate != nil && *endDate != "" && *endDate < today {
		return "Completed"
	}
	return "In Progress"
}

// SynthesizeOpportunityFields derives the CRM donation record for a
// transaction. Amounts stay in major units.
func SynthesizeOpportunityFields(tx *platform.Transaction, accountID, contactID, campaignID, recurringID string) crm.Fields {
	fields := crm.Fields{
		"PlatformTransactionId": tx.ID,
		"Name":                  fmt.Sprintf("%s Donation %s", donorLabel(tx), tx.ID),
		"Amount":                tx.Amount,
		"ProcessingFee":         tx.Fee,
		"StageName":             stageForStatus(tx.Status),
		"CloseDate":             closeDate(tx.CreatedAt),
	}
	if tx.PaymentMethod != "" {
		fields["PaymentMethod"] = tx.PaymentMethod
	}
	if accountID != "" {
		fields["AccountId"] = accountID
	}
	if contactID != "" {
		fields["ContactId"] = contactID
	}
	if campaignID != "" {
		fields["CampaignId"] = campaignID
	}
	if recurringID != "" {
		fields["RecurringDonationId"] = recurringID
	}
	return fields
}

func donorLabel(tx *platform.Transaction) string {
	if tx.FirstName != "" && tx.LastName != "" {
		return tx.FirstName + " " + tx.LastName
	}
	return DisplayName(tx)
}

func stageForStatus(status string) string {
	switch status {
	case "succeeded":
		return "Closed Won"
	case "authorized":
		return "Pledged"
	default: // failed, cancelled
		return "Closed Lost"
	}
}

// closeDate trims a platform timestamp to its date part
func closeDate(createdAt string) string {
	if len(createdAt) >= 10 {
		return createdAt[:10]
	}
	return createdAt
}

// SynthesizeRecurringDonationFields derives the CRM recurring donation for a
// platform plan.
func SynthesizeRecurringDonationFields(plan *platform.Plan, contactID, accountID string) crm.Fields {
	fields := crm.Fields{
		"PlatformPlanId":    plan.ID,
		"Name":              fmt.Sprintf("%s %s Recurring", planDonorLabel(plan), installmentPeriod(plan.Frequency)),
		"Amount":            plan.Amount,
		"InstallmentPeriod": installmentPeriod(plan.Frequency),
		"Status":            recurringStatus(plan.Status),
	}
	if contactID != "" {
		fields["ContactId"] = contactID
	}
	if accountID != "" {
		fields["AccountId"] = accountID
	}
	return fields
}

func planDonorLabel(plan *platform.Plan) string {
	name := strings.TrimSpace(plan.FirstName + " " + plan.LastName)
	if name != "" {
		return name
	}
	if local, _, found := strings.Cut(plan.Email, "@"); found && local != "" {
		return local
	}
	return anonymousDonor
}

func installmentPeriod(frequency string) string {
	switch frequency {
	case "monthly":
		return "Monthly"
	case "quarterly":
		return "Quarterly"
	case "yearly":
		return "Yearly"
	}
	return frequency
}

func recurringStatus(status string) string {
	switch status {
	case "active":
		return "Active"
	case "past_due", "paused":
		return "Lapsed"
	default: // cancelled, ended
		return "Closed"
	}
}
