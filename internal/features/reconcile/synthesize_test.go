package reconcile

import (
	"testing"

	"go-donorsync/internal/platform"
)

func strptr(s string) *string { return &s }

func TestSynthesizeContactFieldsName(t *testing.T) {
	tests := []struct {
		name      string
		tx        *platform.Transaction
		contact   *platform.Contact
		wantFirst interface{}
		wantLast  interface{}
	}{
		{
			name:      "TransactionNameWins",
			tx:        &platform.Transaction{FirstName: "Jane", LastName: "Doe"},
			contact:   &platform.Contact{FirstName: "Janet", LastName: "Smith"},
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
		{
			name:      "ContactNameFallback",
			tx:        &platform.Transaction{},
			contact:   &platform.Contact{FirstName: "Janet", LastName: "Smith"},
			wantFirst: "Janet",
			wantLast:  "Smith",
		},
		{
			name: "GivingSpaceNameParsed",
			tx: &platform.Transaction{
				GivingSpace: &platform.GivingSpace{Name: "John Q. Public"},
			},
			wantFirst: "John",
			wantLast:  "Public",
		},
		{
			name: "AnonymousGivingSpaceUsesEmailLocalPart",
			tx: &platform.Transaction{
				GivingSpace: &platform.GivingSpace{Name: "Anonymous"},
				Email:       "jdoe@example.com",
			},
			wantFirst: nil,
			wantLast:  "jdoe",
		},
		{
			name:      "NoNameNoEmail",
			tx:        &platform.Transaction{},
			wantFirst: nil,
			wantLast:  "Anonymous Donor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := SynthesizeContactFields(tt.tx, tt.contact)
			if got := fields["FirstName"]; got != tt.wantFirst {
				t.Errorf("FirstName = %v, want %v", got, tt.wantFirst)
			}
			if got := fields["LastName"]; got != tt.wantLast {
				t.Errorf("LastName = %v, want %v", got, tt.wantLast)
			}
		})
	}
}

func TestSynthesizeContactFieldsOptOut(t *testing.T) {
	subscribed := SynthesizeContactFields(nil, &platform.Contact{ID: 1, IsEmailSubscribed: true})
	if _, present := subscribed["HasOptedOutOfEmail"]; present {
		t.Error("subscribed contact must not carry HasOptedOutOfEmail")
	}
	if _, present := subscribed["DoNotCall"]; present {
		t.Error("subscribed contact must not carry DoNotCall")
	}
	if got := subscribed["PromotionalConsent"]; got != true {
		t.Errorf("PromotionalConsent = %v, want true", got)
	}

	unsubscribed := SynthesizeContactFields(nil, &platform.Contact{ID: 1, IsEmailSubscribed: false})
	if got := unsubscribed["HasOptedOutOfEmail"]; got != true {
		t.Errorf("HasOptedOutOfEmail = %v, want true", got)
	}
	if got := unsubscribed["DoNotCall"]; got != true {
		t.Errorf("DoNotCall = %v, want true", got)
	}
	if _, present := unsubscribed["PromotionalConsent"]; present {
		t.Error("unsubscribed contact must not carry PromotionalConsent")
	}
}

func TestSynthesizeContactFieldsAddress(t *testing.T) {
	tx := &platform.Transaction{
		AddressLine1: "1 Main St",
		AddressLine2: "Apt 2",
		City:         "Springfield",
		State:        "IL",
		Zip:          "62701",
		Country:      "USA",
	}

	fields := SynthesizeContactFields(tx, nil)

	if got := fields["MailingStreet"]; got != "1 Main St\nApt 2" {
		t.Errorf("MailingStreet = %q", got)
	}
	if got := fields["MailingState"]; got != "Illinois" {
		t.Errorf("MailingState = %v, want Illinois", got)
	}
	if got := fields["MailingCountry"]; got != "US" {
		t.Errorf("MailingCountry = %v, want US", got)
	}

	// Unknown state codes are omitted; unknown countries become null
	odd := SynthesizeContactFields(&platform.Transaction{
		AddressLine1: "5 High St",
		City:         "Placeville",
		State:        "ZZ",
		Country:      "Atlantis",
	}, nil)
	if _, present := odd["MailingState"]; present {
		t.Error("unknown state must be omitted")
	}
	if got, present := odd["MailingCountry"]; !present || got != nil {
		t.Errorf("unknown country must be explicit null, got %v present=%v", got, present)
	}
}

func TestSynthesizeCampaignFields(t *testing.T) {
	goal := int64(500000)
	c := &platform.Campaign{
		ID:        7,
		Title:     "Spring Gala",
		Type:      "event",
		Status:    "active",
		Goal:      &goal,
		Raised:    123450,
		StartDate: strptr("2026-01-01"),
		EndDate:   strptr("2026-12-31"),
	}

	fields := SynthesizeCampaignFields(c, "2026-06-15")

	if got := fields["PlatformCampaignId"]; got != "7" {
		t.Errorf("PlatformCampaignId = %v", got)
	}
	if got := fields["ExpectedRevenue"]; got != 5000.0 {
		t.Errorf("ExpectedRevenue = %v, want 5000", got)
	}
	if got := fields["AmountRaised"]; got != 1234.5 {
		t.Errorf("AmountRaised = %v, want 1234.5", got)
	}
	if got := fields["Status"]; got != "In Progress" {
		t.Errorf("Status = %v, want In Progress", got)
	}
	if got := fields["IsActive"]; got != true {
		t.Errorf("IsActive = %v, want true", got)
	}
}

func TestCampaignStatus(t *testing.T) {
	tests := []struct {
		name  string
		start *string
		end   *string
		today string
		want  string
	}{
		{"BeforeStart", strptr("2026-07-01"), strptr("2026-08-01"), "2026-06-15", "Planned"},
		{"AfterEnd", strptr("2026-01-01"), strptr("2026-02-01"), "2026-06-15", "Completed"},
		{"Within", strptr("2026-01-01"), strptr("2026-12-31"), "2026-06-15", "In Progress"},
		{"NoDates", nil, nil, "2026-06-15", "In Progress"},
		{"OnlyFutureStart", strptr("2027-01-01"), nil, "2026-06-15", "Planned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CampaignStatus(tt.start, tt.end, tt.today); got != tt.want {
				t.Errorf("CampaignStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSynthesizeOpportunityFields(t *testing.T) {
	tx := &platform.Transaction{
		ID:            "tx_9",
		FirstName:     "Jane",
		LastName:      "Doe",
		Amount:        25.0,
		Fee:           1.17,
		Status:        "succeeded",
		PaymentMethod: "card",
		CreatedAt:     "2026-03-04T12:30:00Z",
	}

	fields := SynthesizeOpportunityFields(tx, "acct1", "cont1", "camp1", "")

	if got := fields["Name"]; got != "Jane Doe Donation tx_9" {
		t.Errorf("Name = %v", got)
	}
	if got := fields["StageName"]; got != "Closed Won" {
		t.Errorf("StageName = %v, want Closed Won", got)
	}
	if got := fields["CloseDate"]; got != "2026-03-04" {
		t.Errorf("CloseDate = %v, want 2026-03-04", got)
	}
	if _, present := fields["RecurringDonationId"]; present {
		t.Error("empty recurring id must be omitted")
	}
}

func TestStageForStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"succeeded", "Closed Won"},
		{"authorized", "Pledged"},
		{"failed", "Closed Lost"},
		{"cancelled", "Closed Lost"},
	}
	for _, tt := range tests {
		if got := stageForStatus(tt.status); got != tt.want {
			t.Errorf("stageForStatus(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestSynthesizeRecurringDonationFields(t *testing.T) {
	plan := &platform.Plan{
		ID:        "plan_3",
		FirstName: "Jane",
		LastName:  "Doe",
		Amount:    10.0,
		Frequency: "monthly",
		Status:    "past_due",
	}

	fields := SynthesizeRecurringDonationFields(plan, "cont1", "acct1")

	if got := fields["Name"]; got != "Jane Doe Monthly Recurring" {
		t.Errorf("Name = %v", got)
	}
	if got := fields["InstallmentPeriod"]; got != "Monthly" {
		t.Errorf("InstallmentPeriod = %v", got)
	}
	if got := fields["Status"]; got != "Lapsed" {
		t.Errorf("Status = %v, want Lapsed", got)
	}
}
